package media

import (
	"path"
	"path/filepath"
	"strings"
)

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".m4a":  {},
	".aac":  {},
	".flac": {},
	".ogg":  {},
}

// IsAudioFile reports whether the path points at an audio-only container.
// Thumbnail generation is skipped for these.
func IsAudioFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filePath)))
	_, ok := audioExtensions[ext]
	return ok
}

// ToServicePath converts a local media path into the path form the AI
// service expects. The service resolves uploads under its own internal
// media root, so only the file name survives the translation.
func ToServicePath(localPath, mediaRootInternal string) string {
	name := filepath.Base(strings.TrimSpace(localPath))
	root := strings.TrimRight(strings.TrimSpace(mediaRootInternal), "/")
	return root + "/" + name
}

// ToMediaURL converts an absolute media path into a /media-relative URL for
// serving, leaving already-relative or remote locations untouched.
func ToMediaURL(absolutePath, mediaRoot string) string {
	trimmed := strings.TrimSpace(absolutePath)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http") || strings.HasPrefix(trimmed, "/media/") {
		return trimmed
	}
	normalizedRoot := filepath.Clean(mediaRoot)
	normalized := filepath.Clean(trimmed)
	if normalizedRoot != "." && strings.HasPrefix(normalized, normalizedRoot) {
		relative := strings.TrimPrefix(normalized, normalizedRoot)
		return path.Join("/media", filepath.ToSlash(relative))
	}
	return trimmed
}
