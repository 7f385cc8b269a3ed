package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lingosub/internal/logging"
)

func TestNewConsoleWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("pipeline started", logging.String(logging.FieldVideoID, "vid-1"))
	logger.Debug("suppressed at info level")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "pipeline started") {
		t.Fatalf("missing info line:\n%s", text)
	}
	if !strings.Contains(text, "video_id=vid-1") {
		t.Fatalf("missing attribute:\n%s", text)
	}
	if strings.Contains(text, "suppressed at info level") {
		t.Fatalf("debug line should be filtered:\n%s", text)
	}
}

func TestNewJSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("structured line", logging.Int("count", 3))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, `"msg":"structured line"`) {
		t.Fatalf("missing json message:\n%s", text)
	}
	if !strings.Contains(text, `"count":3`) {
		t.Fatalf("missing json attribute:\n%s", text)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestComponentLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logging.NewComponentLogger(logger, "pipeline").Info("hello")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(content), "pipeline") {
		t.Fatalf("component missing from output:\n%s", content)
	}
}
