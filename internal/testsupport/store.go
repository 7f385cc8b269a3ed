package testsupport

import (
	"context"
	"testing"

	"lingosub/internal/config"
	"lingosub/internal/store"
)

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewVideo inserts a video row for tests using the provided store.
func NewVideo(t testing.TB, st *store.Store, title, filePath string) *store.Video {
	t.Helper()

	video, err := st.CreateVideo(context.Background(), title, filePath)
	if err != nil {
		t.Fatalf("store.CreateVideo: %v", err)
	}
	return video
}
