package logger_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mind-engage/mindengage-authoring/internal/logger"
)

func TestRedactsSecretsAndTruncatesDataURLs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := logger.NewWithCore(core).With("component", "test")

	img := "data:image/png;base64," + strings.Repeat("A", 200)
	log.Info("submit", "client_secret", "hunter2", "image", img, "draft_id", "d1")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["client_secret"] != "[REDACTED]" {
		t.Fatalf("secret = %v", fields["client_secret"])
	}
	if s, _ := fields["image"].(string); len(s) >= len(img) || !strings.HasSuffix(s, "...") {
		t.Fatalf("image not truncated: %q", s)
	}
	if fields["draft_id"] != "d1" || fields["component"] != "test" {
		t.Fatalf("fields = %v", fields)
	}
}
