package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestWithContextAddsRequestAndUserIDs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
	ctx = context.WithValue(ctx, UserIDKey, "user-9")
	log.WithContext(ctx).DatabaseError("save", context.Canceled)

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-123"`) || !strings.Contains(out, `"user_id":"user-9"`) {
		t.Fatalf("expected request and user ids in %s", out)
	}
}

func TestWithContextWithoutValuesKeepsLogger(t *testing.T) {
	log := Discard()
	if got := log.WithContext(context.Background()); got != log {
		t.Fatal("expected the same logger when the context carries no ids")
	}
}
