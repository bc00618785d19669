package fprint

import (
	"context"
	"testing"
	"time"
)

func TestVerify_MissingToolFailsClosed(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if Available() {
		t.Fatal("Available() should be false with an empty PATH")
	}
	if Verify(context.Background(), "alice", time.Second) {
		t.Error("Verify() without fprintd-verify should fail closed")
	}
}

func TestVerify_CancelledContextFailsClosed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if Verify(ctx, "alice", time.Second) {
		t.Error("Verify() with a cancelled context should fail closed")
	}
}
