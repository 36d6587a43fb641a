package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinner(context.Background(), "Rendering...")
	var buf bytes.Buffer
	s.w = &buf
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Interrupted() {
		t.Error("Interrupted() = true after Stop")
	}
	if !strings.Contains(buf.String(), "Rendering...") {
		t.Errorf("spinner output = %q", buf.String())
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Fetching...")
	s.w = &bytes.Buffer{}
	s.Start()

	cancel()
	time.Sleep(50 * time.Millisecond)
	if !s.Interrupted() {
		t.Error("Interrupted() = false after parent cancel")
	}
	s.Stop()
	if !s.Interrupted() {
		t.Error("Stop after cancel must not clear Interrupted")
	}
}

func TestSpinnerParentTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, "Fetching...")
	s.w = &bytes.Buffer{}
	s.Start()
	time.Sleep(80 * time.Millisecond)
	if !s.Interrupted() {
		t.Error("Interrupted() = false after timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "x")
	s.w = &bytes.Buffer{}
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessages(t *testing.T) {
	out := captureStdout(t)

	s := newSpinner(context.Background(), "x")
	s.w = &bytes.Buffer{}
	s.Start()
	s.StopWithSuccess("Done")

	s = newSpinner(context.Background(), "y")
	s.w = &bytes.Buffer{}
	s.Start()
	s.StopWithError("Failed")

	if !strings.Contains(out.String(), "Done") || !strings.Contains(out.String(), "Failed") {
		t.Errorf("output = %q", out.String())
	}
}
