package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := ShowProgress(ctx, &buf, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if buf.Len() != 0 {
				t.Errorf("non-terminal writer got spinner output %q", buf.String())
			}
		})
	}
}

func TestShowProgress_LogsMessageVerbatim(t *testing.T) {
	logs := captureLogs(t)
	SetLogLevel(LogLevelInfo)

	if err := ShowProgress(context.Background(), &bytes.Buffer{}, "Exporting 100% of rooms", func() error { return nil }); err != nil {
		t.Fatalf("ShowProgress() error = %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "Exporting 100% of rooms") {
		t.Errorf("log output should contain the message unchanged, got:\n%s", out)
	}
	if strings.Contains(out, "%!") {
		t.Errorf("message was treated as a format string, got:\n%s", out)
	}
}

func TestShowProgressSpinner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	defer close(release)
	cancel()

	var buf bytes.Buffer
	err := showProgressSpinner(ctx, &buf, "Testing", func() error {
		<-release
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("showProgressSpinner() error = %v, want context.Canceled", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("✗ Testing")) {
		t.Errorf("output %q should mark the step failed", buf.String())
	}
}

func TestShowProgressSpinner_Completes(t *testing.T) {
	var buf bytes.Buffer
	if err := showProgressSpinner(context.Background(), &buf, "Exporting", func() error { return nil }); err != nil {
		t.Fatalf("showProgressSpinner() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("✓ Exporting")) {
		t.Errorf("output %q should mark the step done", buf.String())
	}
}

func TestShowProgressWithSteps(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		steps   []ProgressStep
		wantErr bool
	}{
		{
			name: "successful steps",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return nil }},
				{Message: "Step 2", Fn: func() error { return nil }},
			},
			wantErr: false,
		},
		{
			name: "step with error",
			steps: []ProgressStep{
				{Message: "Step 1", Fn: func() error { return errors.New("step error") }},
				{Message: "Step 2", Fn: func() error { t.Error("ran after failure"); return nil }},
			},
			wantErr: true,
		},
		{
			name:    "empty steps",
			steps:   []ProgressStep{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgressWithSteps(ctx, &bytes.Buffer{}, tt.steps)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgressWithSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrintStatus_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	PrintSuccess(&buf, "done")
	PrintInfo(&buf, "info")
	PrintError(&buf, "failed")
	PrintWarning(&buf, "careful")

	want := "done\ninfo\nfailed\nWARNING: careful\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
