package comm

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestSlogHandler_EmitsDebugInJSONModeWithoutVerbose(t *testing.T) {
	output := captureJSONLogs(t, func() {
		logger := NewLogger(slog.LevelDebug)
		logger.Debug("opening target",
			slog.String("path", "/dev/sdz"),
			slog.Any("flags", []any{"O_WRONLY"}),
			slog.Duration("took", 2500*time.Nanosecond),
		)
	})

	if len(output) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(output))
	}
	logObj := output[0]

	if got, _ := logObj["type"].(string); got != "log" {
		t.Fatalf("expected type=log, got %#v", logObj["type"])
	}
	if got, _ := logObj["level"].(string); got != "debug" {
		t.Fatalf("expected level=debug, got %#v", logObj["level"])
	}
	if got, _ := logObj["message"].(string); got != "opening target" {
		t.Fatalf("expected message=opening target, got %#v", logObj["message"])
	}
	if got, _ := logObj["path"].(string); got != "/dev/sdz" {
		t.Fatalf("expected path=/dev/sdz, got %#v", logObj["path"])
	}
	if _, ok := logObj["time"]; !ok {
		t.Fatalf("expected time field")
	}
	if _, ok := logObj["took"]; !ok {
		t.Fatalf("expected took field")
	}
	flags, ok := logObj["flags"].([]any)
	if !ok || len(flags) != 1 {
		t.Fatalf("expected flags array with 1 value, got %#v", logObj["flags"])
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	output := captureJSONLogs(t, func() {
		logger := NewLogger(slog.LevelDebug).
			WithGroup("target").
			With("kind", "device")
		logger.Debug("size", slog.Int64("bytes", 4096))
	})

	if len(output) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(output))
	}
	logObj := output[0]

	if got, _ := logObj["target.kind"].(string); got != "device" {
		t.Fatalf("expected target.kind=device, got %#v", logObj["target.kind"])
	}
	if got, _ := logObj["target.bytes"].(float64); got != 4096 {
		t.Fatalf("expected target.bytes attr, got %#v", logObj["target.bytes"])
	}
}

func TestSlogHandler_NilLevelFollowsVerbose(t *testing.T) {
	output := captureJSONLogs(t, func() {
		logger := NewLogger(nil)
		logger.Debug("hidden")
		logger.Info("shown")
	})

	if len(output) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(output))
	}
	if got, _ := output[0]["message"].(string); got != "shown" {
		t.Fatalf("expected message=shown, got %#v", output[0]["message"])
	}
}

func TestSlogHandler_HumanModeAppendsFields(t *testing.T) {
	oldSettings := *settings
	defer func() {
		*settings = oldSettings
	}()
	Configure(false, false, true, false)

	var buf bytes.Buffer
	oldOutput := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldOutput)
		log.SetFlags(oldFlags)
	}()

	logger := NewLogger(nil)
	logger.Debug("opening target", slog.String("path", "out.bin"), slog.String("kind", "file"))
	logger.Warn("stat failed")

	expected := "opening target kind=file path=out.bin\nwarning: stat failed\n"
	if buf.String() != expected {
		t.Fatalf("expected %q, got %q", expected, buf.String())
	}
}

func captureJSONLogs(t *testing.T, fn func()) []map[string]any {
	t.Helper()

	oldSettings := *settings
	defer func() {
		*settings = oldSettings
	}()
	Configure(false, false, false, true)

	outBytes := captureStdout(t, fn)

	var output []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(outBytes), []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			t.Fatalf("unmarshal json line %q: %v", string(line), err)
		}
		output = append(output, obj)
	}

	return output
}

func captureStdout(t *testing.T, fn func()) []byte {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
	}()

	done := make(chan []byte)
	go func() {
		outBytes, _ := io.ReadAll(r)
		done <- outBytes
	}()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return <-done
}
