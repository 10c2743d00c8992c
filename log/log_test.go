package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestZeroValueLogger(t *testing.T) {
	t.Parallel()

	var l Logger

	// Must not panic.
	l.Trace("trace")
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}

	if l.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", l.Format(), DefaultFormat)
	}

	if w := l.With(slog.String("k", "v")); w.Logger != nil {
		t.Error("With on zero value should remain a no-op logger")
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf,
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithPretty(false))

	l.Info("dropped")
	l.Warn("kept")
	l.Error("also kept")

	out := buf.String()

	if strings.Contains(out, "dropped") {
		t.Error("message below minimum level was emitted")
	}

	if !strings.Contains(out, "kept") || !strings.Contains(out, "also kept") {
		t.Errorf("messages at or above minimum level missing:\n%s", out)
	}
}

func TestTraceLevelName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf,
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithPretty(false))

	l.Trace("lowest")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if record["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", record["level"])
	}

	if record["msg"] != "lowest" {
		t.Errorf("msg = %v, want lowest", record["msg"])
	}
}

func TestWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithPretty(false)).
		With(slog.String("component", "resolver"))

	l.Info("hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if record["component"] != "resolver" {
		t.Errorf("component = %v, want resolver", record["component"])
	}
}

func TestWrapOverrides(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelError), WithPretty(false))

	w := l.Wrap(WithLevel(LevelDebug), WithFormat(FormatJSON))

	if w.Level() != LevelDebug {
		t.Errorf("wrapped level = %v, want %v", w.Level(), LevelDebug)
	}

	if w.Format() != FormatJSON {
		t.Errorf("wrapped format = %v, want %v", w.Format(), FormatJSON)
	}

	// The original is unchanged.
	if l.Level() != LevelError {
		t.Errorf("original level = %v, want %v", l.Level(), LevelError)
	}
}

func TestNilWriter(t *testing.T) {
	t.Parallel()

	l := Make(nil)

	// Must not panic; output goes to io.Discard.
	l.Error("nowhere")
}

func TestTimeLayoutNone(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := Make(&buf,
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"))

	l.Info("timeless")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if _, ok := record["time"]; ok {
		t.Errorf("time attribute present with layout none:\n%s", buf.String())
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	t.Parallel()

	ref := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-06-01T12:30:45Z"},
		{"rfc-3339", "2024-06-01T12:30:45Z"},
		{"kitchen", "12:30PM"},
		{"none", ""},
		{"", ""},
		{"2006/01/02", "2024/06/01"},
	}

	for _, test := range tests {
		if got := makeFormatTimeFunc(test.layout)(ref); got != test.want {
			t.Errorf("layout %q formatted %q, want %q",
				test.layout, got, test.want)
		}
	}
}
