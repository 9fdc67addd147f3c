package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer

	quiet := New(false, &buf)
	quiet.Debug().Msg("hidden")
	quiet.Info().Str("weapon", "Lenz").Msg("parsed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected debug message to be suppressed")
	}
	if !strings.Contains(out, "parsed") || !strings.Contains(out, "weapon=Lenz") {
		t.Errorf("Expected info line with field, got %q", out)
	}

	buf.Reset()
	verbose := New(true, &buf)
	verbose.Debug().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("Expected debug message when verbose")
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := JSON(false, &buf)
	logger.Info().Int("stats", 4).Msg("parsed")

	if !strings.Contains(buf.String(), `"stats":4`) {
		t.Errorf("Expected JSON field, got %q", buf.String())
	}
}
