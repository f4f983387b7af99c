package utilities

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestLogRequestLevels(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, "debug", false)
	t.Cleanup(func() { InitLoggerWithWriter(&bytes.Buffer{}, "info", false) })

	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusInternalServerError, "error"},
	}
	for _, c := range cases {
		buf.Reset()
		LogRequest(http.MethodGet, "/deadlines/", "127.0.0.1:1234", c.status, 42, 3*time.Millisecond)

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", buf.String())
		}
		if entry["level"] != c.level {
			t.Errorf("status %d logged at %v, want %s", c.status, entry["level"], c.level)
		}
		if entry["path"] != "/deadlines/" || entry["status"] != float64(c.status) || entry["bytes"] != float64(42) {
			t.Errorf("unexpected fields: %v", entry)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, "warn", false)
	t.Cleanup(func() { InitLoggerWithWriter(&bytes.Buffer{}, "info", false) })

	LogInfo("hidden %d", 1)
	LogDebug("hidden %d", 2)
	if buf.Len() != 0 {
		t.Fatalf("info/debug should be filtered at warn: %q", buf.String())
	}

	LogError(errors.New("boom"), "visible")
	if !bytes.Contains(buf.Bytes(), []byte("boom")) {
		t.Errorf("error not logged: %q", buf.String())
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, "chatty", false)
	t.Cleanup(func() { InitLoggerWithWriter(&bytes.Buffer{}, "info", false) })

	LogDebug("hidden")
	LogInfo("shown")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) || !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestUserUID(t *testing.T) {
	if _, ok := UserUID(context.Background()); ok {
		t.Error("empty context should carry no UID")
	}
	if uid, ok := UserUID(WithUserUID(context.Background(), "user-7")); !ok || uid != "user-7" {
		t.Errorf("UserUID = %q, %v", uid, ok)
	}
}
