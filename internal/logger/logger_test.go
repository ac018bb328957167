package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer and restores the
// previous settings when the test ends.
func captureOutput(t *testing.T, level, format string) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)

	mu.Lock()
	origOutput, origColor := output, useColor
	mu.Unlock()
	origLevel := GetLevel()
	origFormat, _ := currentFormat.Load().(string)

	InitWithWriter(buf, level, format, false)

	t.Cleanup(func() {
		mu.Lock()
		output, useColor = origOutput, origColor
		mu.Unlock()
		currentLevel.Store(int32(origLevel))
		currentFormat.Store(origFormat)
		reconfigure()
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		visible []string
		hidden  []string
	}{
		{"DEBUG", []string{"d-msg", "i-msg", "w-msg", "e-msg"}, nil},
		{"INFO", []string{"i-msg", "w-msg", "e-msg"}, []string{"d-msg"}},
		{"WARN", []string{"w-msg", "e-msg"}, []string{"d-msg", "i-msg"}},
		{"ERROR", []string{"e-msg"}, []string{"d-msg", "i-msg", "w-msg"}},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := captureOutput(t, tt.level, "text")

			Debug("d-msg")
			Info("i-msg")
			Warn("w-msg")
			Error("e-msg")

			out := buf.String()
			for _, msg := range tt.visible {
				assert.Contains(t, out, msg)
			}
			for _, msg := range tt.hidden {
				assert.NotContains(t, out, msg)
			}
		})
	}
}

func TestSetLevel_IgnoresUnknown(t *testing.T) {
	captureOutput(t, "WARN", "text")
	SetLevel("verbose")
	assert.Equal(t, LevelWarn, GetLevel())

	SetLevel("debug")
	assert.Equal(t, LevelDebug, GetLevel())
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("warning")
	assert.True(t, ok)
	assert.Equal(t, LevelWarn, l)
	assert.Equal(t, "WARN", l.String())

	_, ok = ParseLevel("trace")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestTextFormat(t *testing.T) {
	buf := captureOutput(t, "DEBUG", "text")

	Info("call complete", KeyXID, "0x00000001", KeyTag, "needs quoting", XID(7), Err(errors.New("boom")))

	line := buf.String()
	assert.Contains(t, line, "INFO  call complete")
	assert.Contains(t, line, "xid=0x00000001")
	assert.Contains(t, line, `tag="needs quoting"`)
	assert.Contains(t, line, "xid=0x00000007")
	assert.Contains(t, line, `error="boom"`)
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestTextFormat_ErrorAlwaysQuoted(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")

	Warn("first", Err(errors.New("timeout")))
	Warn("second", slog.Any(KeyError, errors.New("timeout")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, `error="timeout"`)
	}
}

func TestTextFormat_GroupsAndWith(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")

	l := With(KeyServer, "10.0.0.1:2049").WithGroup("rpc")
	l.Info("reply", slog.Int("accept", 0), slog.Group("auth", slog.String("flavor", "sys")))

	line := buf.String()
	assert.Contains(t, line, "server=10.0.0.1:2049")
	assert.Contains(t, line, "rpc.accept=0")
	assert.Contains(t, line, "rpc.auth.flavor=sys")
}

func TestJSONFormat(t *testing.T) {
	buf := captureOutput(t, "INFO", "json")

	Info("compound", KeyOps, "PUTROOTFH,GETFH", KeyStatus, "NFS4_OK")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "compound", entry["msg"])
	assert.Equal(t, "PUTROOTFH,GETFH", entry[KeyOps])
	assert.Equal(t, "NFS4_OK", entry[KeyStatus])
}

func TestSetFormat_Switching(t *testing.T) {
	buf := captureOutput(t, "INFO", "json")
	SetFormat("yaml")
	Info("still json")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))

	buf.Reset()
	SetFormat("TEXT")
	Info("now text")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestContextLogging(t *testing.T) {
	buf := captureOutput(t, "DEBUG", "text")

	lc := NewLogContext("server:2049").WithXID(0x2a).WithProcedure("COMPOUND").WithTrace("abc", "def")
	ctx := WithContext(context.Background(), lc)

	DebugCtx(ctx, "sent", KeyRecordLen, 128)

	line := buf.String()
	assert.Contains(t, line, "trace_id=abc")
	assert.Contains(t, line, "span_id=def")
	assert.Contains(t, line, "xid=0x0000002a")
	assert.Contains(t, line, "procedure=COMPOUND")
	assert.Contains(t, line, "server=server:2049")
	assert.Less(t, strings.Index(line, "trace_id"), strings.Index(line, "record_len"))

	buf.Reset()
	InfoCtx(context.Background(), "no context")
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestLogContext_CloneIsIndependent(t *testing.T) {
	orig := NewLogContext("a")
	withXID := orig.WithXID(9)

	assert.Zero(t, orig.XID)
	assert.Equal(t, uint32(9), withXID.XID)
	assert.GreaterOrEqual(t, orig.DurationMs(), 0.0)

	var nilCtx *LogContext
	assert.Nil(t, nilCtx.WithProcedure("NULL"))
	assert.Zero(t, nilCtx.DurationMs())
	assert.Nil(t, FromContext(context.Background()))
}

func TestConcurrentLogging(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				Info("concurrent", "goroutine", i, "n", j)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 16*50)
}

func TestInit_FileOutput(t *testing.T) {
	captureOutput(t, "INFO", "text")
	path := filepath.Join(t.TempDir(), "nfs4wire.log")

	require.NoError(t, Init(Config{Level: "INFO", Format: "text", Output: path}))
	Info("to file")
	t.Cleanup(func() {
		mu.Lock()
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
		mu.Unlock()
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestInit_Errors(t *testing.T) {
	captureOutput(t, "INFO", "text")

	assert.Error(t, Init(Config{Level: "LOUD"}))
	assert.Error(t, Init(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")}))
}

func TestErr_Nil(t *testing.T) {
	assert.True(t, Err(nil).Equal(slog.Attr{}))
	assert.Equal(t, "0xdeadbeef", FormatXID(0xdeadbeef))
}
