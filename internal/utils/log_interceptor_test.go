package utils

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogInterceptorPrefixesLines(t *testing.T) {
	var out bytes.Buffer
	li := NewLogInterceptor(&out)
	li.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	n, err := li.Write([]byte("first\nsecond\r\nthi"))
	require.NoError(t, err)
	assert.Equal(t, len("first\nsecond\r\nthi"), n)

	_, err = li.Write([]byte("rd\n"))
	require.NoError(t, err)

	assert.Equal(t,
		"line=1 time=2024-03-01T12:00:00Z first\n"+
			"line=2 time=2024-03-01T12:00:00Z second\n"+
			"line=3 time=2024-03-01T12:00:00Z third\n",
		out.String())
}

func TestLogInterceptorCloseFlushesPartialLine(t *testing.T) {
	var out bytes.Buffer
	li := NewLogInterceptor(&out)

	_, err := li.Write([]byte("no newline"))
	require.NoError(t, err)
	assert.Empty(t, out.String())

	require.NoError(t, li.Close())
	assert.True(t, strings.HasSuffix(out.String(), " no newline\n"))

	// nothing left to flush
	require.NoError(t, li.Close())
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestMultiLogHandlerFansOut(t *testing.T) {
	var debugOut, infoOut bytes.Buffer
	debugHandler := slog.NewTextHandler(&debugOut, &slog.HandlerOptions{Level: slog.LevelDebug})
	infoHandler := slog.NewTextHandler(&infoOut, &slog.HandlerOptions{Level: slog.LevelInfo})

	h := NewMultiLogHandler(debugHandler, infoHandler)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(h).With("run", "abc").WithGroup("sync")
	logger.Debug("scan", "photos", 3)
	logger.Info("upload", "name", "sunset")

	assert.Contains(t, debugOut.String(), "msg=scan")
	assert.Contains(t, debugOut.String(), "msg=upload")
	assert.Contains(t, debugOut.String(), "run=abc")
	assert.Contains(t, debugOut.String(), "sync.name=sunset")

	assert.NotContains(t, infoOut.String(), "msg=scan")
	assert.Contains(t, infoOut.String(), "msg=upload")
}

func TestMultiLogHandlerDisabled(t *testing.T) {
	var out bytes.Buffer
	h := NewMultiLogHandler(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelError}))
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
}
