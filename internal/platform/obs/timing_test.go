package obs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestTimeLogsSuccess(t *testing.T) {
	buf := captureDefault(t)
	ctx := WithRequestID(context.Background(), "abc")

	var err error
	Time(ctx, "instance.import")(&err)

	out := buf.String()
	assert.Contains(t, out, "op=instance.import")
	assert.Contains(t, out, "req_id=abc")
	assert.NotContains(t, out, "error=")
}

func TestTimeLogsFailure(t *testing.T) {
	buf := captureDefault(t)

	err := errors.New("boom")
	Time(context.Background(), "instance.get")(&err)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "error=boom")
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
