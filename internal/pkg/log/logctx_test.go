package log

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// capHandler копит записи для проверки.
type capHandler struct {
	records []slog.Record
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}
func (h *capHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *capHandler) WithGroup(string) slog.Handler      { return h }

func TestIntoFrom_RoundTrip(t *testing.T) {
	t.Parallel()

	h := &capHandler{}
	lg := slog.New(h)

	ctx := Into(context.Background(), lg)
	got := From(ctx)
	require.Same(t, lg, got)

	got.Info("hello")
	require.Len(t, h.records, 1)
	require.Equal(t, "hello", h.records[0].Message)
}

func TestFrom_EmptyContext_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	got := From(context.Background())
	require.NotNil(t, got)
	require.Same(t, slog.Default(), got)
}
