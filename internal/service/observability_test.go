package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureObserver struct {
	events []UseCaseEvent
}

func (o *captureObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

func (o *captureObserver) names() []string {
	out := make([]string, 0, len(o.events))
	for _, e := range o.events {
		out = append(out, e.Name)
	}
	return out
}

func TestSessionManager_EmitsUseCaseEvents(t *testing.T) {
	ctx := context.Background()
	obs := &captureObserver{}
	m := NewSessionManager(WithObserver(obs))
	path := testutil.TempStorePath(t, ".json")

	require.NoError(t, m.Load(ctx, path))
	_, err := m.Add(testutil.NewTestSession("A"))
	require.NoError(t, err)
	require.NoError(t, m.Update(0, domain.Fields{Description: strPtr("notes")}))
	require.NoError(t, m.Save(ctx, path))
	require.NoError(t, m.Delete(0))
	assert.Error(t, m.Delete(0))

	assert.Equal(t, []string{
		"load-sessions", "add-session", "update-session", "save-sessions", "delete-session", "delete-session",
	}, obs.names())

	load := obs.events[0]
	assert.True(t, load.Success)
	assert.Equal(t, path, load.Fields["path"])
	assert.Equal(t, 0, load.Fields["count"])

	save := obs.events[3]
	assert.Equal(t, 1, save.Fields["count"])

	failed := obs.events[5]
	assert.False(t, failed.Success)
	assert.ErrorIs(t, failed.Err, domain.ErrIndexOutOfRange)
}

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelInfo)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:    "save-sessions",
		Success: true,
		Fields:  map[string]any{"count": 3},
	})
	out := buf.String()
	assert.Contains(t, out, "msg=service_use_case")
	assert.Contains(t, out, "use_case=save-sessions")
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "level=INFO")

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "load-sessions",
		Err:  errors.New("boom"),
	})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestLogUseCaseObserver_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelError)
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "add-session", Success: true})
	assert.Empty(t, buf.String())
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil, slog.LevelInfo))
	assert.IsType(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
}
