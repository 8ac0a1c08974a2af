package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/store"
)

func TestRunsTable(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	st := testStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.RecordRun(ctx, &store.Run{
		Source:    "content.json",
		State:     "ready",
		Rendered:  []string{"who-am-i", "know-how"},
		StartedAt: started,
		Duration:  12 * time.Millisecond,
	}))
	require.NoError(t, st.RecordRun(ctx, &store.Run{
		Source:    "content.json",
		State:     "failed",
		Error:     "load failed",
		StartedAt: started.Add(time.Minute),
		Duration:  3 * time.Millisecond,
	}))

	runs, err := st.RecentRuns(ctx, 10)
	require.NoError(t, err)

	out := runsTable(runs)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 4)
	for _, h := range []string{"ID", "STARTED", "STATE", "RENDERED", "SKIPPED", "DURATION", "ERROR"} {
		assert.Contains(t, lines[1], h)
	}
	assert.Contains(t, out, "12ms")
	assert.Contains(t, out, "load failed")
	assert.Less(t, strings.Index(out, "failed"), strings.Index(out, "ready"), "newest run first")
}

func TestRunsTableEmpty(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := runsTable(nil)
	assert.Contains(t, out, "STATE")
	assert.NotContains(t, out, "ready")
}
