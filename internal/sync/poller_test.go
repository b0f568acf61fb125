package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/planner"
)

type fakeLoader struct {
	mu        gosync.Mutex
	today     caldate.Date
	reminders []model.Reminder
	err       error
	calls     int
}

func (f *fakeLoader) Today() caldate.Date {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.today
}

func (f *fakeLoader) setToday(d caldate.Date) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.today = d
}

func (f *fakeLoader) Dashboard(context.Context) ([]planner.ActivitySummary, error) {
	return []planner.ActivitySummary{{Activity: model.Activity{ID: "act-1"}}}, f.err
}

func (f *fakeLoader) Reminders(context.Context) ([]model.Reminder, error) {
	return f.reminders, nil
}

func (f *fakeLoader) Upcoming(context.Context) ([]planner.TaskRef, error) {
	return nil, nil
}

func (f *fakeLoader) Overdue(context.Context) ([]planner.TaskRef, error) {
	return nil, nil
}

func TestLoad(t *testing.T) {
	l := &fakeLoader{
		today: caldate.MustParse("2025-03-01"),
		reminders: []model.Reminder{
			{ID: "a"},
			{ID: "b", IsRead: true},
			{ID: "c", IsDismissed: true},
		},
	}

	snap, err := Load(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", snap.Today.String())
	assert.Len(t, snap.Dashboard, 1)
	assert.Len(t, snap.Reminders, 3)
	assert.Equal(t, 1, snap.Unread, "dismissed reminders are not unread")
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestLoad_Error(t *testing.T) {
	l := &fakeLoader{today: caldate.MustParse("2025-03-01"), err: errors.New("db closed")}

	_, err := Load(context.Background(), l)
	assert.EqualError(t, err, "db closed")
}

func TestPoller_StartDeliversSnapshot(t *testing.T) {
	l := &fakeLoader{today: caldate.MustParse("2025-03-01")}
	p := New(l, time.Hour)
	defer p.Stop()

	cmd := p.Start()
	require.NotNil(t, cmd)
	assert.Nil(t, p.Start(), "second start is a no-op")

	msg, ok := cmd().(SnapshotMsg)
	require.True(t, ok)
	require.NoError(t, msg.Error)
	assert.Equal(t, "2025-03-01", msg.Snapshot.Today.String())
	assert.False(t, msg.DayChanged)

	state, last := p.State()
	assert.Equal(t, RefreshIdle, state)
	assert.False(t, last.IsZero())
}

func TestPoller_RefreshReportsDayChange(t *testing.T) {
	l := &fakeLoader{today: caldate.MustParse("2025-03-01")}
	p := New(l, time.Hour)
	defer p.Stop()

	first, ok := p.Start()().(SnapshotMsg)
	require.True(t, ok)
	assert.False(t, first.DayChanged)

	l.setToday(caldate.MustParse("2025-03-02"))
	p.Refresh()

	next, ok := p.WaitForNextResult()().(SnapshotMsg)
	require.True(t, ok)
	assert.True(t, next.DayChanged)
	assert.Equal(t, "2025-03-02", next.Snapshot.Today.String())
}

func TestPoller_ErrorState(t *testing.T) {
	l := &fakeLoader{today: caldate.MustParse("2025-03-01"), err: errors.New("boom")}
	p := New(l, 0)
	defer p.Stop()
	assert.Equal(t, DefaultInterval, p.interval)

	msg, ok := p.Start()().(SnapshotMsg)
	require.True(t, ok)
	assert.EqualError(t, msg.Error, "boom")

	state, _ := p.State()
	assert.Equal(t, RefreshError, state)
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	p := New(&fakeLoader{}, time.Hour)
	p.Stop()
	_ = p.Start()
	p.Stop()
	assert.NotPanics(t, p.Stop)
}
