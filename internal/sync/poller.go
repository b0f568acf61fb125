package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/planner"
	"github.com/nhle/activity-planner/internal/reminder"
)

// RefreshState represents the current state of the background refresh.
type RefreshState int

const (
	RefreshIdle RefreshState = iota
	RefreshRunning
	RefreshError
)

// Loader is the part of the planner service the poller reads from.
type Loader interface {
	Today() caldate.Date
	Dashboard(ctx context.Context) ([]planner.ActivitySummary, error)
	Reminders(ctx context.Context) ([]model.Reminder, error)
	Upcoming(ctx context.Context) ([]planner.TaskRef, error)
	Overdue(ctx context.Context) ([]planner.TaskRef, error)
}

// Snapshot is every derived view of the planner as of one day.
type Snapshot struct {
	Today     caldate.Date
	Dashboard []planner.ActivitySummary
	Reminders []model.Reminder
	Upcoming  []planner.TaskRef
	Overdue   []planner.TaskRef
	Unread    int
	LoadedAt  time.Time
}

// SnapshotMsg is a tea.Msg sent when a refresh completes.
type SnapshotMsg struct {
	Snapshot Snapshot
	Error    error

	// DayChanged is set when today differs from the previous snapshot.
	DayChanged bool
}

// DefaultInterval is how often the poller reloads without a trigger.
const DefaultInterval = time.Minute

// loadTimeout is the maximum time allowed for a single refresh.
const loadTimeout = 10 * time.Second

// Poller reloads planner views in the background. Reminders depend on the
// date, so a long-running UI needs them recomputed as the day rolls over.
type Poller struct {
	loader    Loader
	interval  time.Duration
	resultCh  chan SnapshotMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
	state     RefreshState
	lastDay   caldate.Date
	lastLoad  time.Time
}

// New creates a Poller that reloads from l every interval. A non-positive
// interval uses DefaultInterval.
func New(l Loader, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		loader:    l,
		interval:  interval,
		resultCh:  make(chan SnapshotMsg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start returns a tea.Cmd that starts the polling goroutine and waits for
// its first result.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate reload.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A reload is already pending
	}
}

// State returns the refresh state and the time of the last good load.
func (p *Poller) State() (RefreshState, time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.lastLoad
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.load()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.load()
		case <-p.triggerCh:
			p.load()
		}
	}
}

// load builds one snapshot and sends it on the result channel.
func (p *Poller) load() {
	p.setState(RefreshRunning)

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	snap, err := Load(ctx, p.loader)
	if err != nil {
		p.setState(RefreshError)
		p.sendResult(SnapshotMsg{Error: err})
		return
	}

	p.mu.Lock()
	changed := !p.lastDay.IsZero() && !p.lastDay.Equal(snap.Today)
	p.lastDay = snap.Today
	p.lastLoad = snap.LoadedAt
	p.state = RefreshIdle
	p.mu.Unlock()

	p.sendResult(SnapshotMsg{Snapshot: snap, DayChanged: changed})
}

// Load reads every view from l once.
func Load(ctx context.Context, l Loader) (Snapshot, error) {
	snap := Snapshot{Today: l.Today(), LoadedAt: time.Now()}

	var err error
	if snap.Dashboard, err = l.Dashboard(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Reminders, err = l.Reminders(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Upcoming, err = l.Upcoming(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Overdue, err = l.Overdue(ctx); err != nil {
		return Snapshot{}, err
	}
	snap.Unread = reminder.Unread(reminder.Active(snap.Reminders))
	return snap, nil
}

func (p *Poller) setState(state RefreshState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
}

// sendResult sends a SnapshotMsg on the result channel without blocking.
func (p *Poller) sendResult(msg SnapshotMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next snapshot.
// Call it after handling a SnapshotMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
