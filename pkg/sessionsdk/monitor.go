package sessionsdk

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/colegiosoft/siged/pkg/jwtx"
)

// Navigator is how the monitor and guard ask the host application to move
// somewhere else. The SDK stays ignorant of rendering; a desktop shell maps
// this to its router, a test maps it to a slice.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// EventKind distinguishes monitor notifications.
type EventKind int

const (
	// EventExpiring means the token is inside the warning threshold. The
	// consuming UI typically shows a self-dismissing banner.
	EventExpiring EventKind = iota
	// EventExpired means the session was force-closed and the navigator was
	// pointed at the login destination.
	EventExpired
)

// Event is a monitor notification delivered on the Events channel.
type Event struct {
	Kind      EventKind
	Remaining time.Duration
	At        time.Time
}

// MonitorConfig tunes the expiration monitor. Start from DefaultMonitorConfig.
type MonitorConfig struct {
	CheckInterval    time.Duration // how often to poll the session (default 60s)
	RedirectTo       string        // where to navigate on forced logout (default /login)
	ShowWarning      bool          // emit EventExpiring before expiry (default true)
	WarningThreshold time.Duration // how close to expiry to warn (default 5m)
	Enabled          bool          // a disabled monitor never starts its loop (default true)
}

// DefaultMonitorConfig returns the stock configuration.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		CheckInterval:    60 * time.Second,
		RedirectTo:       "/login",
		ShowWarning:      true,
		WarningThreshold: jwtx.DefaultWarningThreshold,
		Enabled:          true,
	}
}

// Monitor polls the Manager on a fixed interval and reacts when the access
// token approaches or passes its expiry: one warning per approach, one
// forced logout per authenticated window. The monitor is the only component
// that closes a session unilaterally; everything else just reads.
type Monitor struct {
	manager *Manager
	nav     Navigator
	cfg     MonitorConfig
	logger  *slog.Logger
	events  chan Event

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool

	// Run state for one continuous monitoring window. Touched only by the
	// polling goroutine (or by direct check calls in tests).
	hasShownWarning bool
	hasExpired      bool
	lastToken       string
}

// NewMonitor creates a monitor over the given manager. nav may be nil when
// the host has no navigation concept (the event channel still fires).
func NewMonitor(manager *Manager, nav Navigator, cfg MonitorConfig, opts ...Option) *Monitor {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 60 * time.Second
	}
	if cfg.RedirectTo == "" {
		cfg.RedirectTo = "/login"
	}
	if cfg.WarningThreshold <= 0 {
		cfg.WarningThreshold = jwtx.DefaultWarningThreshold
	}

	m := &Monitor{
		manager: manager,
		nav:     nav,
		cfg:     cfg,
		logger:  manager.logger,
		events:  make(chan Event, 8),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	return m
}

// Events delivers monitor notifications. The channel is buffered; if nobody
// listens, events are dropped rather than blocking the poll loop.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Start launches the polling loop. A disabled monitor stays idle.
func (m *Monitor) Start() {
	if !m.cfg.Enabled {
		m.logger.Debug("expiration monitor disabled")
		return
	}

	m.started = true
	go m.run()
	m.logger.Info("expiration monitor started",
		"interval", m.cfg.CheckInterval,
		"warning_threshold", m.cfg.WarningThreshold,
	)
}

// Stop cancels the polling loop and blocks until it has fully exited. No
// tick runs after Stop returns, so tearing down the manager afterwards is
// safe. Stop is idempotent.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		if m.started {
			<-m.doneCh
		}
		m.logger.Info("expiration monitor stopped")
	})
}

func (m *Monitor) run() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	// First check immediately: a session rehydrated with a stale token
	// should not get a full interval of grace.
	m.check(time.Now())

	for {
		select {
		case <-ticker.C:
			m.check(time.Now())
		case <-m.stopCh:
			return
		}
	}
}

// check is one poll tick. The expired branch wins over the warning branch:
// a token past both thresholds is handled as expired, never warned about.
func (m *Monitor) check(now time.Time) {
	st := m.manager.Snapshot()

	if !st.IsAuthenticated {
		m.hasShownWarning = false
		m.hasExpired = false
		m.lastToken = ""
		return
	}

	// An access token the monitor has not seen before means a new
	// authenticated window (fresh login or silent refresh), even when the
	// whole swap happened between two ticks. Both one-shot guards re-arm.
	if st.AccessToken != m.lastToken {
		m.hasShownWarning = false
		m.hasExpired = false
		m.lastToken = st.AccessToken
	}

	if st.AccessToken == "" || jwtx.IsExpiredAt(st.AccessToken, now) {
		if m.hasExpired {
			return
		}
		m.hasExpired = true

		// The reason only feeds diagnostics; every flavour of "expired"
		// forces the same logout.
		reason := "expired"
		if st.AccessToken == "" {
			reason = "no_token"
		} else if _, err := jwtx.Decode(st.AccessToken); err != nil {
			reason = "undecodable"
		}
		m.logger.Warn("session expired, forcing logout", "reason", reason)

		// Logout completes (storage and cookie cleared) before navigation,
		// so a guard on the destination sees a consistently signed-out state.
		// The window the monitor was tracking is over with it.
		m.manager.Logout(context.Background())
		m.lastToken = ""
		m.emit(Event{Kind: EventExpired, At: now})
		if m.nav != nil {
			m.nav.Navigate(m.cfg.RedirectTo)
		}
		return
	}

	if m.cfg.ShowWarning && jwtx.ExpiringSoonAt(st.AccessToken, m.cfg.WarningThreshold, now) {
		if !m.hasShownWarning {
			m.hasShownWarning = true
			remaining := time.Duration(jwtx.SecondsRemainingAt(st.AccessToken, now)) * time.Second
			m.logger.Info("session expiring soon", "remaining", remaining)
			m.emit(Event{Kind: EventExpiring, Remaining: remaining, At: now})
		}
		return
	}

	// Token is comfortably valid again (e.g. a silent refresh extended it):
	// re-arm the warning for the next approach.
	m.hasShownWarning = false
}

func (m *Monitor) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
		m.logger.Debug("monitor event dropped, no listener", "kind", ev.Kind)
	}
}
