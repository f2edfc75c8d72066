package sessionsdk

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/colegiosoft/siged/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNav) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

func loggedInManager(t *testing.T, exp time.Time) *Manager {
	t.Helper()
	tok := testToken(t, "u-1", jwtx.RolGestor, exp)
	client := &fakeClient{loginResp: &TokenResponse{AccessToken: tok, RefreshToken: "r-1"}}
	m, _ := newTestManager(t, client)
	require.True(t, m.Login(context.Background(), "u", "p"))
	return m
}

func drainEvents(mon *Monitor) []Event {
	var evs []Event
	for {
		select {
		case ev := <-mon.Events():
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func TestMonitorWarning(t *testing.T) {
	now := time.Now()

	t.Run("fires once per approach", func(t *testing.T) {
		// Token expires in 4 minutes, threshold is 5: the very first tick warns.
		m := loggedInManager(t, now.Add(4*time.Minute))
		nav := &recordingNav{}
		mon := NewMonitor(m, nav, DefaultMonitorConfig())

		mon.check(now)
		evs := drainEvents(mon)
		require.Len(t, evs, 1)
		require.Equal(t, EventExpiring, evs[0].Kind)
		require.Equal(t, 4*time.Minute, evs[0].Remaining)

		// A second tick 10 seconds later must not warn again.
		mon.check(now.Add(10 * time.Second))
		require.Empty(t, drainEvents(mon))

		// No redirect for a mere warning, and the session is intact.
		require.Empty(t, nav.all())
		require.True(t, m.IsAuthenticated())
	})

	t.Run("outside the threshold no warning", func(t *testing.T) {
		m := loggedInManager(t, now.Add(time.Hour))
		mon := NewMonitor(m, nil, DefaultMonitorConfig())

		mon.check(now)
		require.Empty(t, drainEvents(mon))
	})

	t.Run("re-arms after a silent refresh extends the token", func(t *testing.T) {
		m := loggedInManager(t, now.Add(4*time.Minute))
		mon := NewMonitor(m, nil, DefaultMonitorConfig())

		mon.check(now)
		require.Len(t, drainEvents(mon), 1)

		// Refresh pushes expiry an hour out.
		freshTok := testToken(t, "u-1", jwtx.RolGestor, now.Add(time.Hour))
		m.client.(*fakeClient).refreshResp = &TokenResponse{AccessToken: freshTok, RefreshToken: "r-2"}
		require.True(t, m.Refresh(context.Background()))

		// Comfortable again: guard resets.
		mon.check(now.Add(time.Minute))
		require.Empty(t, drainEvents(mon))

		// Approach expiry a second time: a new warning fires.
		mon.check(now.Add(56 * time.Minute))
		evs := drainEvents(mon)
		require.Len(t, evs, 1)
		require.Equal(t, EventExpiring, evs[0].Kind)
	})

	t.Run("warnings disabled", func(t *testing.T) {
		m := loggedInManager(t, now.Add(4*time.Minute))
		cfg := DefaultMonitorConfig()
		cfg.ShowWarning = false
		mon := NewMonitor(m, nil, cfg)

		mon.check(now)
		require.Empty(t, drainEvents(mon))
	})
}

func TestMonitorExpiry(t *testing.T) {
	now := time.Now()

	t.Run("expired at start forces logout and redirect", func(t *testing.T) {
		m := loggedInManager(t, now.Add(time.Hour))
		nav := &recordingNav{}
		mon := NewMonitor(m, nav, DefaultMonitorConfig())

		// Advance past expiry: the first tick after that must close the session.
		mon.check(now.Add(2 * time.Hour))

		st := m.Snapshot()
		require.False(t, st.IsAuthenticated)
		require.Nil(t, st.User)
		require.Empty(t, st.AccessToken)
		require.Empty(t, st.RefreshToken)
		require.Equal(t, []string{"/login"}, nav.all())

		evs := drainEvents(mon)
		require.Len(t, evs, 1)
		require.Equal(t, EventExpired, evs[0].Kind)

		// Expiry is lifecycle, not an error.
		require.Empty(t, st.Err)
	})

	t.Run("forced logout at most once per window", func(t *testing.T) {
		m := loggedInManager(t, now.Add(time.Minute))
		nav := &recordingNav{}
		mon := NewMonitor(m, nav, DefaultMonitorConfig())

		late := now.Add(10 * time.Minute)
		mon.check(late)
		mon.check(late.Add(time.Minute))
		mon.check(late.Add(2 * time.Minute))

		require.Equal(t, []string{"/login"}, nav.all())
		require.Len(t, drainEvents(mon), 1)
	})

	t.Run("expired wins over warning on the same tick", func(t *testing.T) {
		m := loggedInManager(t, now.Add(-time.Second))
		mon := NewMonitor(m, nil, DefaultMonitorConfig())

		mon.check(now)
		evs := drainEvents(mon)
		require.Len(t, evs, 1)
		require.Equal(t, EventExpired, evs[0].Kind)
	})

	t.Run("a new login re-arms the expired guard", func(t *testing.T) {
		m := loggedInManager(t, now.Add(time.Minute))
		nav := &recordingNav{}
		mon := NewMonitor(m, nav, DefaultMonitorConfig())

		mon.check(now.Add(time.Hour))
		require.Equal(t, []string{"/login"}, nav.all())

		// Log in again with another short-lived token.
		tok := testToken(t, "u-1", jwtx.RolGestor, now.Add(61*time.Minute))
		m.client.(*fakeClient).loginResp = &TokenResponse{AccessToken: tok, RefreshToken: "r-9"}
		m.client.(*fakeClient).loginErr = nil
		require.True(t, m.Login(context.Background(), "u", "p"))

		mon.check(now.Add(2 * time.Hour))
		require.Equal(t, []string{"/login", "/login"}, nav.all())
	})

	t.Run("logout and relogin between ticks re-arm the guards", func(t *testing.T) {
		m := loggedInManager(t, now.Add(4*time.Minute))
		nav := &recordingNav{}
		mon := NewMonitor(m, nav, DefaultMonitorConfig())

		// First session is already inside the warning threshold.
		mon.check(now)
		require.Len(t, drainEvents(mon), 1)

		// The user signs out and straight back in, all between two ticks,
		// so the monitor never observes an unauthenticated snapshot.
		m.Logout(context.Background())
		tok := testToken(t, "u-1", jwtx.RolGestor, now.Add(5*time.Minute))
		m.client.(*fakeClient).loginResp = &TokenResponse{AccessToken: tok, RefreshToken: "r-2"}
		require.True(t, m.Login(context.Background(), "u", "p"))

		// The next tick warns again: the guard belongs to the new session.
		mon.check(now.Add(time.Minute))
		evs := drainEvents(mon)
		require.Len(t, evs, 1)
		require.Equal(t, EventExpiring, evs[0].Kind)

		// And the new session's expiry still forces exactly one logout.
		mon.check(now.Add(time.Hour))
		mon.check(now.Add(2 * time.Hour))
		require.Equal(t, []string{"/login"}, nav.all())
	})

	t.Run("custom redirect destination", func(t *testing.T) {
		m := loggedInManager(t, now.Add(time.Minute))
		nav := &recordingNav{}
		cfg := DefaultMonitorConfig()
		cfg.RedirectTo = "/ingresar"
		mon := NewMonitor(m, nav, cfg)

		mon.check(now.Add(time.Hour))
		require.Equal(t, []string{"/ingresar"}, nav.all())
	})

	t.Run("unauthenticated manager stays idle", func(t *testing.T) {
		m, _ := newTestManager(t, &fakeClient{})
		nav := &recordingNav{}
		mon := NewMonitor(m, nav, DefaultMonitorConfig())

		mon.check(now)
		require.Empty(t, nav.all())
		require.Empty(t, drainEvents(mon))
	})
}

func TestMonitorLifecycle(t *testing.T) {
	t.Run("start and stop cancel the loop", func(t *testing.T) {
		m := loggedInManager(t, time.Now().Add(time.Hour))
		cfg := DefaultMonitorConfig()
		cfg.CheckInterval = 5 * time.Millisecond
		mon := NewMonitor(m, &recordingNav{}, cfg)

		mon.Start()
		time.Sleep(20 * time.Millisecond)
		mon.Stop()

		// Stop blocks until the goroutine exits; a second Stop is a no-op.
		mon.Stop()
	})

	t.Run("disabled monitor never runs", func(t *testing.T) {
		m := loggedInManager(t, time.Now().Add(-time.Hour))
		nav := &recordingNav{}
		cfg := DefaultMonitorConfig()
		cfg.Enabled = false
		cfg.CheckInterval = time.Millisecond
		mon := NewMonitor(m, nav, cfg)

		mon.Start()
		time.Sleep(10 * time.Millisecond)
		mon.Stop()

		require.Empty(t, nav.all())
		require.True(t, m.IsAuthenticated(), "disabled monitor must not force logout")
	})
}
