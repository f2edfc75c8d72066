package jwtx_test

import (
	"testing"
	"time"

	"github.com/colegiosoft/siged/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	return rawToken(t, map[string]any{"sub": "u-1", "rol": "gestor", "exp": exp.Unix()})
}

func TestIsExpiredAt(t *testing.T) {
	now := time.Now()

	t.Run("expired one second ago", func(t *testing.T) {
		tok := tokenExpiringAt(t, now.Add(-1*time.Second))
		require.True(t, jwtx.IsExpiredAt(tok, now))
	})

	t.Run("expires in an hour", func(t *testing.T) {
		tok := tokenExpiringAt(t, now.Add(time.Hour))
		require.False(t, jwtx.IsExpiredAt(tok, now))
	})

	t.Run("fail closed", func(t *testing.T) {
		require.True(t, jwtx.IsExpiredAt("", now))
		require.True(t, jwtx.IsExpiredAt("garbage", now))
		require.True(t, jwtx.IsExpiredAt("a.b.c", now))

		// Decodable but no exp claim at all.
		noExp := rawToken(t, map[string]any{"sub": "u-1"})
		require.True(t, jwtx.IsExpiredAt(noExp, now))
	})
}

func TestSecondsRemainingAt(t *testing.T) {
	now := time.Now()
	tok := tokenExpiringAt(t, now.Add(10*time.Minute))

	t.Run("counts down as now advances", func(t *testing.T) {
		prev := jwtx.SecondsRemainingAt(tok, now)
		require.Equal(t, int64(600), prev)

		for _, advance := range []time.Duration{time.Second, time.Minute, 9 * time.Minute, 20 * time.Minute} {
			remaining := jwtx.SecondsRemainingAt(tok, now.Add(advance))
			require.LessOrEqual(t, remaining, prev)
			require.GreaterOrEqual(t, remaining, int64(0))
			prev = remaining
		}
	})

	t.Run("floored at zero", func(t *testing.T) {
		require.Equal(t, int64(0), jwtx.SecondsRemainingAt(tok, now.Add(time.Hour)))
	})

	t.Run("undecodable token has zero remaining", func(t *testing.T) {
		require.Equal(t, int64(0), jwtx.SecondsRemainingAt("", now))
		require.Equal(t, int64(0), jwtx.SecondsRemainingAt("nope", now))
	})
}

func TestExpiringSoonAt(t *testing.T) {
	now := time.Now()
	threshold := 5 * time.Minute

	t.Run("boundary at exactly the threshold", func(t *testing.T) {
		tok := tokenExpiringAt(t, now.Add(300*time.Second))
		require.True(t, jwtx.ExpiringSoonAt(tok, threshold, now))
	})

	t.Run("one second past the threshold", func(t *testing.T) {
		tok := tokenExpiringAt(t, now.Add(301*time.Second))
		require.False(t, jwtx.ExpiringSoonAt(tok, threshold, now))
	})

	t.Run("expired is not expiring soon", func(t *testing.T) {
		tok := tokenExpiringAt(t, now)
		require.False(t, jwtx.ExpiringSoonAt(tok, threshold, now))
		require.True(t, jwtx.IsExpiredAt(tok, now.Add(time.Second)))

		past := tokenExpiringAt(t, now.Add(-time.Minute))
		require.False(t, jwtx.ExpiringSoonAt(past, threshold, now))
	})

	t.Run("predicates are mutually exclusive", func(t *testing.T) {
		for _, offset := range []time.Duration{-time.Hour, -time.Second, 0, time.Second, 4 * time.Minute, 5 * time.Minute, 6 * time.Minute, time.Hour} {
			tok := tokenExpiringAt(t, now.Add(offset))
			expired := jwtx.IsExpiredAt(tok, now)
			soon := jwtx.ExpiringSoonAt(tok, threshold, now)
			require.False(t, expired && soon, "offset %s", offset)
		}
	})

	t.Run("zero threshold uses the default", func(t *testing.T) {
		tok := tokenExpiringAt(t, now.Add(4*time.Minute))
		require.True(t, jwtx.ExpiringSoonAt(tok, 0, now))
	})
}
