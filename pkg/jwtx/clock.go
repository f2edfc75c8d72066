package jwtx

import "time"

// DefaultWarningThreshold is how close to expiry a token has to be before
// it counts as "expiring soon".
const DefaultWarningThreshold = 5 * time.Minute

// IsExpired reports whether the token is past its "exp" claim. Fail-closed:
// an empty token, an undecodable token, or a token without an exp claim is
// treated as expired.
func IsExpired(token string) bool {
	return IsExpiredAt(token, time.Now())
}

// IsExpiredAt is IsExpired evaluated against an explicit instant.
func IsExpiredAt(token string, now time.Time) bool {
	if token == "" {
		return true
	}

	claims, err := Decode(token)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}

	// Epoch-second resolution, same as the exp claim itself.
	return claims.ExpiresAt.Unix() < now.Unix()
}

// SecondsRemaining returns the whole seconds until the token expires,
// floored at zero. Undecodable tokens have zero remaining.
func SecondsRemaining(token string) int64 {
	return SecondsRemainingAt(token, time.Now())
}

// SecondsRemainingAt is SecondsRemaining evaluated against an explicit instant.
func SecondsRemainingAt(token string, now time.Time) int64 {
	if token == "" {
		return 0
	}

	claims, err := Decode(token)
	if err != nil || claims.ExpiresAt == nil {
		return 0
	}

	remaining := claims.ExpiresAt.Unix() - now.Unix()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ExpiringSoon reports whether the token is still valid but within threshold
// of expiring. A token with zero remaining time is expired, not expiring
// soon; the two predicates never both hold.
func ExpiringSoon(token string, threshold time.Duration) bool {
	return ExpiringSoonAt(token, threshold, time.Now())
}

// ExpiringSoonAt is ExpiringSoon evaluated against an explicit instant.
func ExpiringSoonAt(token string, threshold time.Duration, now time.Time) bool {
	if threshold <= 0 {
		threshold = DefaultWarningThreshold
	}

	remaining := SecondsRemainingAt(token, now)
	return remaining > 0 && remaining <= int64(threshold.Seconds())
}
