package revtrust

import "time"

// DefaultMaxAgeDays is the age after which a repository is considered stale
// when no other limit is configured.
const DefaultMaxAgeDays uint32 = 90

// EnsureFresh checks that info was committed less than maxAgeDays calendar
// days before now.
//
// The boundary is exclusive: a revision exactly maxAgeDays old is stale.
// Failures are returned as *[StaleError].
func EnsureFresh(info *RevisionInfo, maxAgeDays uint32, now time.Time) error {
	threshold := now.UTC().AddDate(0, 0, -int(maxAgeDays))
	if info.Time().After(threshold) {
		return nil
	}
	return &StaleError{MaxAgeDays: maxAgeDays, LastCommit: info.Time()}
}
