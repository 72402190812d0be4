package revtrust

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/revtrust/internal/testutil"
)

func revisionAt(ts time.Time) *RevisionInfo {
	return &RevisionInfo{id: fakeID, summary: "Update", timestamp: ts.UTC().Truncate(time.Second)}
}

func TestEnsureFresh_Boundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	for _, days := range []uint32{0, 1, 7, 30, 90, 365} {
		limit := now.AddDate(0, 0, -int(days))

		require.NoError(t, EnsureFresh(revisionAt(limit.Add(time.Second)), days, now), "days=%d just inside", days)

		err := EnsureFresh(revisionAt(limit), days, now)
		require.ErrorIs(t, err, ErrStale, "days=%d exactly at limit is stale", days)

		err = EnsureFresh(revisionAt(limit.Add(-time.Second)), days, now)
		require.ErrorIs(t, err, ErrStale, "days=%d just outside", days)
	}
}

func TestEnsureFresh_NowInOtherZone(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 29, 3, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	info := revisionAt(now.AddDate(0, 0, -1).Add(time.Second))

	require.NoError(t, EnsureFresh(info, 1, now))
	require.NoError(t, info.EnsureFresh(1, now))
}

func TestEnsureFresh_StaleScenario(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Second)
	committed := now.AddDate(0, 0, -40)
	repo := testutil.NewFakeRepository(fakeCommit("Update advisory DB", committed))

	info, err := InspectHead(repo)
	require.NoError(t, err)
	assert.Equal(t, "Update advisory DB", info.Summary())

	err = EnsureFresh(info, 30, now)
	require.Error(t, err)

	var stale *StaleError
	require.True(t, errors.As(err, &stale))
	assert.Equal(t, uint32(30), stale.MaxAgeDays)
	assert.True(t, committed.Equal(stale.LastCommit))
	assert.Equal(t,
		"stale repo: not updated for 30 days (last commit: "+committed.Format(time.RFC3339)+")",
		err.Error())
}
