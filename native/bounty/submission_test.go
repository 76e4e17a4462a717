package bounty_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"orgledger/native/bounty"
)

func TestSubmitForwardsReviewRequest(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))

	require.NoError(t, e.engine.Submit("carol", testBounty, "see attached report"))

	require.Len(t, e.reviews.requests, 1)
	req := e.reviews.requests[0]
	require.Equal(t, testSelf, req.Origin)
	require.Equal(t, "acmex", req.OriginKey)
	require.Equal(t, "carol", req.Requester)
	require.Equal(t, "carol", req.Destination)
	require.Equal(t, []string{"alice", "bob"}, req.Reviewers)
	require.Equal(t, testBadge, req.Denomination)
	require.Equal(t, uint64(1), req.Amount)
	require.Equal(t, "see attached report", req.Reason)
	require.Equal(t, int64(4_000), req.Expiry)

	require.Equal(t, uint32(1), getBounty(t, e).Submissions["carol"])
}

func TestSubmitRequiresSignup(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500
	err := e.engine.Submit("carol", testBounty, "")
	require.ErrorContains(t, err, "not signed up")
}

func TestSubmitEnforcesPerParticipantLimit(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.NoError(t, e.engine.Submit("carol", testBounty, "")) // limit is 1

	err := e.engine.Submit("carol", testBounty, "")
	require.ErrorContains(t, err, "maximum of 1 submissions")
}

func TestSubmitNotPersistedWhenIngestFails(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))

	e.reviews.failWith = fmt.Errorf("workflow unavailable")
	err := e.engine.Submit("carol", testBounty, "")
	require.ErrorContains(t, err, "workflow unavailable")
	require.Zero(t, getBounty(t, e).Submissions["carol"])
}

func TestHandleStatusFirstCallbackSkipsBlankDecrement(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.NoError(t, e.engine.Submit("carol", testBounty, ""))

	require.NoError(t, e.engine.HandleStatus("carol", 1, testSelf, "acmex", bounty.StatusTagBlank, "open"))

	record := getBounty(t, e)
	require.Equal(t, uint64(1), record.StateCount("open"))
	require.Zero(t, record.StateCount(bounty.StatusTagBlank))
}

func TestHandleStatusMovesCounters(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.NoError(t, e.engine.Submit("carol", testBounty, ""))

	require.NoError(t, e.engine.HandleStatus("carol", 1, testSelf, "acmex", bounty.StatusTagBlank, "open"))
	require.NoError(t, e.engine.HandleStatus("carol", 1, testSelf, "acmex", "open", bounty.StatusTagApproved))

	record := getBounty(t, e)
	require.Zero(t, record.StateCount("open"))
	require.Equal(t, uint64(1), record.StateCount(bounty.StatusTagApproved))
}

func TestHandleStatusApprovedIsHighWaterMark(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.NoError(t, e.engine.Submit("carol", testBounty, ""))

	require.NoError(t, e.engine.HandleStatus("carol", 1, testSelf, "acmex", bounty.StatusTagBlank, bounty.StatusTagApproved))
	require.NoError(t, e.engine.HandleStatus("carol", 1, testSelf, "acmex", bounty.StatusTagApproved, bounty.StatusTagProcessed))

	record := getBounty(t, e)
	// approved stays at its peak so later distributions divide by the same
	// winner count.
	require.Equal(t, uint64(1), record.StateCount(bounty.StatusTagApproved))
	require.Equal(t, uint64(1), record.StateCount(bounty.StatusTagProcessed))
}

func TestHandleStatusWithdrawnReleasesSubmissionSlot(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.NoError(t, e.engine.Submit("carol", testBounty, ""))
	require.NoError(t, e.engine.HandleStatus("carol", 1, testSelf, "acmex", bounty.StatusTagBlank, "open"))

	require.NoError(t, e.engine.HandleStatus("carol", 1, testSelf, "acmex", "open", bounty.StatusTagWithdrawn))

	record := getBounty(t, e)
	require.NotContains(t, record.Submissions, "carol")
	require.Equal(t, uint64(1), record.StateCount(bounty.StatusTagWithdrawn))

	// The released slot can be used again.
	require.NoError(t, e.engine.Submit("carol", testBounty, ""))
}

func TestHandleStatusUnknownOriginKey(t *testing.T) {
	e := newEnv(t)
	err := e.engine.HandleStatus("carol", 1, testSelf, "acmeq", bounty.StatusTagBlank, "open")
	require.ErrorIs(t, err, bounty.ErrBountyNotFound)
}
