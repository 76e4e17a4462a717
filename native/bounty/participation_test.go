package bounty_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"orgledger/native/bounty"
)

func TestSignupWindowEnforced(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)

	e.now = 1_500
	require.ErrorContains(t, e.engine.Signup("carol", testBounty, ""), "not started")

	e.now = 3_000
	require.ErrorContains(t, e.engine.Signup("carol", testBounty, ""), "has ended")

	e.now = 2_000
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
}

func TestSignupRequiresFunding(t *testing.T) {
	e := newEnv(t)
	createOpen(t, e)
	e.now = 2_500

	err := e.engine.Signup("carol", testBounty, "")
	require.ErrorIs(t, err, bounty.ErrWrongStatus)
}

func TestOpenSignupRepeatIsNoop(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500

	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))

	record := getBounty(t, e)
	require.Equal(t, uint64(1), record.ParticipantCount)
	require.Equal(t, uint8(1), record.Participants["carol"])
}

func TestClosedSignupOnlyListedPrincipals(t *testing.T) {
	e := newEnv(t)
	params := defaultParams()
	params.ParticipationMode = bounty.ParticipationClosed
	_, err := e.engine.Create(testOrg, params)
	require.NoError(t, err)
	require.NoError(t, e.engine.BindExistingBadge(testOrg, testBounty, testBadge))
	require.NoError(t, e.engine.SetClosedList(testOrg, testBounty, []string{"carol"}))
	fund(t, e)
	e.now = 2_500

	require.ErrorContains(t, e.engine.Signup("mallory", testBounty, ""), "not on the closed participant list")

	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	record := getBounty(t, e)
	require.Equal(t, uint8(1), record.Participants["carol"])
	require.Equal(t, uint64(1), record.ParticipantCount)

	// Repeat signup leaves the count in step with the active flags.
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.Equal(t, uint64(1), getBounty(t, e).ParticipantCount)
}

func TestExternalSignupDelegatesAdmission(t *testing.T) {
	e := newEnv(t)
	params := defaultParams()
	params.ParticipationMode = bounty.ParticipationExternal
	_, err := e.engine.Create(testOrg, params)
	require.NoError(t, err)
	require.NoError(t, e.engine.BindExistingBadge(testOrg, testBounty, testBadge))
	check := bounty.ExternalCheck{Collaborator: "memberbook", EntryPoint: "ismember", Scope: "goldtier"}
	require.NoError(t, e.engine.SetExternalCheck(testOrg, testBounty, check))
	fund(t, e)
	e.now = 2_500

	var checked []string
	e.engine.SetParticipantChecker(checkerFunc(func(collaborator, entryPoint, scope, participant string) error {
		checked = append(checked, fmt.Sprintf("%s/%s/%s/%s", collaborator, entryPoint, scope, participant))
		if participant == "mallory" {
			return fmt.Errorf("not a member")
		}
		return nil
	}))

	require.ErrorContains(t, e.engine.Signup("mallory", testBounty, ""), "external check rejected")
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.Equal(t, []string{
		"memberbook/ismember/goldtier/mallory",
		"memberbook/ismember/goldtier/carol",
	}, checked)
	require.Equal(t, uint64(1), getBounty(t, e).ParticipantCount)
}

func TestLimitedCapacityRejectsOverflow(t *testing.T) {
	e := newEnv(t)
	params := defaultParams()
	params.CapacityMode = bounty.CapacityLimited
	_, err := e.engine.Create(testOrg, params)
	require.NoError(t, err)
	require.NoError(t, e.engine.BindExistingBadge(testOrg, testBounty, testBadge))
	require.NoError(t, e.engine.SetParticipantCap(testOrg, testBounty, 2))
	fund(t, e)
	e.now = 2_500

	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.NoError(t, e.engine.Signup("dave", testBounty, ""))
	require.ErrorContains(t, e.engine.Signup("erin", testBounty, ""), "maximum of 2 participants")

	// A cancellation frees the slot.
	require.NoError(t, e.engine.CancelSignup("dave", testBounty, ""))
	require.NoError(t, e.engine.Signup("erin", testBounty, ""))
}

func TestCancelSignupOpenErasesEntry(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))

	require.NoError(t, e.engine.CancelSignup("carol", testBounty, "changed my mind"))

	record := getBounty(t, e)
	require.NotContains(t, record.Participants, "carol")
	require.Equal(t, uint64(0), record.ParticipantCount)
}

func TestCancelSignupClosedKeepsEntry(t *testing.T) {
	e := newEnv(t)
	params := defaultParams()
	params.ParticipationMode = bounty.ParticipationClosed
	_, err := e.engine.Create(testOrg, params)
	require.NoError(t, err)
	require.NoError(t, e.engine.BindExistingBadge(testOrg, testBounty, testBadge))
	require.NoError(t, e.engine.SetClosedList(testOrg, testBounty, []string{"carol"}))
	fund(t, e)
	e.now = 2_500
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))

	require.NoError(t, e.engine.CancelSignup("carol", testBounty, ""))

	record := getBounty(t, e)
	require.Equal(t, uint8(0), record.Participants["carol"])
	require.Contains(t, record.Participants, "carol")
	require.Equal(t, uint64(0), record.ParticipantCount)

	// Still on the list, so carol can come back.
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.Equal(t, uint64(1), getBounty(t, e).ParticipantCount)
}

func TestCancelSignupRequiresActiveFlag(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	err := e.engine.CancelSignup("carol", testBounty, "")
	require.ErrorContains(t, err, "not signed up")
}

func TestCancelSignupBlockedBySubmissions(t *testing.T) {
	e := newEnv(t)
	readyOpen(t, e)
	e.now = 2_500
	require.NoError(t, e.engine.Signup("carol", testBounty, ""))
	require.NoError(t, e.engine.Submit("carol", testBounty, "done"))

	err := e.engine.CancelSignup("carol", testBounty, "")
	require.ErrorContains(t, err, "recorded submissions")
}
