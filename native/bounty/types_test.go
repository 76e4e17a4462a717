package bounty_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"orgledger/native/bounty"
)

func TestValidateID(t *testing.T) {
	require.NoError(t, bounty.ValidateID("ACMEX", "ACME"))
	require.NoError(t, bounty.ValidateID("ACMEXYZ", "ACME"))
	require.NoError(t, bounty.ValidateID("ACMEX", "acme"))

	require.Error(t, bounty.ValidateID("ACME", "ACME"))
	require.Error(t, bounty.ValidateID("ACMEXYZA", "ACME"))
	require.Error(t, bounty.ValidateID("ACME1", "ACME"))
	require.Error(t, bounty.ValidateID("acmex", "ACME"))
	require.Error(t, bounty.ValidateID("OTHRX", "ACME"))
	require.Error(t, bounty.ValidateID("ACMEX", "AC"))
}

func TestNormalizeID(t *testing.T) {
	require.Equal(t, "ACMEX", bounty.NormalizeID(" acmex "))
}

func TestBountyCloneIsDeep(t *testing.T) {
	original := &bounty.Bounty{
		ID:           "ACMEX",
		Org:          "acme",
		Targets:      []bounty.Asset{{Custodian: "bank", Token: "GOLD", Amount: amount(100)}},
		Participants: map[string]uint8{"carol": 1},
		Submissions:  map[string]uint32{"carol": 1},
		StateCounts:  map[string]uint64{"approved": 1},
		Reviewers:    []string{"alice"},
	}
	clone := original.Clone()

	clone.Targets[0].Amount.SetInt64(999)
	clone.Participants["dave"] = 1
	clone.Submissions["carol"] = 5
	clone.StateCounts["approved"] = 9
	clone.Reviewers[0] = "mallory"

	require.Equal(t, amount(100), original.Targets[0].Amount)
	require.NotContains(t, original.Participants, "dave")
	require.Equal(t, uint32(1), original.Submissions["carol"])
	require.Equal(t, uint64(1), original.StateCounts["approved"])
	require.Equal(t, "alice", original.Reviewers[0])
}

func TestActiveParticipantsSorted(t *testing.T) {
	record := &bounty.Bounty{
		Participants: map[string]uint8{"dave": 1, "carol": 1, "erin": 0},
	}
	require.Equal(t, []string{"carol", "dave"}, record.ActiveParticipants())
}
