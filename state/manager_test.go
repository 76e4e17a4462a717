package state_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"orgledger/native/authority"
	"orgledger/native/bounty"
	"orgledger/state"
	"orgledger/storage"
)

func sampleBounty() *bounty.Bounty {
	check := &bounty.ExternalCheck{Collaborator: "memberbook", EntryPoint: "ismember", Scope: "goldtier"}
	return &bounty.Bounty{
		ID:          "ACMEX",
		Org:         "acme",
		DisplayName: "Bug hunt",
		Description: "Find and report bugs",
		BadgeRef:    "GOLDSTAR",
		BadgeSource: bounty.BadgeSourceExisting,
		Targets: []bounty.Asset{
			{Custodian: "bank", Token: "GOLD", Amount: big.NewInt(1_000)},
		},
		PayerDeposits: []bounty.Asset{
			{Custodian: "bank", Token: "GOLD", Amount: big.NewInt(400)},
		},
		MaxSubmissionsPerParticipant: 2,
		MaxParticipants:              10,
		ParticipantCount:             2,
		ParticipationMode:            bounty.ParticipationExternal,
		CapacityMode:                 bounty.CapacityLimited,
		ExternalCheck:                check,
		Participants:                 map[string]uint8{"carol": 1, "dave": 0},
		Submissions:                  map[string]uint32{"carol": 2},
		Reviewers:                    []string{"alice", "bob"},
		StateCounts:                  map[string]uint64{"approved": 3, "processed": 1},
		Status:                       bounty.StatusDeposited,
		ParticipationStart:           2_000,
		ParticipationEnd:             3_000,
		SettlementDeadline:           4_000,
		Payer:                        "payer",
		CreatedAt:                    1_000,
	}
}

func TestBountyRoundTrip(t *testing.T) {
	manager := state.NewManager(storage.NewMemDB())
	original := sampleBounty()

	require.NoError(t, manager.BountyPut(original))
	loaded, ok, err := manager.BountyGet("ACMEX")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, original, loaded)

	_, ok, err = manager.BountyGet("ACMEQ")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBountyGetReturnsCopy(t *testing.T) {
	manager := state.NewManager(storage.NewMemDB())
	require.NoError(t, manager.BountyPut(sampleBounty()))

	first, _, err := manager.BountyGet("ACMEX")
	require.NoError(t, err)
	first.Participants["mallory"] = 1
	first.PayerDeposits[0].Amount.SetInt64(9_999)

	second, _, err := manager.BountyGet("ACMEX")
	require.NoError(t, err)
	require.NotContains(t, second.Participants, "mallory")
	require.Equal(t, big.NewInt(400), second.PayerDeposits[0].Amount)
}

func TestPoolDepositLifecycle(t *testing.T) {
	manager := state.NewManager(storage.NewMemDB())

	entries, err := manager.PoolDepositList("ACMEX")
	require.NoError(t, err)
	require.Empty(t, entries)

	friend := &bounty.PoolDeposit{
		Account:  "friend",
		Deposits: []bounty.Asset{{Custodian: "bank", Token: "GOLD", Amount: big.NewInt(50)}},
	}
	ally := &bounty.PoolDeposit{
		Account:  "ally",
		Deposits: []bounty.Asset{{Custodian: "bank", Token: "GOLD", Amount: big.NewInt(70)}},
	}
	require.NoError(t, manager.PoolDepositPut("ACMEX", friend))
	require.NoError(t, manager.PoolDepositPut("ACMEX", ally))
	// An entry for another bounty must not leak into the listing.
	require.NoError(t, manager.PoolDepositPut("ACMEY", friend))

	entries, err = manager.PoolDepositList("ACMEX")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "ally", entries[0].Account)
	require.Equal(t, "friend", entries[1].Account)

	loaded, ok, err := manager.PoolDepositGet("ACMEX", "friend")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, friend, loaded)

	require.NoError(t, manager.PoolDepositDelete("ACMEX", "friend"))
	_, ok, err = manager.PoolDepositGet("ACMEX", "friend")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBountyDeleteRemovesPoolEntries(t *testing.T) {
	manager := state.NewManager(storage.NewMemDB())
	require.NoError(t, manager.BountyPut(sampleBounty()))
	require.NoError(t, manager.PoolDepositPut("ACMEX", &bounty.PoolDeposit{
		Account:  "friend",
		Deposits: []bounty.Asset{{Custodian: "bank", Token: "GOLD", Amount: big.NewInt(50)}},
	}))

	require.NoError(t, manager.BountyDelete("ACMEX"))

	_, ok, err := manager.BountyGet("ACMEX")
	require.NoError(t, err)
	require.False(t, ok)
	entries, err := manager.PoolDepositList("ACMEX")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestAuthRecordRoundTrip(t *testing.T) {
	manager := state.NewManager(storage.NewMemDB())

	_, ok, err := manager.AuthRecordGet("acme", "create")
	require.NoError(t, err)
	require.False(t, ok)

	record := &authority.Record{Operation: "create", Principals: []string{"deputy"}}
	require.NoError(t, manager.AuthRecordPut("acme", record))

	loaded, ok, err := manager.AuthRecordGet("acme", "create")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record, loaded)

	require.NoError(t, manager.AuthRecordDelete("acme", "create"))
	_, ok, err = manager.AuthRecordGet("acme", "create")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParamRoundTrip(t *testing.T) {
	manager := state.NewManager(storage.NewMemDB())

	_, ok, err := manager.ParamGet("fees")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, manager.ParamSet("fees", []byte("250")))
	value, ok, err := manager.ParamGet("fees")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("250"), value)

	require.NoError(t, manager.ParamDelete("fees"))
	_, ok, err = manager.ParamGet("fees")
	require.NoError(t, err)
	require.False(t, ok)
}
