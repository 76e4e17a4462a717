package state

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"orgledger/native/authority"
	"orgledger/native/bounty"
)

// Stored forms of the engine records. RLP has no map or signed-integer kinds,
// so maps are flattened into key-sorted pair lists and timestamps travel as
// unsigned seconds.

type storedAsset struct {
	Custodian string
	Token     string
	Amount    *big.Int
}

type storedFlag struct {
	Account string
	Flag    uint8
}

type storedCounter32 struct {
	Account string
	Count   uint32
}

type storedCounter64 struct {
	Tag   string
	Count uint64
}

type storedCheck struct {
	Collaborator string
	EntryPoint   string
	Scope        string
}

type storedBounty struct {
	ID          string
	Org         string
	DisplayName string
	Description string

	EmitRewards []storedAsset
	BadgeRef    string
	BadgeSource string

	Targets       []storedAsset
	PayerDeposits []storedAsset
	PayoutCaps    []storedAsset

	MaxSubmissionsPerParticipant uint32
	MaxParticipants              uint64
	ParticipantCount             uint64

	ParticipationMode string
	CapacityMode      string
	HasExternalCheck  bool
	ExternalCheck     storedCheck

	Participants []storedFlag
	Submissions  []storedCounter32
	Reviewers    []string
	StateCounts  []storedCounter64

	Status string

	ParticipationStart uint64
	ParticipationEnd   uint64
	SettlementDeadline uint64

	Payer     string
	CreatedAt uint64
}

type storedPool struct {
	Account  string
	Deposits []storedAsset
}

type storedAuthRecord struct {
	Operation  string
	Principals []string
}

func packAssets(assets []bounty.Asset) []storedAsset {
	out := make([]storedAsset, len(assets))
	for i, a := range assets {
		amount := a.Amount
		if amount == nil {
			amount = big.NewInt(0)
		}
		out[i] = storedAsset{Custodian: a.Custodian, Token: a.Token, Amount: new(big.Int).Set(amount)}
	}
	return out
}

func unpackAssets(assets []storedAsset) []bounty.Asset {
	if len(assets) == 0 {
		return nil
	}
	out := make([]bounty.Asset, len(assets))
	for i, a := range assets {
		amount := a.Amount
		if amount == nil {
			amount = big.NewInt(0)
		}
		out[i] = bounty.Asset{Custodian: a.Custodian, Token: a.Token, Amount: new(big.Int).Set(amount)}
	}
	return out
}

func encodeBounty(b *bounty.Bounty) ([]byte, error) {
	stored := storedBounty{
		ID:          b.ID,
		Org:         b.Org,
		DisplayName: b.DisplayName,
		Description: b.Description,

		EmitRewards: packAssets(b.EmitRewards),
		BadgeRef:    b.BadgeRef,
		BadgeSource: string(b.BadgeSource),

		Targets:       packAssets(b.Targets),
		PayerDeposits: packAssets(b.PayerDeposits),
		PayoutCaps:    packAssets(b.PayoutCaps),

		MaxSubmissionsPerParticipant: b.MaxSubmissionsPerParticipant,
		MaxParticipants:              b.MaxParticipants,
		ParticipantCount:             b.ParticipantCount,

		ParticipationMode: string(b.ParticipationMode),
		CapacityMode:      string(b.CapacityMode),

		Reviewers: append([]string(nil), b.Reviewers...),

		Status: string(b.Status),

		ParticipationStart: uint64(b.ParticipationStart),
		ParticipationEnd:   uint64(b.ParticipationEnd),
		SettlementDeadline: uint64(b.SettlementDeadline),

		Payer:     b.Payer,
		CreatedAt: uint64(b.CreatedAt),
	}
	if b.ExternalCheck != nil {
		stored.HasExternalCheck = true
		stored.ExternalCheck = storedCheck{
			Collaborator: b.ExternalCheck.Collaborator,
			EntryPoint:   b.ExternalCheck.EntryPoint,
			Scope:        b.ExternalCheck.Scope,
		}
	}
	for account, flag := range b.Participants {
		stored.Participants = append(stored.Participants, storedFlag{Account: account, Flag: flag})
	}
	sort.Slice(stored.Participants, func(i, j int) bool {
		return stored.Participants[i].Account < stored.Participants[j].Account
	})
	for account, count := range b.Submissions {
		stored.Submissions = append(stored.Submissions, storedCounter32{Account: account, Count: count})
	}
	sort.Slice(stored.Submissions, func(i, j int) bool {
		return stored.Submissions[i].Account < stored.Submissions[j].Account
	})
	for tag, count := range b.StateCounts {
		stored.StateCounts = append(stored.StateCounts, storedCounter64{Tag: tag, Count: count})
	}
	sort.Slice(stored.StateCounts, func(i, j int) bool {
		return stored.StateCounts[i].Tag < stored.StateCounts[j].Tag
	})
	return rlp.EncodeToBytes(&stored)
}

func decodeBounty(raw []byte) (*bounty.Bounty, error) {
	var stored storedBounty
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, err
	}
	record := &bounty.Bounty{
		ID:          stored.ID,
		Org:         stored.Org,
		DisplayName: stored.DisplayName,
		Description: stored.Description,

		EmitRewards: unpackAssets(stored.EmitRewards),
		BadgeRef:    stored.BadgeRef,
		BadgeSource: bounty.BadgeSource(stored.BadgeSource),

		Targets:       unpackAssets(stored.Targets),
		PayerDeposits: unpackAssets(stored.PayerDeposits),
		PayoutCaps:    unpackAssets(stored.PayoutCaps),

		MaxSubmissionsPerParticipant: stored.MaxSubmissionsPerParticipant,
		MaxParticipants:              stored.MaxParticipants,
		ParticipantCount:             stored.ParticipantCount,

		ParticipationMode: bounty.ParticipationMode(stored.ParticipationMode),
		CapacityMode:      bounty.CapacityMode(stored.CapacityMode),

		Participants: make(map[string]uint8, len(stored.Participants)),
		Submissions:  make(map[string]uint32, len(stored.Submissions)),
		Reviewers:    append([]string(nil), stored.Reviewers...),
		StateCounts:  make(map[string]uint64, len(stored.StateCounts)),

		Status: bounty.Status(stored.Status),

		ParticipationStart: int64(stored.ParticipationStart),
		ParticipationEnd:   int64(stored.ParticipationEnd),
		SettlementDeadline: int64(stored.SettlementDeadline),

		Payer:     stored.Payer,
		CreatedAt: int64(stored.CreatedAt),
	}
	if stored.HasExternalCheck {
		record.ExternalCheck = &bounty.ExternalCheck{
			Collaborator: stored.ExternalCheck.Collaborator,
			EntryPoint:   stored.ExternalCheck.EntryPoint,
			Scope:        stored.ExternalCheck.Scope,
		}
	}
	for _, entry := range stored.Participants {
		record.Participants[entry.Account] = entry.Flag
	}
	for _, entry := range stored.Submissions {
		record.Submissions[entry.Account] = entry.Count
	}
	for _, entry := range stored.StateCounts {
		record.StateCounts[entry.Tag] = entry.Count
	}
	return record, nil
}

func encodePoolDeposit(entry *bounty.PoolDeposit) ([]byte, error) {
	stored := storedPool{Account: entry.Account, Deposits: packAssets(entry.Deposits)}
	return rlp.EncodeToBytes(&stored)
}

func decodePoolDeposit(raw []byte) (*bounty.PoolDeposit, error) {
	var stored storedPool
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, err
	}
	return &bounty.PoolDeposit{Account: stored.Account, Deposits: unpackAssets(stored.Deposits)}, nil
}

func encodeAuthRecord(record *authority.Record) ([]byte, error) {
	stored := storedAuthRecord{
		Operation:  record.Operation,
		Principals: append([]string(nil), record.Principals...),
	}
	return rlp.EncodeToBytes(&stored)
}

func decodeAuthRecord(raw []byte) (*authority.Record, error) {
	var stored storedAuthRecord
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, err
	}
	return &authority.Record{Operation: stored.Operation, Principals: stored.Principals}, nil
}
