package bounty

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Status is the lifecycle state of a bounty record.
type Status string

const (
	// StatusSetup means one or more configuration steps are still pending.
	StatusSetup Status = "setup"
	// StatusInit means configuration is complete and funding may begin.
	StatusInit Status = "init"
	// StatusDeposited means the payer has met every funding target.
	StatusDeposited Status = "deposited"
	// StatusClosed means all approved submissions have been processed.
	StatusClosed Status = "closed"
)

// Valid reports whether the status is one of the supported lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusSetup, StatusInit, StatusDeposited, StatusClosed:
		return true
	default:
		return false
	}
}

// BadgeSource selects how the winning badge is bound to the bounty.
type BadgeSource string

const (
	BadgeSourceNew      BadgeSource = "new"
	BadgeSourceExisting BadgeSource = "existing"
)

func (b BadgeSource) Valid() bool {
	return b == BadgeSourceNew || b == BadgeSourceExisting
}

// CapacityMode controls whether the participant count is capped.
type CapacityMode string

const (
	CapacityLimited   CapacityMode = "limited"
	CapacityUnlimited CapacityMode = "unlimited"
)

func (c CapacityMode) Valid() bool {
	return c == CapacityLimited || c == CapacityUnlimited
}

// ParticipationMode controls who may sign up for the bounty.
type ParticipationMode string

const (
	ParticipationOpen     ParticipationMode = "open"
	ParticipationClosed   ParticipationMode = "closed"
	ParticipationExternal ParticipationMode = "external"
)

func (p ParticipationMode) Valid() bool {
	switch p {
	case ParticipationOpen, ParticipationClosed, ParticipationExternal:
		return true
	default:
		return false
	}
}

// Request status tags mirrored from the external review workflow. The blank
// tag is the sentinel for "no prior status" on the first callback.
const (
	StatusTagBlank     = "blank"
	StatusTagApproved  = "approved"
	StatusTagProcessed = "processed"
	StatusTagWithdrawn = "withdrawn"
)

// Asset is a typed amount held by a custodian service. Two assets refer to the
// same holding when both the custodian and the token match.
type Asset struct {
	Custodian string
	Token     string
	Amount    *big.Int
}

// Same reports whether the asset refers to the given custodian/token holding.
func (a Asset) Same(custodian, token string) bool {
	return a.Custodian == custodian && a.Token == token
}

func (a Asset) amountValue() *big.Int {
	if a.Amount == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.Amount)
}

// Clone returns a deep copy of the asset.
func (a Asset) Clone() Asset {
	return Asset{Custodian: a.Custodian, Token: a.Token, Amount: a.amountValue()}
}

func cloneAssets(assets []Asset) []Asset {
	if assets == nil {
		return nil
	}
	out := make([]Asset, len(assets))
	for i := range assets {
		out[i] = assets[i].Clone()
	}
	return out
}

// findAsset returns the index of the (custodian, token) holding in the list,
// or -1 when absent.
func findAsset(assets []Asset, custodian, token string) int {
	for i := range assets {
		if assets[i].Same(custodian, token) {
			return i
		}
	}
	return -1
}

// ExternalCheck describes the collaborator consulted for externally-verified
// participation.
type ExternalCheck struct {
	Collaborator string
	EntryPoint   string
	Scope        string
}

func (c ExternalCheck) empty() bool {
	return strings.TrimSpace(c.Collaborator) == "" && strings.TrimSpace(c.EntryPoint) == ""
}

// Bounty is the canonical record custodied by the engine. Participants maps a
// principal to its signup flag (1 active, 0 cancelled); the closed mode keeps
// cancelled entries while open and external modes erase them.
type Bounty struct {
	ID          string
	Org         string
	DisplayName string
	Description string

	EmitRewards []Asset
	BadgeRef    string
	BadgeSource BadgeSource

	Targets       []Asset
	PayerDeposits []Asset
	PayoutCaps    []Asset

	MaxSubmissionsPerParticipant uint32
	MaxParticipants              uint64
	ParticipantCount             uint64

	ParticipationMode ParticipationMode
	CapacityMode      CapacityMode
	ExternalCheck     *ExternalCheck

	Participants map[string]uint8
	Submissions  map[string]uint32
	Reviewers    []string
	StateCounts  map[string]uint64

	Status Status

	ParticipationStart int64
	ParticipationEnd   int64
	SettlementDeadline int64

	Payer     string
	CreatedAt int64
}

// Clone returns a deep copy so callers can stage mutations without touching
// the stored record.
func (b *Bounty) Clone() *Bounty {
	if b == nil {
		return nil
	}
	clone := *b
	clone.EmitRewards = cloneAssets(b.EmitRewards)
	clone.Targets = cloneAssets(b.Targets)
	clone.PayerDeposits = cloneAssets(b.PayerDeposits)
	clone.PayoutCaps = cloneAssets(b.PayoutCaps)
	if b.ExternalCheck != nil {
		check := *b.ExternalCheck
		clone.ExternalCheck = &check
	}
	clone.Participants = make(map[string]uint8, len(b.Participants))
	for k, v := range b.Participants {
		clone.Participants[k] = v
	}
	clone.Submissions = make(map[string]uint32, len(b.Submissions))
	for k, v := range b.Submissions {
		clone.Submissions[k] = v
	}
	clone.StateCounts = make(map[string]uint64, len(b.StateCounts))
	for k, v := range b.StateCounts {
		clone.StateCounts[k] = v
	}
	clone.Reviewers = append([]string(nil), b.Reviewers...)
	return &clone
}

// StateCount returns the counter for a request status tag, defaulting to 0.
func (b *Bounty) StateCount(tag string) uint64 {
	if b == nil || b.StateCounts == nil {
		return 0
	}
	return b.StateCounts[tag]
}

// ActiveParticipants lists principals whose signup flag is 1, sorted for
// deterministic iteration.
func (b *Bounty) ActiveParticipants() []string {
	if b == nil {
		return nil
	}
	active := make([]string, 0, len(b.Participants))
	for principal, flag := range b.Participants {
		if flag == 1 {
			active = append(active, principal)
		}
	}
	sort.Strings(active)
	return active
}

// PoolDeposit records the voluntary deposits of one non-payer principal,
// scoped to a single bounty.
type PoolDeposit struct {
	Account  string
	Deposits []Asset
}

// Clone returns a deep copy of the pool entry.
func (p *PoolDeposit) Clone() *PoolDeposit {
	if p == nil {
		return nil
	}
	return &PoolDeposit{Account: p.Account, Deposits: cloneAssets(p.Deposits)}
}

const (
	orgCodeLength = 4
	minIDLength   = orgCodeLength + 1
	maxIDLength   = 7
)

// ValidateID enforces the bounty identifier format: 5 to 7 uppercase letters
// whose leading four characters equal the owning organization's code. The
// record additionally stores the organization as an explicit field; this
// constructor keeps imported identifiers consistent with it.
func ValidateID(id, orgCode string) error {
	if len(id) < minIDLength || len(id) > maxIDLength {
		return fmt.Errorf("bounty: identifier must be %d to %d characters, got %q", minIDLength, maxIDLength, id)
	}
	for _, r := range id {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("bounty: identifier %q must contain only uppercase letters", id)
		}
	}
	code := strings.ToUpper(strings.TrimSpace(orgCode))
	if len(code) != orgCodeLength {
		return fmt.Errorf("bounty: organization code must be %d characters, got %q", orgCodeLength, orgCode)
	}
	if !strings.HasPrefix(id, code) {
		return fmt.Errorf("bounty: identifier %q does not carry organization code %q", id, code)
	}
	return nil
}

// NormalizeID canonicalises an identifier received from an external callback,
// where origin keys travel lower-cased.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// SanitizeBounty validates and normalises a bounty record, returning a clone
// with non-nil maps and amounts. The original value is not mutated.
func SanitizeBounty(b *Bounty) (*Bounty, error) {
	if b == nil {
		return nil, fmt.Errorf("bounty: nil record")
	}
	clone := b.Clone()
	clone.ID = NormalizeID(clone.ID)
	if clone.ID == "" {
		return nil, fmt.Errorf("bounty: identifier required")
	}
	if strings.TrimSpace(clone.Org) == "" {
		return nil, fmt.Errorf("bounty: organization required")
	}
	if !clone.Status.Valid() {
		return nil, fmt.Errorf("bounty: invalid status %q", clone.Status)
	}
	if !clone.BadgeSource.Valid() {
		return nil, fmt.Errorf("bounty: invalid badge source %q", clone.BadgeSource)
	}
	if !clone.CapacityMode.Valid() {
		return nil, fmt.Errorf("bounty: invalid capacity mode %q", clone.CapacityMode)
	}
	if !clone.ParticipationMode.Valid() {
		return nil, fmt.Errorf("bounty: invalid participation mode %q", clone.ParticipationMode)
	}
	for i := range clone.Targets {
		if clone.Targets[i].Amount == nil || clone.Targets[i].Amount.Sign() <= 0 {
			return nil, fmt.Errorf("bounty: target amount must be positive for %s/%s", clone.Targets[i].Custodian, clone.Targets[i].Token)
		}
	}
	for i := range clone.PayerDeposits {
		idx := findAsset(clone.Targets, clone.PayerDeposits[i].Custodian, clone.PayerDeposits[i].Token)
		if idx < 0 {
			return nil, fmt.Errorf("bounty: deposit asset %s/%s has no funding target", clone.PayerDeposits[i].Custodian, clone.PayerDeposits[i].Token)
		}
		if clone.PayerDeposits[i].Amount.Cmp(clone.Targets[idx].Amount) > 0 {
			return nil, fmt.Errorf("bounty: deposit for %s/%s exceeds its target", clone.PayerDeposits[i].Custodian, clone.PayerDeposits[i].Token)
		}
	}
	return clone, nil
}
