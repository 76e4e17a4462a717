package bounty

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"orgledger/core/events"
)

var (
	errNilState       = errors.New("bounty engine: state not configured")
	errNilAuthority   = errors.New("bounty engine: authority view not configured")
	errNilOrgs        = errors.New("bounty engine: org registry not configured")
	errNilCriteria    = errors.New("bounty engine: criteria service not configured")
	errNilBadges      = errors.New("bounty engine: badge service not configured")
	errNilReviews     = errors.New("bounty engine: review service not configured")
	errNilTransfers   = errors.New("bounty engine: transfer service not configured")
	errNilSettings    = errors.New("bounty engine: settings view not configured")
	errNilTreasury    = errors.New("bounty engine: fee treasury not configured")
	ErrBountyNotFound = errors.New("bounty engine: bounty not found")
	ErrNotAuthorized  = errors.New("bounty engine: unauthorized principal")
	ErrWrongStatus    = errors.New("bounty engine: operation not allowed in current status")
	ErrAlreadySet     = errors.New("bounty engine: field already set")
)

// Operation tags used for authorization allow-list lookups.
const (
	OpCreate          = "create"
	OpBindBadge       = "bindbadge"
	OpCreateBadge     = "createbadge"
	OpSetCap          = "setcap"
	OpSetClosedList   = "setclosed"
	OpSetExternal     = "setexternal"
	OpAddParticipants = "addparticipants"
	OpAddReviewers    = "addreviewers"
	OpClose           = "close"
	OpCleanup         = "cleanup"
)

// engineState is the persistence surface required by the engine. Records are
// returned as clones; the engine stages every mutation on the clone and writes
// it back only after all checks and collaborator calls have succeeded.
type engineState interface {
	BountyPut(*Bounty) error
	BountyGet(id string) (*Bounty, bool, error)
	BountyDelete(id string) error
	PoolDepositGet(bountyID, account string) (*PoolDeposit, bool, error)
	PoolDepositPut(bountyID string, entry *PoolDeposit) error
	PoolDepositDelete(bountyID, account string) error
	PoolDepositList(bountyID string) ([]*PoolDeposit, error)
}

// AuthorityView resolves per-organization operation allow-lists.
type AuthorityView interface {
	HasActionAuthority(org, operation, principal string) (bool, error)
}

// OrgView is the read-only slice of the external organization registry needed
// to validate bounty identifiers.
type OrgView interface {
	// Code returns the four-letter code registered for the organization.
	Code(org string) (string, error)
}

// SettingsView exposes the global engine settings.
type SettingsView interface {
	// FeeBasisPoints is the distribution fee; absent means zero.
	FeeBasisPoints() (uint64, bool, error)
	// MinPoolDepositBasisPoints is the minimum fraction of a target a
	// non-payer deposit must meet; absent is a hard failure for deposits.
	MinPoolDepositBasisPoints() (uint64, bool, error)
}

// CriteriaService is the achievement-criteria collaborator that turns badge
// issuance into bounty rewards.
type CriteriaService interface {
	Register(org, identifier, display, description string, criteria, rewards []Asset, cyclic bool) error
	Activate(org, identifier string) error
	Deactivate(org, identifier string) error
}

// BadgeService covers badge metadata creation and notification wiring.
type BadgeService interface {
	CreateBadge(org, denomination, display, image, description, memo string) error
	RegisterFeature(org, denomination, notifyTarget string) error
}

// ReviewRequest is forwarded to the external review workflow on submission.
type ReviewRequest struct {
	Origin       string
	OriginKey    string
	Requester    string
	Reviewers    []string
	Destination  string
	Denomination string
	Amount       uint64
	Memo         string
	Reason       string
	Expiry       int64
}

// ReviewService ingests submission requests into the external review workflow.
type ReviewService interface {
	IngestRequest(req ReviewRequest) error
}

// TransferService executes outgoing fund movements through the external
// funds-transfer custodians.
type TransferService interface {
	Transfer(custodian, from, to, token string, amount *big.Int, memo string) error
}

// ParticipantChecker performs the synchronous verification call configured
// for externally-checked participation.
type ParticipantChecker interface {
	CheckParticipant(collaborator, entryPoint, scope, participant string) error
}

// BadgeSpec carries the metadata for badges created through the bounty setup
// path. The lifetime flags opt the badge into the aggregation and statistics
// consumers.
type BadgeSpec struct {
	DisplayName       string
	Image             string
	Description       string
	Memo              string
	LifetimeAggregate bool
	LifetimeStats     bool
}

// Engine custodies bounty records and deposited funds, and drives the
// setup/participation/settlement state machine. All collaborator calls are
// synchronous; any failure aborts the triggering operation before the staged
// record is persisted.
type Engine struct {
	state     engineState
	emitter   events.Emitter
	authority AuthorityView
	orgs      OrgView
	settings  SettingsView
	criteria  CriteriaService
	badges    BadgeService
	reviews   ReviewService
	transfers TransferService
	checker   ParticipantChecker
	nowFn     func() int64

	self     string
	treasury string

	criteriaAccount   string
	cumulativeAccount string
	statisticsAccount string
}

// NewEngine creates a bounty engine with a no-op emitter and wall-clock time.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetAuthority configures the allow-list view consulted for organization ops.
func (e *Engine) SetAuthority(view AuthorityView) { e.authority = view }

// SetOrgRegistry configures the organization registry view.
func (e *Engine) SetOrgRegistry(view OrgView) { e.orgs = view }

// SetSettings configures the global settings view.
func (e *Engine) SetSettings(view SettingsView) { e.settings = view }

// SetCriteriaService configures the achievement-criteria collaborator.
func (e *Engine) SetCriteriaService(svc CriteriaService) { e.criteria = svc }

// SetBadgeService configures the badge metadata collaborator.
func (e *Engine) SetBadgeService(svc BadgeService) { e.badges = svc }

// SetReviewService configures the review workflow collaborator.
func (e *Engine) SetReviewService(svc ReviewService) { e.reviews = svc }

// SetTransferService configures the funds-transfer collaborator.
func (e *Engine) SetTransferService(svc TransferService) { e.transfers = svc }

// SetParticipantChecker configures the external participation verifier.
func (e *Engine) SetParticipantChecker(c ParticipantChecker) { e.checker = c }

// SetSelf configures the principal under which the engine holds funds.
func (e *Engine) SetSelf(account string) { e.self = account }

// SetFeeTreasury configures the principal that receives distribution fees.
func (e *Engine) SetFeeTreasury(account string) { e.treasury = account }

// SetCollaboratorAccounts configures the notification targets wired to newly
// bound badges: the criteria service plus the optional lifetime aggregation
// and statistics consumers.
func (e *Engine) SetCollaboratorAccounts(criteria, cumulative, statistics string) {
	e.criteriaAccount = criteria
	e.cumulativeAccount = cumulative
	e.statisticsAccount = statistics
}

// SetEmitter configures the event emitter. Passing nil resets to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source, primarily for deterministic tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) emit(evt eventPayload) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) loadBounty(id string) (*Bounty, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.BountyGet(NormalizeID(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBountyNotFound
	}
	return record, nil
}

func (e *Engine) storeBounty(b *Bounty) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	sanitized, err := SanitizeBounty(b)
	if err != nil {
		return err
	}
	return e.state.BountyPut(sanitized)
}

// requireActionAuthority admits the organization itself or any principal on
// the per-operation allow-list.
func (e *Engine) requireActionAuthority(org, operation, principal string) error {
	if e == nil || e.authority == nil {
		return errNilAuthority
	}
	ok, err := e.authority.HasActionAuthority(org, operation, principal)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s may not perform %s for %s", ErrNotAuthorized, principal, operation, org)
	}
	return nil
}

// CreateParams is the full creation payload for a bounty record.
type CreateParams struct {
	ID          string
	Org         string
	Payer       string
	DisplayName string
	Description string

	EmitRewards []Asset
	Targets     []Asset
	PayoutCaps  []Asset

	MaxSubmissionsPerParticipant uint32
	Reviewers                    []string

	ParticipationStart int64
	ParticipationEnd   int64
	SettlementDeadline int64

	BadgeSource       BadgeSource
	CapacityMode      CapacityMode
	ParticipationMode ParticipationMode
}

// Create validates and persists a new bounty record. The record starts in
// setup because the badge is always bound by a later configuration step.
func (e *Engine) Create(authorized string, p CreateParams) (*Bounty, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.orgs == nil {
		return nil, errNilOrgs
	}
	if err := e.requireActionAuthority(p.Org, OpCreate, authorized); err != nil {
		return nil, err
	}
	code, err := e.orgs.Code(p.Org)
	if err != nil {
		return nil, fmt.Errorf("bounty create: resolve org code: %w", err)
	}
	id := NormalizeID(p.ID)
	if err := ValidateID(id, code); err != nil {
		return nil, err
	}

	now := e.now()
	if p.ParticipationStart <= now {
		return nil, fmt.Errorf("bounty create: participation start must be in the future")
	}
	if p.ParticipationEnd <= p.ParticipationStart {
		return nil, fmt.Errorf("bounty create: participation end must be after the start")
	}
	if p.SettlementDeadline <= p.ParticipationEnd {
		return nil, fmt.Errorf("bounty create: settlement deadline must be after participation end")
	}
	if !p.BadgeSource.Valid() {
		return nil, fmt.Errorf("bounty create: badge source must be %q or %q", BadgeSourceNew, BadgeSourceExisting)
	}
	if !p.CapacityMode.Valid() {
		return nil, fmt.Errorf("bounty create: capacity mode must be %q or %q", CapacityLimited, CapacityUnlimited)
	}
	if !p.ParticipationMode.Valid() {
		return nil, fmt.Errorf("bounty create: participation mode must be %q, %q or %q", ParticipationOpen, ParticipationClosed, ParticipationExternal)
	}
	if p.MaxSubmissionsPerParticipant == 0 {
		return nil, fmt.Errorf("bounty create: max submissions per participant must be greater than zero")
	}
	if len(p.Targets) == 0 {
		return nil, fmt.Errorf("bounty create: at least one funding target required")
	}
	for i := range p.Targets {
		if p.Targets[i].Amount == nil || p.Targets[i].Amount.Sign() <= 0 {
			return nil, fmt.Errorf("bounty create: target amount must be positive for %s/%s", p.Targets[i].Custodian, p.Targets[i].Token)
		}
	}
	for i := range p.PayoutCaps {
		limit := p.PayoutCaps[i]
		if limit.Amount == nil || limit.Amount.Sign() <= 0 {
			return nil, fmt.Errorf("bounty create: payout cap must be positive for %s/%s", limit.Custodian, limit.Token)
		}
		if findAsset(p.Targets, limit.Custodian, limit.Token) < 0 {
			return nil, fmt.Errorf("bounty create: payout cap asset %s/%s is not a funding target", limit.Custodian, limit.Token)
		}
	}
	if strings.TrimSpace(p.Payer) == "" {
		return nil, fmt.Errorf("bounty create: payer required")
	}
	if _, ok, err := e.state.BountyGet(id); err != nil {
		return nil, err
	} else if ok {
		return nil, fmt.Errorf("bounty create: identifier %s already exists", id)
	}

	record := &Bounty{
		ID:                           id,
		Org:                          p.Org,
		DisplayName:                  p.DisplayName,
		Description:                  p.Description,
		EmitRewards:                  cloneAssets(p.EmitRewards),
		BadgeSource:                  p.BadgeSource,
		Targets:                      cloneAssets(p.Targets),
		PayoutCaps:                   cloneAssets(p.PayoutCaps),
		MaxSubmissionsPerParticipant: p.MaxSubmissionsPerParticipant,
		ParticipationMode:            p.ParticipationMode,
		CapacityMode:                 p.CapacityMode,
		Participants:                 make(map[string]uint8),
		Submissions:                  make(map[string]uint32),
		StateCounts:                  make(map[string]uint64),
		Reviewers:                    dedupe(p.Reviewers),
		Status:                       StatusSetup,
		ParticipationStart:           p.ParticipationStart,
		ParticipationEnd:             p.ParticipationEnd,
		SettlementDeadline:           p.SettlementDeadline,
		Payer:                        p.Payer,
		CreatedAt:                    now,
	}
	if err := e.storeBounty(record); err != nil {
		return nil, err
	}
	e.emit(newBountyEvent(EventTypeBountyCreated, record))
	return record.Clone(), nil
}

// completeSetup transitions setup → init once every pending configuration
// step is done, registering and activating the achievement criterion tied to
// the badge. Called with the staged clone before it is persisted.
func (e *Engine) completeSetup(b *Bounty) error {
	if b.Status != StatusSetup {
		return nil
	}
	if b.BadgeRef == "" {
		return nil
	}
	if b.CapacityMode == CapacityLimited && b.MaxParticipants == 0 {
		return nil
	}
	if b.ParticipationMode == ParticipationClosed && len(b.Participants) == 0 {
		return nil
	}
	if b.ParticipationMode == ParticipationExternal && (b.ExternalCheck == nil || b.ExternalCheck.empty()) {
		return nil
	}
	if e.criteria == nil {
		return errNilCriteria
	}
	b.Status = StatusInit
	// Deposits may already have completed the targets while configuration
	// was still pending.
	if e.allTargetsMet(b) {
		b.Status = StatusDeposited
	}
	criteria := []Asset{{Custodian: e.criteriaAccount, Token: b.BadgeRef, Amount: big.NewInt(1)}}
	cyclic := b.MaxSubmissionsPerParticipant > 1
	if err := e.criteria.Register(b.Org, b.ID, b.DisplayName, b.Description, criteria, cloneAssets(b.EmitRewards), cyclic); err != nil {
		return fmt.Errorf("bounty setup: register criterion: %w", err)
	}
	if err := e.criteria.Activate(b.Org, b.ID); err != nil {
		return fmt.Errorf("bounty setup: activate criterion: %w", err)
	}
	return nil
}

// BindExistingBadge binds an already-issued badge denomination to the bounty.
// Permitted only when the badge source selected the existing path and the
// badge is still unset.
func (e *Engine) BindExistingBadge(authorized, bountyID, badge string) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if err := e.requireActionAuthority(record.Org, OpBindBadge, authorized); err != nil {
		return err
	}
	if record.BadgeSource != BadgeSourceExisting {
		return fmt.Errorf("bounty bindbadge: badge source is %q, not %q", record.BadgeSource, BadgeSourceExisting)
	}
	if record.BadgeRef != "" {
		return fmt.Errorf("%w: badge already bound to %s", ErrAlreadySet, record.BadgeRef)
	}
	if strings.TrimSpace(badge) == "" {
		return fmt.Errorf("bounty bindbadge: badge denomination required")
	}
	if e.badges == nil {
		return errNilBadges
	}
	record.BadgeRef = badge
	if err := e.completeSetup(record); err != nil {
		return err
	}
	if err := e.badges.RegisterFeature(record.Org, badge, e.criteriaAccount); err != nil {
		return fmt.Errorf("bounty bindbadge: register feature: %w", err)
	}
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newBadgeBoundEvent(record, badge))
	return nil
}

// CreateNewBadge creates a fresh badge through the badge collaborator and
// binds it to the bounty. Permitted only when the badge source selected the
// new path and the badge is still unset.
func (e *Engine) CreateNewBadge(authorized, bountyID, badge string, spec BadgeSpec) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if err := e.requireActionAuthority(record.Org, OpCreateBadge, authorized); err != nil {
		return err
	}
	if record.BadgeSource != BadgeSourceNew {
		return fmt.Errorf("bounty createbadge: badge source is %q, not %q", record.BadgeSource, BadgeSourceNew)
	}
	if record.BadgeRef != "" {
		return fmt.Errorf("%w: badge already bound to %s", ErrAlreadySet, record.BadgeRef)
	}
	if strings.TrimSpace(badge) == "" {
		return fmt.Errorf("bounty createbadge: badge denomination required")
	}
	if strings.TrimSpace(spec.DisplayName) == "" || strings.TrimSpace(spec.Image) == "" || strings.TrimSpace(spec.Description) == "" {
		return fmt.Errorf("bounty createbadge: display name, image and description required")
	}
	if spec.LifetimeStats && !spec.LifetimeAggregate {
		return fmt.Errorf("bounty createbadge: lifetime stats require lifetime aggregates")
	}
	if e.badges == nil {
		return errNilBadges
	}
	record.BadgeRef = badge
	if err := e.completeSetup(record); err != nil {
		return err
	}
	if err := e.badges.CreateBadge(record.Org, badge, spec.DisplayName, spec.Image, spec.Description, spec.Memo); err != nil {
		return fmt.Errorf("bounty createbadge: create badge: %w", err)
	}
	consumers := []string{}
	if spec.LifetimeAggregate {
		consumers = append(consumers, e.cumulativeAccount)
	}
	if spec.LifetimeAggregate && spec.LifetimeStats {
		consumers = append(consumers, e.statisticsAccount)
	}
	consumers = append(consumers, e.criteriaAccount)
	for _, consumer := range consumers {
		if strings.TrimSpace(consumer) == "" {
			continue
		}
		if err := e.badges.RegisterFeature(record.Org, badge, consumer); err != nil {
			return fmt.Errorf("bounty createbadge: register feature for %s: %w", consumer, err)
		}
	}
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newBadgeBoundEvent(record, badge))
	return nil
}

// SetParticipantCap sets the participant cap for limited-capacity bounties.
// The cap may be set only once.
func (e *Engine) SetParticipantCap(authorized, bountyID string, max uint64) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if err := e.requireActionAuthority(record.Org, OpSetCap, authorized); err != nil {
		return err
	}
	if record.CapacityMode != CapacityLimited {
		return fmt.Errorf("bounty setcap: capacity mode is %q, not %q", record.CapacityMode, CapacityLimited)
	}
	if record.MaxParticipants != 0 {
		return fmt.Errorf("%w: participant cap already set to %d", ErrAlreadySet, record.MaxParticipants)
	}
	if max == 0 {
		return fmt.Errorf("bounty setcap: participant cap must be greater than zero")
	}
	record.MaxParticipants = max
	if err := e.completeSetup(record); err != nil {
		return err
	}
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newBountyEvent(EventTypeBountyConfigured, record))
	return nil
}

// SetClosedList seeds the closed participant allow-list. Entries start with
// flag 0 and flip to 1 on signup. The list may be set only once; later
// extensions go through AddParticipants.
func (e *Engine) SetClosedList(authorized, bountyID string, participants []string) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if err := e.requireActionAuthority(record.Org, OpSetClosedList, authorized); err != nil {
		return err
	}
	if record.ParticipationMode != ParticipationClosed {
		return fmt.Errorf("bounty setclosed: participation mode is %q, not %q", record.ParticipationMode, ParticipationClosed)
	}
	if len(record.Participants) != 0 {
		return fmt.Errorf("%w: closed participant list already set", ErrAlreadySet)
	}
	if len(participants) == 0 {
		return fmt.Errorf("bounty setclosed: participant list cannot be empty")
	}
	for _, p := range participants {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("bounty setclosed: participant names cannot be empty")
		}
		record.Participants[p] = 0
	}
	if err := e.completeSetup(record); err != nil {
		return err
	}
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newBountyEvent(EventTypeBountyConfigured, record))
	return nil
}

// SetExternalCheck configures the external participation verifier. Permitted
// only for external-mode bounties and only once.
func (e *Engine) SetExternalCheck(authorized, bountyID string, check ExternalCheck) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if err := e.requireActionAuthority(record.Org, OpSetExternal, authorized); err != nil {
		return err
	}
	if record.ParticipationMode != ParticipationExternal {
		return fmt.Errorf("bounty setexternal: participation mode is %q, not %q", record.ParticipationMode, ParticipationExternal)
	}
	if record.ExternalCheck != nil && !record.ExternalCheck.empty() {
		return fmt.Errorf("%w: external check already configured", ErrAlreadySet)
	}
	if strings.TrimSpace(check.Collaborator) == "" {
		return fmt.Errorf("bounty setexternal: collaborator required")
	}
	if strings.TrimSpace(check.EntryPoint) == "" {
		return fmt.Errorf("bounty setexternal: entry point required")
	}
	record.ExternalCheck = &check
	if err := e.completeSetup(record); err != nil {
		return err
	}
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newBountyEvent(EventTypeBountyConfigured, record))
	return nil
}

// AddParticipants extends the closed allow-list with new entries (flag 0).
// Existing entries are left untouched.
func (e *Engine) AddParticipants(authorized, bountyID string, participants []string) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if err := e.requireActionAuthority(record.Org, OpAddParticipants, authorized); err != nil {
		return err
	}
	if record.ParticipationMode != ParticipationClosed {
		return fmt.Errorf("bounty addparticipants: participation mode is %q, not %q", record.ParticipationMode, ParticipationClosed)
	}
	for _, p := range participants {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, ok := record.Participants[p]; !ok {
			record.Participants[p] = 0
		}
	}
	return e.storeBounty(record)
}

// AddReviewers appends reviewers not already present.
func (e *Engine) AddReviewers(authorized, bountyID string, reviewers []string) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if err := e.requireActionAuthority(record.Org, OpAddReviewers, authorized); err != nil {
		return err
	}
	for _, rev := range reviewers {
		if strings.TrimSpace(rev) == "" {
			continue
		}
		if !contains(record.Reviewers, rev) {
			record.Reviewers = append(record.Reviewers, rev)
		}
	}
	return e.storeBounty(record)
}

// Close marks the bounty closed once every approved submission has been
// processed.
func (e *Engine) Close(authorized, bountyID string) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if err := e.requireActionAuthority(record.Org, OpClose, authorized); err != nil {
		return err
	}
	if record.Status != StatusDeposited {
		return fmt.Errorf("%w: close requires status %q, have %q", ErrWrongStatus, StatusDeposited, record.Status)
	}
	approved := record.StateCount(StatusTagApproved)
	processed := record.StateCount(StatusTagProcessed)
	if approved != processed {
		return fmt.Errorf("bounty close: %d approved submissions still unprocessed", approved-processed)
	}
	record.Status = StatusClosed
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newBountyEvent(EventTypeBountyClosed, record))
	return nil
}

// Cleanup erases a closed bounty once the payer has withdrawn every deposit,
// deactivating the achievement criterion on the way out.
func (e *Engine) Cleanup(authorized, bountyID string) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if err := e.requireActionAuthority(record.Org, OpCleanup, authorized); err != nil {
		return err
	}
	if record.Status != StatusClosed {
		return fmt.Errorf("%w: cleanup requires status %q, have %q", ErrWrongStatus, StatusClosed, record.Status)
	}
	if len(record.PayerDeposits) != 0 {
		return fmt.Errorf("bounty cleanup: payer deposits not yet withdrawn")
	}
	if e.criteria == nil {
		return errNilCriteria
	}
	if err := e.criteria.Deactivate(record.Org, record.ID); err != nil {
		return fmt.Errorf("bounty cleanup: deactivate criterion: %w", err)
	}
	if err := e.state.BountyDelete(record.ID); err != nil {
		return err
	}
	e.emit(newBountyEvent(EventTypeBountyErased, record))
	return nil
}

// Get returns a clone of the bounty record.
func (e *Engine) Get(bountyID string) (*Bounty, error) {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
