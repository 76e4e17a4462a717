package bounty_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"orgledger/core/events"
	"orgledger/core/types"
	"orgledger/native/bounty"
	"orgledger/state"
	"orgledger/storage"
)

const (
	testOrg      = "acme"
	testOrgCode  = "ACME"
	testBounty   = "ACMEX"
	testPayer    = "payer"
	testSelf     = "bounties"
	testTreasury = "treasury"
	testBank     = "bank"
	testToken    = "GOLD"
	testBadge    = "GOLDSTAR"
)

type allowListAuthority struct {
	allowed map[string]bool // "org/operation/principal"
}

func (a *allowListAuthority) HasActionAuthority(org, operation, principal string) (bool, error) {
	if principal == org {
		return true, nil
	}
	return a.allowed[org+"/"+operation+"/"+principal], nil
}

func (a *allowListAuthority) allow(org, operation, principal string) {
	if a.allowed == nil {
		a.allowed = make(map[string]bool)
	}
	a.allowed[org+"/"+operation+"/"+principal] = true
}

type orgRegistry struct {
	codes map[string]string
}

func (r *orgRegistry) Code(org string) (string, error) {
	code, ok := r.codes[org]
	if !ok {
		return "", fmt.Errorf("org %s not registered", org)
	}
	return code, nil
}

type settingsStub struct {
	fee    uint64
	feeOK  bool
	min    uint64
	minOK  bool
	errGet error
}

func (s *settingsStub) FeeBasisPoints() (uint64, bool, error) {
	return s.fee, s.feeOK, s.errGet
}

func (s *settingsStub) MinPoolDepositBasisPoints() (uint64, bool, error) {
	return s.min, s.minOK, s.errGet
}

type criterionCall struct {
	Org        string
	Identifier string
	Cyclic     bool
	Rewards    []bounty.Asset
}

type criteriaRecorder struct {
	registered  []criterionCall
	activated   []string
	deactivated []string
	failWith    error
}

func (c *criteriaRecorder) Register(org, identifier, display, description string, criteria, rewards []bounty.Asset, cyclic bool) error {
	if c.failWith != nil {
		return c.failWith
	}
	c.registered = append(c.registered, criterionCall{Org: org, Identifier: identifier, Cyclic: cyclic, Rewards: rewards})
	return nil
}

func (c *criteriaRecorder) Activate(org, identifier string) error {
	if c.failWith != nil {
		return c.failWith
	}
	c.activated = append(c.activated, org+"/"+identifier)
	return nil
}

func (c *criteriaRecorder) Deactivate(org, identifier string) error {
	if c.failWith != nil {
		return c.failWith
	}
	c.deactivated = append(c.deactivated, org+"/"+identifier)
	return nil
}

type badgeRecorder struct {
	created  []string
	features []string // "denomination->target"
	failWith error
}

func (b *badgeRecorder) CreateBadge(org, denomination, display, image, description, memo string) error {
	if b.failWith != nil {
		return b.failWith
	}
	b.created = append(b.created, denomination)
	return nil
}

func (b *badgeRecorder) RegisterFeature(org, denomination, notifyTarget string) error {
	if b.failWith != nil {
		return b.failWith
	}
	b.features = append(b.features, denomination+"->"+notifyTarget)
	return nil
}

type reviewRecorder struct {
	requests []bounty.ReviewRequest
	failWith error
}

func (r *reviewRecorder) IngestRequest(req bounty.ReviewRequest) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.requests = append(r.requests, req)
	return nil
}

type transferCall struct {
	Custodian string
	From      string
	To        string
	Token     string
	Amount    *big.Int
	Memo      string
}

type transferRecorder struct {
	calls    []transferCall
	failWith error
}

func (t *transferRecorder) Transfer(custodian, from, to, token string, amount *big.Int, memo string) error {
	if t.failWith != nil {
		return t.failWith
	}
	t.calls = append(t.calls, transferCall{
		Custodian: custodian,
		From:      from,
		To:        to,
		Token:     token,
		Amount:    new(big.Int).Set(amount),
		Memo:      memo,
	})
	return nil
}

type checkerFunc func(collaborator, entryPoint, scope, participant string) error

func (f checkerFunc) CheckParticipant(collaborator, entryPoint, scope, participant string) error {
	return f(collaborator, entryPoint, scope, participant)
}

type eventRecorder struct {
	events []events.Event
}

func (r *eventRecorder) Emit(evt events.Event) {
	r.events = append(r.events, evt)
}

func (r *eventRecorder) lastOfType(eventType string) *types.Event {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].EventType() == eventType {
			if payload, ok := r.events[i].(interface{ Event() *types.Event }); ok {
				return payload.Event()
			}
		}
	}
	return nil
}

type env struct {
	engine    *bounty.Engine
	manager   *state.Manager
	authority *allowListAuthority
	settings  *settingsStub
	criteria  *criteriaRecorder
	badges    *badgeRecorder
	reviews   *reviewRecorder
	transfers *transferRecorder
	emitter   *eventRecorder
	now       int64
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		manager:   state.NewManager(storage.NewMemDB()),
		authority: &allowListAuthority{},
		settings:  &settingsStub{min: 500, minOK: true},
		criteria:  &criteriaRecorder{},
		badges:    &badgeRecorder{},
		reviews:   &reviewRecorder{},
		transfers: &transferRecorder{},
		emitter:   &eventRecorder{},
		now:       1_000,
	}
	engine := bounty.NewEngine()
	engine.SetState(e.manager)
	engine.SetAuthority(e.authority)
	engine.SetOrgRegistry(&orgRegistry{codes: map[string]string{testOrg: testOrgCode}})
	engine.SetSettings(e.settings)
	engine.SetCriteriaService(e.criteria)
	engine.SetBadgeService(e.badges)
	engine.SetReviewService(e.reviews)
	engine.SetTransferService(e.transfers)
	engine.SetSelf(testSelf)
	engine.SetFeeTreasury(testTreasury)
	engine.SetCollaboratorAccounts("criteria", "cumulative", "statistics")
	engine.SetEmitter(e.emitter)
	engine.SetNowFunc(func() int64 { return e.now })
	e.engine = engine
	return e
}

func amount(v int64) *big.Int { return big.NewInt(v) }

func defaultParams() bounty.CreateParams {
	return bounty.CreateParams{
		ID:          testBounty,
		Org:         testOrg,
		Payer:       testPayer,
		DisplayName: "Bug hunt",
		Description: "Find and report bugs",
		Targets:     []bounty.Asset{{Custodian: testBank, Token: testToken, Amount: amount(1_000)}},

		MaxSubmissionsPerParticipant: 1,
		Reviewers:                    []string{"alice", "bob"},

		ParticipationStart: 2_000,
		ParticipationEnd:   3_000,
		SettlementDeadline: 4_000,

		BadgeSource:       bounty.BadgeSourceExisting,
		CapacityMode:      bounty.CapacityUnlimited,
		ParticipationMode: bounty.ParticipationOpen,
	}
}

// createOpen creates an open, unlimited, existing-badge bounty and binds the
// badge so the record lands in init.
func createOpen(t *testing.T, e *env) {
	t.Helper()
	_, err := e.engine.Create(testOrg, defaultParams())
	require.NoError(t, err)
	require.NoError(t, e.engine.BindExistingBadge(testOrg, testBounty, testBadge))
}

// fund deposits the full payer target so the record lands in deposited.
func fund(t *testing.T, e *env) {
	t.Helper()
	require.NoError(t, e.engine.OnIncomingTransfer(testBank, testPayer, testSelf, testToken, amount(1_000), testBounty))
}

// readyOpen is createOpen plus fund: a fully funded open bounty.
func readyOpen(t *testing.T, e *env) {
	t.Helper()
	createOpen(t, e)
	fund(t, e)
}

func getBounty(t *testing.T, e *env) *bounty.Bounty {
	t.Helper()
	record, err := e.engine.Get(testBounty)
	require.NoError(t, err)
	return record
}
