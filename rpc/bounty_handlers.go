package rpc

import (
	"fmt"
	"math/big"
	"net/http"

	"orgledger/native/bounty"
)

type assetJSON struct {
	Custodian string `json:"custodian"`
	Token     string `json:"token"`
	Amount    string `json:"amount"`
}

func parseAsset(a assetJSON) (bounty.Asset, error) {
	amount, ok := new(big.Int).SetString(a.Amount, 10)
	if !ok {
		return bounty.Asset{}, fmt.Errorf("invalid amount %q for %s/%s", a.Amount, a.Custodian, a.Token)
	}
	return bounty.Asset{Custodian: a.Custodian, Token: a.Token, Amount: amount}, nil
}

func parseAssets(list []assetJSON) ([]bounty.Asset, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]bounty.Asset, 0, len(list))
	for _, a := range list {
		parsed, err := parseAsset(a)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

func assetsJSON(list []bounty.Asset) []assetJSON {
	if len(list) == 0 {
		return nil
	}
	out := make([]assetJSON, 0, len(list))
	for _, a := range list {
		amount := "0"
		if a.Amount != nil {
			amount = a.Amount.String()
		}
		out = append(out, assetJSON{Custodian: a.Custodian, Token: a.Token, Amount: amount})
	}
	return out
}

type externalCheckJSON struct {
	Collaborator string `json:"collaborator"`
	EntryPoint   string `json:"entryPoint"`
	Scope        string `json:"scope,omitempty"`
}

type bountyJSON struct {
	ID          string `json:"id"`
	Org         string `json:"org"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`

	EmitRewards []assetJSON `json:"emitRewards,omitempty"`
	Badge       string      `json:"badge,omitempty"`
	BadgeSource string      `json:"badgeSource"`

	Targets       []assetJSON `json:"targets"`
	PayerDeposits []assetJSON `json:"payerDeposits,omitempty"`
	PayoutCaps    []assetJSON `json:"payoutCaps,omitempty"`

	MaxSubmissionsPerParticipant uint32 `json:"maxSubmissionsPerParticipant"`
	MaxParticipants              uint64 `json:"maxParticipants,omitempty"`
	ParticipantCount             uint64 `json:"participantCount"`

	ParticipationMode string             `json:"participationMode"`
	CapacityMode      string             `json:"capacityMode"`
	ExternalCheck     *externalCheckJSON `json:"externalCheck,omitempty"`

	Participants map[string]uint8  `json:"participants,omitempty"`
	Submissions  map[string]uint32 `json:"submissions,omitempty"`
	Reviewers    []string          `json:"reviewers,omitempty"`
	StateCounts  map[string]uint64 `json:"stateCounts,omitempty"`

	Status string `json:"status"`

	ParticipationStart int64 `json:"participationStart"`
	ParticipationEnd   int64 `json:"participationEnd"`
	SettlementDeadline int64 `json:"settlementDeadline"`

	Payer     string `json:"payer"`
	CreatedAt int64  `json:"createdAt"`
}

func newBountyJSON(record *bounty.Bounty) *bountyJSON {
	out := &bountyJSON{
		ID:          record.ID,
		Org:         record.Org,
		DisplayName: record.DisplayName,
		Description: record.Description,

		EmitRewards: assetsJSON(record.EmitRewards),
		Badge:       record.BadgeRef,
		BadgeSource: string(record.BadgeSource),

		Targets:       assetsJSON(record.Targets),
		PayerDeposits: assetsJSON(record.PayerDeposits),
		PayoutCaps:    assetsJSON(record.PayoutCaps),

		MaxSubmissionsPerParticipant: record.MaxSubmissionsPerParticipant,
		MaxParticipants:              record.MaxParticipants,
		ParticipantCount:             record.ParticipantCount,

		ParticipationMode: string(record.ParticipationMode),
		CapacityMode:      string(record.CapacityMode),

		Participants: record.Participants,
		Submissions:  record.Submissions,
		Reviewers:    record.Reviewers,
		StateCounts:  record.StateCounts,

		Status: string(record.Status),

		ParticipationStart: record.ParticipationStart,
		ParticipationEnd:   record.ParticipationEnd,
		SettlementDeadline: record.SettlementDeadline,

		Payer:     record.Payer,
		CreatedAt: record.CreatedAt,
	}
	if record.ExternalCheck != nil {
		out.ExternalCheck = &externalCheckJSON{
			Collaborator: record.ExternalCheck.Collaborator,
			EntryPoint:   record.ExternalCheck.EntryPoint,
			Scope:        record.ExternalCheck.Scope,
		}
	}
	return out
}

type bountyCreateParams struct {
	Caller      string `json:"caller"`
	ID          string `json:"id"`
	Org         string `json:"org"`
	Payer       string `json:"payer"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`

	EmitRewards []assetJSON `json:"emitRewards,omitempty"`
	Targets     []assetJSON `json:"targets"`
	PayoutCaps  []assetJSON `json:"payoutCaps,omitempty"`

	MaxSubmissionsPerParticipant uint32   `json:"maxSubmissionsPerParticipant"`
	Reviewers                    []string `json:"reviewers,omitempty"`

	ParticipationStart int64 `json:"participationStart"`
	ParticipationEnd   int64 `json:"participationEnd"`
	SettlementDeadline int64 `json:"settlementDeadline"`

	BadgeSource       string `json:"badgeSource"`
	CapacityMode      string `json:"capacityMode"`
	ParticipationMode string `json:"participationMode"`
}

func (s *Server) handleBountyCreate(w http.ResponseWriter, req *RPCRequest) {
	var p bountyCreateParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	rewards, err := parseAssets(p.EmitRewards)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	targets, err := parseAssets(p.Targets)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	caps, err := parseAssets(p.PayoutCaps)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	record, err := s.bounties.Create(p.Caller, bounty.CreateParams{
		ID:          p.ID,
		Org:         p.Org,
		Payer:       p.Payer,
		DisplayName: p.DisplayName,
		Description: p.Description,

		EmitRewards: rewards,
		Targets:     targets,
		PayoutCaps:  caps,

		MaxSubmissionsPerParticipant: p.MaxSubmissionsPerParticipant,
		Reviewers:                    p.Reviewers,

		ParticipationStart: p.ParticipationStart,
		ParticipationEnd:   p.ParticipationEnd,
		SettlementDeadline: p.SettlementDeadline,

		BadgeSource:       bounty.BadgeSource(p.BadgeSource),
		CapacityMode:      bounty.CapacityMode(p.CapacityMode),
		ParticipationMode: bounty.ParticipationMode(p.ParticipationMode),
	})
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, newBountyJSON(record))
}

type bountyIDParams struct {
	ID string `json:"id"`
}

func (s *Server) handleBountyGet(w http.ResponseWriter, req *RPCRequest) {
	var p bountyIDParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	record, err := s.bounties.Get(p.ID)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, newBountyJSON(record))
}

type bountyBadgeParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
	Badge  string `json:"badge"`
}

func (s *Server) handleBountyBindBadge(w http.ResponseWriter, req *RPCRequest) {
	var p bountyBadgeParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.BindExistingBadge(p.Caller, p.ID, p.Badge); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type bountyCreateBadgeParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
	Badge  string `json:"badge"`

	DisplayName       string `json:"displayName"`
	Image             string `json:"image"`
	Description       string `json:"description"`
	Memo              string `json:"memo,omitempty"`
	LifetimeAggregate bool   `json:"lifetimeAggregate,omitempty"`
	LifetimeStats     bool   `json:"lifetimeStats,omitempty"`
}

func (s *Server) handleBountyCreateBadge(w http.ResponseWriter, req *RPCRequest) {
	var p bountyCreateBadgeParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	spec := bounty.BadgeSpec{
		DisplayName:       p.DisplayName,
		Image:             p.Image,
		Description:       p.Description,
		Memo:              p.Memo,
		LifetimeAggregate: p.LifetimeAggregate,
		LifetimeStats:     p.LifetimeStats,
	}
	if err := s.bounties.CreateNewBadge(p.Caller, p.ID, p.Badge, spec); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type bountyCapParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
	Max    uint64 `json:"max"`
}

func (s *Server) handleBountySetParticipantCap(w http.ResponseWriter, req *RPCRequest) {
	var p bountyCapParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.SetParticipantCap(p.Caller, p.ID, p.Max); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type bountyListParams struct {
	Caller       string   `json:"caller"`
	ID           string   `json:"id"`
	Participants []string `json:"participants"`
}

func (s *Server) handleBountySetClosedList(w http.ResponseWriter, req *RPCRequest) {
	var p bountyListParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.SetClosedList(p.Caller, p.ID, p.Participants); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleBountyAddParticipants(w http.ResponseWriter, req *RPCRequest) {
	var p bountyListParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.AddParticipants(p.Caller, p.ID, p.Participants); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type bountyCheckParams struct {
	Caller       string `json:"caller"`
	ID           string `json:"id"`
	Collaborator string `json:"collaborator"`
	EntryPoint   string `json:"entryPoint"`
	Scope        string `json:"scope,omitempty"`
}

func (s *Server) handleBountySetExternalCheck(w http.ResponseWriter, req *RPCRequest) {
	var p bountyCheckParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	check := bounty.ExternalCheck{Collaborator: p.Collaborator, EntryPoint: p.EntryPoint, Scope: p.Scope}
	if err := s.bounties.SetExternalCheck(p.Caller, p.ID, check); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type bountyReviewersParams struct {
	Caller    string   `json:"caller"`
	ID        string   `json:"id"`
	Reviewers []string `json:"reviewers"`
}

func (s *Server) handleBountyAddReviewers(w http.ResponseWriter, req *RPCRequest) {
	var p bountyReviewersParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.AddReviewers(p.Caller, p.ID, p.Reviewers); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type bountyParticipantParams struct {
	Participant string `json:"participant"`
	ID          string `json:"id"`
	Reason      string `json:"reason,omitempty"`
}

func (s *Server) handleBountySignup(w http.ResponseWriter, req *RPCRequest) {
	var p bountyParticipantParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.Signup(p.Participant, p.ID, p.Reason); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleBountyCancelSignup(w http.ResponseWriter, req *RPCRequest) {
	var p bountyParticipantParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.CancelSignup(p.Participant, p.ID, p.Reason); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleBountySubmit(w http.ResponseWriter, req *RPCRequest) {
	var p bountyParticipantParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.Submit(p.Participant, p.ID, p.Reason); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type bountyStatusParams struct {
	Requester string `json:"requester"`
	RequestID uint64 `json:"requestId"`
	Origin    string `json:"origin"`
	OriginKey string `json:"originKey"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

func (s *Server) handleBountyReviewStatus(w http.ResponseWriter, req *RPCRequest) {
	var p bountyStatusParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.HandleStatus(p.Requester, p.RequestID, p.Origin, p.OriginKey, p.OldStatus, p.NewStatus); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type bountyTransferParams struct {
	Custodian string `json:"custodian"`
	From      string `json:"from"`
	To        string `json:"to"`
	Token     string `json:"token"`
	Amount    string `json:"amount"`
	Memo      string `json:"memo"`
}

func (s *Server) handleBountyNotifyTransfer(w http.ResponseWriter, req *RPCRequest) {
	var p bountyTransferParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	amount, ok := new(big.Int).SetString(p.Amount, 10)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid amount", p.Amount)
		return
	}
	if err := s.bounties.OnIncomingTransfer(p.Custodian, p.From, p.To, p.Token, amount, p.Memo); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type bountyWithdrawParams struct {
	Account string `json:"account"`
	ID      string `json:"id"`
}

func (s *Server) handleBountyWithdraw(w http.ResponseWriter, req *RPCRequest) {
	var p bountyWithdrawParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.Withdraw(p.Account, p.ID); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

type bountyCallerParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
}

func (s *Server) handleBountyClose(w http.ResponseWriter, req *RPCRequest) {
	var p bountyCallerParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.Close(p.Caller, p.ID); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}

func (s *Server) handleBountyCleanup(w http.ResponseWriter, req *RPCRequest) {
	var p bountyCallerParams
	if err := decodeParams(req, &p); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	if err := s.bounties.Cleanup(p.Caller, p.ID); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, true)
}
