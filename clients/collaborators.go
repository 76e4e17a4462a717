package clients

import (
	"math/big"

	"orgledger/native/bounty"
)

type assetJSON struct {
	Custodian string `json:"custodian"`
	Token     string `json:"token"`
	Amount    string `json:"amount"`
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

// OrgRegistry resolves organization codes through the registry service.
type OrgRegistry struct {
	client *Client
}

func NewOrgRegistry(client *Client) *OrgRegistry {
	return &OrgRegistry{client: client}
}

// Code implements bounty.OrgView.
func (r *OrgRegistry) Code(org string) (string, error) {
	var result struct {
		Code string `json:"code"`
	}
	err := r.client.Call("org_code", map[string]string{"org": org}, &result)
	if err != nil {
		return "", err
	}
	return result.Code, nil
}

// CriteriaService manages achievement criteria through the criteria service.
type CriteriaService struct {
	client *Client
}

func NewCriteriaService(client *Client) *CriteriaService {
	return &CriteriaService{client: client}
}

// Register implements bounty.CriteriaService.
func (c *CriteriaService) Register(org, identifier, display, description string, criteria, rewards []bounty.Asset, cyclic bool) error {
	return c.client.Call("criteria_register", map[string]interface{}{
		"org":         org,
		"identifier":  identifier,
		"displayName": display,
		"description": description,
		"criteria":    assetsJSON(criteria),
		"rewards":     assetsJSON(rewards),
		"cyclic":      cyclic,
	}, nil)
}

// Activate implements bounty.CriteriaService.
func (c *CriteriaService) Activate(org, identifier string) error {
	return c.client.Call("criteria_activate", map[string]string{"org": org, "identifier": identifier}, nil)
}

// Deactivate implements bounty.CriteriaService.
func (c *CriteriaService) Deactivate(org, identifier string) error {
	return c.client.Call("criteria_deactivate", map[string]string{"org": org, "identifier": identifier}, nil)
}

// BadgeService creates badges and wires notification consumers through the
// badge service.
type BadgeService struct {
	client *Client
}

func NewBadgeService(client *Client) *BadgeService {
	return &BadgeService{client: client}
}

// CreateBadge implements bounty.BadgeService.
func (b *BadgeService) CreateBadge(org, denomination, display, image, description, memo string) error {
	return b.client.Call("badge_create", map[string]string{
		"org":          org,
		"denomination": denomination,
		"displayName":  display,
		"image":        image,
		"description":  description,
		"memo":         memo,
	}, nil)
}

// RegisterFeature implements bounty.BadgeService.
func (b *BadgeService) RegisterFeature(org, denomination, notifyTarget string) error {
	return b.client.Call("badge_registerFeature", map[string]string{
		"org":          org,
		"denomination": denomination,
		"notifyTarget": notifyTarget,
	}, nil)
}

// ReviewService forwards submissions to the review workflow.
type ReviewService struct {
	client *Client
}

func NewReviewService(client *Client) *ReviewService {
	return &ReviewService{client: client}
}

// IngestRequest implements bounty.ReviewService.
func (r *ReviewService) IngestRequest(req bounty.ReviewRequest) error {
	return r.client.Call("review_ingest", map[string]interface{}{
		"origin":       req.Origin,
		"originKey":    req.OriginKey,
		"requester":    req.Requester,
		"reviewers":    req.Reviewers,
		"destination":  req.Destination,
		"denomination": req.Denomination,
		"amount":       req.Amount,
		"memo":         req.Memo,
		"reason":       req.Reason,
		"expiry":       req.Expiry,
	}, nil)
}

// TransferService executes outgoing transfers through a custodian gateway.
type TransferService struct {
	client *Client
}

func NewTransferService(client *Client) *TransferService {
	return &TransferService{client: client}
}

// Transfer implements bounty.TransferService.
func (t *TransferService) Transfer(custodian, from, to, token string, amount *big.Int, memo string) error {
	value := "0"
	if amount != nil {
		value = amount.String()
	}
	return t.client.Call("transfer_send", map[string]string{
		"custodian": custodian,
		"from":      from,
		"to":        to,
		"token":     token,
		"amount":    value,
		"memo":      memo,
	}, nil)
}

// ParticipantChecker runs the configured external participation check.
type ParticipantChecker struct {
	client *Client
}

func NewParticipantChecker(client *Client) *ParticipantChecker {
	return &ParticipantChecker{client: client}
}

// CheckParticipant implements bounty.ParticipantChecker.
func (p *ParticipantChecker) CheckParticipant(collaborator, entryPoint, scope, participant string) error {
	return p.client.Call("check_participant", map[string]string{
		"collaborator": collaborator,
		"entryPoint":   entryPoint,
		"scope":        scope,
		"participant":  participant,
	}, nil)
}
