package bounty

import (
	"fmt"
	"math/big"
	"strconv"

	"orgledger/core/types"
)

const (
	EventTypeBountyCreated    = "bounty.created"
	EventTypeBountyConfigured = "bounty.configured"
	EventTypeBadgeBound       = "bounty.badge_bound"
	EventTypeBountyDeposited  = "bounty.deposited"
	EventTypeDepositReceived  = "bounty.deposit.received"
	EventTypeDepositRefunded  = "bounty.deposit.refunded"
	EventTypePoolDeposit      = "bounty.deposit.pool"
	EventTypeSignup           = "bounty.signup"
	EventTypeSignupCancelled  = "bounty.signup_cancelled"
	EventTypeSubmitted        = "bounty.submitted"
	EventTypeStatusChanged    = "bounty.status_changed"
	EventTypeDistributed      = "bounty.distributed"
	EventTypeBountyClosed     = "bounty.closed"
	EventTypeBountyWithdrawn  = "bounty.withdrawn"
	EventTypePoolWithdrawn    = "bounty.pool_withdrawn"
	EventTypeBountyErased     = "bounty.erased"
)

// eventPayload wraps a types.Event so the engine can hand it to the generic
// emitter interface.
type eventPayload struct {
	evt *types.Event
}

func (p eventPayload) EventType() string {
	if p.evt == nil {
		return ""
	}
	return p.evt.Type
}

// Event returns the underlying typed event.
func (p eventPayload) Event() *types.Event { return p.evt }

func baseAttributes(b *Bounty) map[string]string {
	attrs := make(map[string]string)
	if b == nil {
		return attrs
	}
	attrs["id"] = b.ID
	attrs["org"] = b.Org
	attrs["status"] = string(b.Status)
	attrs["payer"] = b.Payer
	attrs["participants"] = strconv.FormatUint(b.ParticipantCount, 10)
	return attrs
}

func newBountyEvent(eventType string, b *Bounty) eventPayload {
	return eventPayload{evt: &types.Event{Type: eventType, Attributes: baseAttributes(b)}}
}

func newBadgeBoundEvent(b *Bounty, badge string) eventPayload {
	attrs := baseAttributes(b)
	attrs["badge"] = badge
	return eventPayload{evt: &types.Event{Type: EventTypeBadgeBound, Attributes: attrs}}
}

func newDepositEvent(eventType string, b *Bounty, from, custodian, token string, amount *big.Int) eventPayload {
	attrs := baseAttributes(b)
	attrs["from"] = from
	attrs["custodian"] = custodian
	attrs["token"] = token
	if amount != nil {
		attrs["amount"] = amount.String()
	}
	return eventPayload{evt: &types.Event{Type: eventType, Attributes: attrs}}
}

func newParticipantEvent(eventType string, b *Bounty, participant, reason string) eventPayload {
	attrs := baseAttributes(b)
	attrs["participant"] = participant
	if reason != "" {
		attrs["reason"] = reason
	}
	return eventPayload{evt: &types.Event{Type: eventType, Attributes: attrs}}
}

func newStatusEvent(b *Bounty, requester string, requestID uint64, oldStatus, newStatus string) eventPayload {
	attrs := baseAttributes(b)
	attrs["requester"] = requester
	attrs["requestId"] = strconv.FormatUint(requestID, 10)
	attrs["oldStatus"] = oldStatus
	attrs["newStatus"] = newStatus
	return eventPayload{evt: &types.Event{Type: EventTypeStatusChanged, Attributes: attrs}}
}

func newDistributionEvent(b *Bounty, winner string, plan []payout) eventPayload {
	attrs := baseAttributes(b)
	attrs["winner"] = winner
	for i, p := range plan {
		prefix := fmt.Sprintf("payout.%d.", i)
		attrs[prefix+"custodian"] = p.Custodian
		attrs[prefix+"token"] = p.Token
		if p.Net != nil {
			attrs[prefix+"net"] = p.Net.String()
		}
		if p.Fee != nil {
			attrs[prefix+"fee"] = p.Fee.String()
		}
	}
	return eventPayload{evt: &types.Event{Type: EventTypeDistributed, Attributes: attrs}}
}

func newPoolWithdrawnEvent(b *Bounty, account string) eventPayload {
	attrs := baseAttributes(b)
	attrs["account"] = account
	return eventPayload{evt: &types.Event{Type: EventTypePoolWithdrawn, Attributes: attrs}}
}
