package metrics

import (
	"math/big"
	"strconv"

	"orgledger/core/events"
	"orgledger/core/types"
	"orgledger/native/bounty"
)

// Emitter wraps another emitter and records engine activity in the bounty
// metrics before forwarding each event.
type Emitter struct {
	next    events.Emitter
	metrics *BountyMetrics
}

// NewEmitter builds a metering emitter. A nil next discards events after
// counting them.
func NewEmitter(next events.Emitter) *Emitter {
	if next == nil {
		next = events.NoopEmitter{}
	}
	return &Emitter{next: next, metrics: Bounty()}
}

func attrAmount(evt *types.Event, key string) *big.Int {
	raw, ok := evt.Attributes[key]
	if !ok {
		return nil
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil
	}
	return amount
}

// Emit implements events.Emitter.
func (e *Emitter) Emit(evt events.Event) {
	e.metrics.ObserveEvent(evt.EventType())
	if payload, ok := evt.(interface{ Event() *types.Event }); ok {
		if typed := payload.Event(); typed != nil {
			e.observe(typed)
		}
	}
	e.next.Emit(evt)
}

func (e *Emitter) observe(evt *types.Event) {
	token := evt.Attributes["token"]
	switch evt.Type {
	case bounty.EventTypeBountyCreated:
		e.metrics.AddActiveBounties(1)
	case bounty.EventTypeBountyErased:
		e.metrics.AddActiveBounties(-1)
	case bounty.EventTypeDepositReceived, bounty.EventTypePoolDeposit:
		e.metrics.ObserveDeposit(token, attrAmount(evt, "amount"))
	case bounty.EventTypeDepositRefunded:
		e.metrics.ObserveRefund(token, attrAmount(evt, "amount"))
	case bounty.EventTypeDistributed:
		for i := 0; ; i++ {
			prefix := "payout." + strconv.Itoa(i) + "."
			payoutToken, ok := evt.Attributes[prefix+"token"]
			if !ok {
				break
			}
			e.metrics.ObservePayout(payoutToken, attrAmount(evt, prefix+"net"), attrAmount(evt, prefix+"fee"))
		}
	}
}
