package bounty

import (
	"fmt"
	"strings"
)

// Submit records a submission for an active participant and forwards it to
// the external review workflow. The request travels with the bounty's
// reviewers, the badge denomination at one unit, and the settlement deadline
// as its expiry; the origin key is the lower-cased bounty identifier.
func (e *Engine) Submit(participant, bountyID, reason string) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	now := e.now()
	if now < record.ParticipationStart {
		return fmt.Errorf("bounty submit: participation period has not started")
	}
	if now >= record.ParticipationEnd {
		return fmt.Errorf("bounty submit: participation period has ended")
	}
	if record.Status != StatusDeposited {
		return fmt.Errorf("%w: submit requires status %q, have %q", ErrWrongStatus, StatusDeposited, record.Status)
	}
	if record.Participants[participant] != 1 {
		return fmt.Errorf("bounty submit: %s has not signed up", participant)
	}
	current := record.Submissions[participant]
	if current >= record.MaxSubmissionsPerParticipant {
		return fmt.Errorf("bounty submit: maximum of %d submissions reached for %s", record.MaxSubmissionsPerParticipant, participant)
	}
	if e.reviews == nil {
		return errNilReviews
	}
	record.Submissions[participant] = current + 1

	req := ReviewRequest{
		Origin:       e.self,
		OriginKey:    strings.ToLower(record.ID),
		Requester:    participant,
		Reviewers:    append([]string(nil), record.Reviewers...),
		Destination:  participant,
		Denomination: record.BadgeRef,
		Amount:       1,
		Memo:         "completed bounty",
		Reason:       reason,
		Expiry:       record.SettlementDeadline,
	}
	if err := e.reviews.IngestRequest(req); err != nil {
		return fmt.Errorf("bounty submit: ingest request: %w", err)
	}
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newParticipantEvent(EventTypeSubmitted, record, participant, reason))
	return nil
}

// HandleStatus is the callback the review workflow invokes on every status
// transition of a request that originated here. The old-status counter is
// decremented unless the old status is the blank sentinel or the transition is
// approved → processed: the approved counter is a monotone high-water mark
// that distribution uses as a stable divisor, not a live remaining-count. A
// processed transition triggers distribution to the requester; a withdrawn
// transition releases one of the requester's submission slots.
func (e *Engine) HandleStatus(requester string, requestID uint64, origin, originKey, oldStatus, newStatus string) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	record, err := e.loadBounty(NormalizeID(originKey))
	if err != nil {
		return err
	}
	if oldStatus != StatusTagBlank && !(oldStatus == StatusTagApproved && newStatus == StatusTagProcessed) {
		if count := record.StateCounts[oldStatus]; count > 0 {
			record.StateCounts[oldStatus] = count - 1
		}
	}
	record.StateCounts[newStatus]++

	if newStatus == StatusTagWithdrawn {
		if count := record.Submissions[requester]; count > 0 {
			if count == 1 {
				delete(record.Submissions, requester)
			} else {
				record.Submissions[requester] = count - 1
			}
		}
	}

	var plan []payout
	if newStatus == StatusTagProcessed {
		plan, err = e.distributionPlan(record)
		if err != nil {
			return err
		}
		if err := e.executePayouts(requester, plan); err != nil {
			return err
		}
	}
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newStatusEvent(record, requester, requestID, oldStatus, newStatus))
	if newStatus == StatusTagProcessed {
		e.emit(newDistributionEvent(record, requester, plan))
	}
	return nil
}
