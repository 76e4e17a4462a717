package bounty

import (
	"fmt"
)

// Signup admits a participant during the participation window. The bounty must
// be fully funded and its badge bound. Closed mode requires the principal to
// already be on the allow-list; external mode delegates the admission decision
// to the configured collaborator; open mode admits anyone, treating repeat
// signups as a no-op.
func (e *Engine) Signup(participant, bountyID, reason string) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	now := e.now()
	if now < record.ParticipationStart {
		return fmt.Errorf("bounty signup: participation period has not started")
	}
	if now >= record.ParticipationEnd {
		return fmt.Errorf("bounty signup: participation period has ended")
	}
	if record.Status != StatusDeposited {
		return fmt.Errorf("%w: signup requires status %q, have %q", ErrWrongStatus, StatusDeposited, record.Status)
	}
	if record.BadgeRef == "" {
		return fmt.Errorf("bounty signup: badge not bound yet")
	}

	switch record.ParticipationMode {
	case ParticipationClosed:
		flag, ok := record.Participants[participant]
		if !ok {
			return fmt.Errorf("bounty signup: %s is not on the closed participant list", participant)
		}
		if flag == 1 {
			return nil
		}
	case ParticipationExternal:
		if record.ExternalCheck == nil || record.ExternalCheck.empty() {
			return fmt.Errorf("bounty signup: external participant check not configured")
		}
		if e.checker == nil {
			return fmt.Errorf("bounty engine: participant checker not configured")
		}
		if err := e.checker.CheckParticipant(record.ExternalCheck.Collaborator, record.ExternalCheck.EntryPoint, record.ExternalCheck.Scope, participant); err != nil {
			return fmt.Errorf("bounty signup: external check rejected %s: %w", participant, err)
		}
		if _, ok := record.Participants[participant]; ok {
			return nil
		}
	default:
		if _, ok := record.Participants[participant]; ok {
			return nil
		}
	}

	if record.CapacityMode == CapacityLimited && record.ParticipantCount+1 > record.MaxParticipants {
		return fmt.Errorf("bounty signup: maximum of %d participants reached", record.MaxParticipants)
	}
	record.Participants[participant] = 1
	record.ParticipantCount++
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newParticipantEvent(EventTypeSignup, record, participant, reason))
	return nil
}

// CancelSignup withdraws an active participant that has no recorded
// submissions. Closed mode zeroes the flag and keeps the allow-list entry;
// open and external modes erase the entry.
func (e *Engine) CancelSignup(participant, bountyID, reason string) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	flag, ok := record.Participants[participant]
	if !ok || flag != 1 {
		return fmt.Errorf("bounty cancelsignup: %s is not signed up", participant)
	}
	if record.Submissions[participant] > 0 {
		return fmt.Errorf("bounty cancelsignup: %s already has recorded submissions", participant)
	}
	if record.ParticipantCount == 0 {
		return fmt.Errorf("bounty cancelsignup: participant count is already zero")
	}
	if record.ParticipationMode == ParticipationClosed {
		record.Participants[participant] = 0
	} else {
		delete(record.Participants, participant)
	}
	record.ParticipantCount--
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newParticipantEvent(EventTypeSignupCancelled, record, participant, reason))
	return nil
}
