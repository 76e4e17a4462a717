package bounty

import (
	"fmt"
	"math/big"
	"strings"
)

const basisPointDenominator = 10_000

// OnIncomingTransfer is the callback invoked by the external funds-transfer
// service for every transfer that names the engine. Transfers addressed
// elsewhere and transfers the engine itself originated are ignored. The memo
// must carry the bounty identifier, and the (custodian, token) pair must match
// one of the bounty's funding targets.
//
// Payer deposits accumulate toward the targets; a deposit that would push the
// cumulative total past its target is refunded in full with no state change.
// Non-payer deposits accumulate uncapped into the sender's pool entry once
// they meet the configured minimum fraction of the target.
func (e *Engine) OnIncomingTransfer(custodian, from, to, token string, amount *big.Int, memo string) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if to != e.self || from == e.self {
		return nil
	}
	if strings.TrimSpace(memo) == "" {
		return fmt.Errorf("bounty deposit: memo must carry the bounty identifier")
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("bounty deposit: amount must be positive")
	}
	record, err := e.loadBounty(memo)
	if err != nil {
		return err
	}
	targetIdx := findAsset(record.Targets, custodian, token)
	if targetIdx < 0 {
		return fmt.Errorf("bounty deposit: asset %s/%s is not accepted by bounty %s", custodian, token, record.ID)
	}
	target := record.Targets[targetIdx]

	if from == record.Payer {
		return e.acceptPayerDeposit(record, target, custodian, from, token, amount)
	}
	return e.acceptPoolDeposit(record, target, custodian, from, token, amount)
}

func (e *Engine) acceptPayerDeposit(record *Bounty, target Asset, custodian, from, token string, amount *big.Int) error {
	current := big.NewInt(0)
	depositIdx := findAsset(record.PayerDeposits, custodian, token)
	if depositIdx >= 0 {
		current = record.PayerDeposits[depositIdx].amountValue()
	}
	newTotal := new(big.Int).Add(current, amount)
	if newTotal.Cmp(target.Amount) > 0 {
		// The entire incoming amount bounces; accepting a partial slice
		// would leave the sender short without their consent.
		if e.transfers == nil {
			return errNilTransfers
		}
		if err := e.transfers.Transfer(custodian, e.self, from, token, amount, "Refund: deposit exceeds required amount"); err != nil {
			return fmt.Errorf("bounty deposit: refund excess: %w", err)
		}
		e.emit(newDepositEvent(EventTypeDepositRefunded, record, from, custodian, token, amount))
		return nil
	}
	if depositIdx >= 0 {
		record.PayerDeposits[depositIdx].Amount = newTotal
	} else {
		record.PayerDeposits = append(record.PayerDeposits, Asset{Custodian: custodian, Token: token, Amount: newTotal})
	}

	if record.Status == StatusInit && e.allTargetsMet(record) {
		record.Status = StatusDeposited
	}
	if err := e.storeBounty(record); err != nil {
		return err
	}
	e.emit(newDepositEvent(EventTypeDepositReceived, record, from, custodian, token, amount))
	if record.Status == StatusDeposited {
		e.emit(newBountyEvent(EventTypeBountyDeposited, record))
	}
	return nil
}

func (e *Engine) allTargetsMet(record *Bounty) bool {
	for _, target := range record.Targets {
		deposited := big.NewInt(0)
		if idx := findAsset(record.PayerDeposits, target.Custodian, target.Token); idx >= 0 {
			deposited = record.PayerDeposits[idx].amountValue()
		}
		if deposited.Cmp(target.Amount) < 0 {
			return false
		}
	}
	return true
}

func (e *Engine) acceptPoolDeposit(record *Bounty, target Asset, custodian, from, token string, amount *big.Int) error {
	if e.settings == nil {
		return errNilSettings
	}
	minBps, ok, err := e.settings.MinPoolDepositBasisPoints()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bounty deposit: minimum pool deposit setting not found")
	}
	minRequired := new(big.Int).Mul(target.Amount, new(big.Int).SetUint64(minBps))
	minRequired.Div(minRequired, big.NewInt(basisPointDenominator))
	if amount.Cmp(minRequired) < 0 {
		return fmt.Errorf("bounty deposit: amount below required minimum of %s %s", minRequired, token)
	}

	entry, found, err := e.state.PoolDepositGet(record.ID, from)
	if err != nil {
		return err
	}
	if !found {
		entry = &PoolDeposit{Account: from}
	}
	if idx := findAsset(entry.Deposits, custodian, token); idx >= 0 {
		entry.Deposits[idx].Amount = new(big.Int).Add(entry.Deposits[idx].amountValue(), amount)
	} else {
		entry.Deposits = append(entry.Deposits, Asset{Custodian: custodian, Token: token, Amount: new(big.Int).Set(amount)})
	}
	if err := e.state.PoolDepositPut(record.ID, entry); err != nil {
		return err
	}
	e.emit(newDepositEvent(EventTypePoolDeposit, record, from, custodian, token, amount))
	return nil
}

// Withdraw returns held funds to their depositor. The payer may withdraw the
// target-side deposits only once the bounty is closed; the withdrawal clears
// the deposit list. Any other principal may withdraw its pool entry at any
// time regardless of bounty status, erasing the entry.
func (e *Engine) Withdraw(account, bountyID string) error {
	record, err := e.loadBounty(bountyID)
	if err != nil {
		return err
	}
	if e.transfers == nil {
		return errNilTransfers
	}
	if account == record.Payer {
		if record.Status != StatusClosed {
			return fmt.Errorf("%w: payer withdrawal requires status %q, have %q", ErrWrongStatus, StatusClosed, record.Status)
		}
		for _, dep := range record.PayerDeposits {
			if err := e.transfers.Transfer(dep.Custodian, e.self, account, dep.Token, dep.amountValue(), "Payer withdrawal from bounty"); err != nil {
				return fmt.Errorf("bounty withdraw: %w", err)
			}
		}
		record.PayerDeposits = nil
		if err := e.storeBounty(record); err != nil {
			return err
		}
		e.emit(newBountyEvent(EventTypeBountyWithdrawn, record))
		return nil
	}

	entry, found, err := e.state.PoolDepositGet(record.ID, account)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("bounty withdraw: no pool deposit for %s in bounty %s", account, record.ID)
	}
	for _, dep := range entry.Deposits {
		if err := e.transfers.Transfer(dep.Custodian, e.self, account, dep.Token, dep.amountValue(), "Non-payer withdrawal from bounty pool"); err != nil {
			return fmt.Errorf("bounty withdraw: %w", err)
		}
	}
	if err := e.state.PoolDepositDelete(record.ID, account); err != nil {
		return err
	}
	e.emit(newPoolWithdrawnEvent(record, account))
	return nil
}
