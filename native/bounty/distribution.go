package bounty

import (
	"fmt"
	"math/big"
)

// payout is the accumulated per-asset result of one distribution round.
type payout struct {
	Custodian string
	Token     string
	Net       *big.Int
	Fee       *big.Int
}

// distributionPlan computes the transfers owed for one processed submission.
// Every deposit source is divided by the monotone approved counter: the payer
// deposit list with per-winner caps applied, then every pool entry uncapped.
// Nets and fees accumulate per (custodian, token) across all sources.
func (e *Engine) distributionPlan(record *Bounty) ([]payout, error) {
	approved := record.StateCount(StatusTagApproved)
	if approved == 0 {
		return nil, fmt.Errorf("bounty distribute: approved count must be greater than zero")
	}
	if e.settings == nil {
		return nil, errNilSettings
	}
	feeBps, ok, err := e.settings.FeeBasisPoints()
	if err != nil {
		return nil, err
	}
	if !ok {
		feeBps = 0
	}
	if e.treasury == "" {
		return nil, errNilTreasury
	}

	divisor := new(big.Int).SetUint64(approved)
	feeFactor := new(big.Int).SetUint64(feeBps)
	var plan []payout

	accumulate := func(custodian, token string, net, fee *big.Int) {
		for i := range plan {
			if plan[i].Custodian == custodian && plan[i].Token == token {
				plan[i].Net.Add(plan[i].Net, net)
				plan[i].Fee.Add(plan[i].Fee, fee)
				return
			}
		}
		plan = append(plan, payout{Custodian: custodian, Token: token, Net: net, Fee: fee})
	}

	process := func(deposits []Asset, applyCap bool) error {
		for _, dep := range deposits {
			if findAsset(record.Targets, dep.Custodian, dep.Token) < 0 {
				return fmt.Errorf("bounty distribute: deposit asset %s/%s is not a funding target", dep.Custodian, dep.Token)
			}
			perWinner := new(big.Int).Div(dep.amountValue(), divisor)
			if applyCap {
				if idx := findAsset(record.PayoutCaps, dep.Custodian, dep.Token); idx >= 0 {
					if limit := record.PayoutCaps[idx].amountValue(); perWinner.Cmp(limit) > 0 {
						perWinner = limit
					}
				}
			}
			fee := new(big.Int).Mul(perWinner, feeFactor)
			fee.Div(fee, big.NewInt(basisPointDenominator))
			net := new(big.Int).Sub(perWinner, fee)
			accumulate(dep.Custodian, dep.Token, net, fee)
		}
		return nil
	}

	if err := process(record.PayerDeposits, true); err != nil {
		return nil, err
	}
	entries, err := e.state.PoolDepositList(record.ID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if err := process(entry.Deposits, false); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// executePayouts performs one outgoing transfer per accumulated net total to
// the winner and per accumulated fee total to the treasury. Non-positive
// amounts are skipped. It runs before the staged record is persisted, so a
// failed transfer leaves the stored counters untouched.
func (e *Engine) executePayouts(winner string, plan []payout) error {
	if e.transfers == nil {
		return errNilTransfers
	}
	for _, p := range plan {
		if p.Net != nil && p.Net.Sign() > 0 {
			if err := e.transfers.Transfer(p.Custodian, e.self, winner, p.Token, p.Net, "Distribution from bounty"); err != nil {
				return fmt.Errorf("bounty distribute: %w", err)
			}
		}
	}
	for _, p := range plan {
		if p.Fee != nil && p.Fee.Sign() > 0 {
			if err := e.transfers.Transfer(p.Custodian, e.self, e.treasury, p.Token, p.Fee, "Fee from distribution"); err != nil {
				return fmt.Errorf("bounty distribute: %w", err)
			}
		}
	}
	return nil
}
