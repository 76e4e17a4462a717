package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type BountyMetrics struct {
	eventsEmitted  *prometheus.CounterVec
	depositsTotal  *prometheus.CounterVec
	refundsTotal   *prometheus.CounterVec
	payoutsTotal   *prometheus.CounterVec
	feesTotal      *prometheus.CounterVec
	activeBounties prometheus.Gauge
}

var (
	bountyOnce     sync.Once
	bountyRegistry *BountyMetrics
)

func Bounty() *BountyMetrics {
	bountyOnce.Do(func() {
		bountyRegistry = &BountyMetrics{
			eventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "bounty_events_emitted_total",
				Help: "Count of engine events emitted by type.",
			}, []string{"type"}),
			depositsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "bounty_deposits_total",
				Help: "Sum of accepted deposit amounts by token.",
			}, []string{"token"}),
			refundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "bounty_refunds_total",
				Help: "Sum of refunded deposit amounts by token.",
			}, []string{"token"}),
			payoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "bounty_payouts_total",
				Help: "Sum of distributed net amounts by token.",
			}, []string{"token"}),
			feesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "bounty_fees_total",
				Help: "Sum of distribution fees forwarded to the treasury by token.",
			}, []string{"token"}),
			activeBounties: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "bounty_active",
				Help: "Number of bounty records currently custodied.",
			}),
		}
		prometheus.MustRegister(
			bountyRegistry.eventsEmitted,
			bountyRegistry.depositsTotal,
			bountyRegistry.refundsTotal,
			bountyRegistry.payoutsTotal,
			bountyRegistry.feesTotal,
			bountyRegistry.activeBounties,
		)
	})
	return bountyRegistry
}

func (m *BountyMetrics) ObserveEvent(eventType string) {
	if m == nil {
		return
	}
	m.eventsEmitted.WithLabelValues(eventType).Inc()
}

func addAmount(vec *prometheus.CounterVec, token string, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	value, _ := new(big.Float).SetInt(amount).Float64()
	vec.WithLabelValues(token).Add(value)
}

func (m *BountyMetrics) ObserveDeposit(token string, amount *big.Int) {
	if m == nil {
		return
	}
	addAmount(m.depositsTotal, token, amount)
}

func (m *BountyMetrics) ObserveRefund(token string, amount *big.Int) {
	if m == nil {
		return
	}
	addAmount(m.refundsTotal, token, amount)
}

func (m *BountyMetrics) ObservePayout(token string, net, fee *big.Int) {
	if m == nil {
		return
	}
	addAmount(m.payoutsTotal, token, net)
	addAmount(m.feesTotal, token, fee)
}

func (m *BountyMetrics) AddActiveBounties(delta float64) {
	if m == nil {
		return
	}
	m.activeBounties.Add(delta)
}
