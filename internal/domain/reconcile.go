package domain

import (
	"github.com/shopspring/decimal"
)

// GatePolicy carries the two reconciliation inputs the surrounding system
// supplies: the USD/LBP exchange rate and the closing tolerance, both
// explicit rather than baked-in constants.
type GatePolicy struct {
	Rate      decimal.Decimal
	Tolerance decimal.Decimal
}

// Validate rejects unusable policies at the boundary.
func (p GatePolicy) Validate() error {
	if err := ValidateRate(p.Rate); err != nil {
		return err
	}
	if p.Tolerance.IsNegative() {
		return ErrInvalidTolerance
	}
	return nil
}

// Net computes the expected closing balance for the day: the confirmed
// opening plus the signed contribution of every ledger entry, per currency.
// An empty ledger yields the opening unchanged, and the result is additive
// in every category regardless of entry order.
func Net(opening Amount, l Ledger) Amount {
	net := opening
	for _, t := range l.All() {
		net = net.Add(t.Contribution())
	}
	return net
}

// GateResult is the outcome of comparing a physical count against the
// computed net under a policy.
type GateResult struct {
	Net        Amount
	Counted    Amount
	Difference decimal.Decimal
	Allowed    bool
}

// CheckGate collapses both amounts to USD terms at the policy rate and
// allows closing only when the absolute difference is within tolerance.
func CheckGate(net, counted Amount, policy GatePolicy) (GateResult, error) {
	if err := policy.Validate(); err != nil {
		return GateResult{}, err
	}

	diff := counted.Total(policy.Rate).Sub(net.Total(policy.Rate)).Abs()

	return GateResult{
		Net:        net,
		Counted:    counted,
		Difference: diff,
		Allowed:    diff.LessThanOrEqual(policy.Tolerance),
	}, nil
}
