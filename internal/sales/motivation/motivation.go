// Package motivation turns target progress into a short message for the
// salesperson.
package motivation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Input is the achievement state a message is chosen from.
type Input struct {
	OverallPct    float64
	MissedBy      int
	BaseIncentive float64
}

type bracket struct {
	min    float64
	render func(Input) string
}

// Brackets are checked top-down; the first with OverallPct >= min wins.
var brackets = []bracket{
	{min: 100, render: func(Input) string {
		return "Outstanding! You've hit your target. Every booking from here is bonus."
	}},
	{min: 90, render: func(in Input) string {
		if in.MissedBy <= 0 {
			return "So close! Your bookings are in; push the remaining metrics to reach your target."
		}
		return fmt.Sprintf("So close! Just %s away from your target. Finish strong!", bookingsLabel(in.MissedBy))
	}},
	{min: 70, render: func(Input) string {
		return "Good progress! Keep the momentum going to close out the period."
	}},
	{min: 50, render: func(in Input) string {
		return fmt.Sprintf("You're halfway there. Hit your target to unlock your %s incentive.", formatRupees(in.BaseIncentive))
	}},
}

const accelerate = "Time to accelerate! Prioritise hot leads and push site visits to catch up."

// Message picks the message for in. It is pure and deterministic.
func Message(in Input) string {
	for _, b := range brackets {
		if in.OverallPct >= b.min {
			return b.render(in)
		}
	}
	return accelerate
}

// DefaultMessage is shown when the salesperson has no open target.
func DefaultMessage() string {
	return "No active target yet. Keep working your leads and check back once a target is assigned."
}

func bookingsLabel(n int) string {
	if n == 1 {
		return "1 booking"
	}
	return fmt.Sprintf("%d bookings", n)
}

func formatRupees(amount float64) string {
	return "₹" + decimal.NewFromFloat(amount).StringFixed(2)
}
