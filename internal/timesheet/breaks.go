package timesheet

import (
	"fmt"
	"time"
)

// BreakTier deducts Deduction once worked time exceeds Over.
type BreakTier struct {
	Over      time.Duration
	Deduction time.Duration
}

// BreakPolicy is the unpaid-break schedule, tiers in ascending order.
type BreakPolicy []BreakTier

// StatutoryBreaks: nothing up to 6h, 30m above 6h up to 9h, 45m above 9h.
var StatutoryBreaks = BreakPolicy{
	{Over: 6 * time.Hour, Deduction: 30 * time.Minute},
	{Over: 9 * time.Hour, Deduction: 45 * time.Minute},
}

// Deduction returns the break to subtract from worked. A tier applies only
// when worked is strictly longer than its threshold, compared in whole
// minutes. The sheets compute breaks with Formula; Deduction is the Go
// reference the formula is checked against.
func (p BreakPolicy) Deduction(worked time.Duration) time.Duration {
	minutes := worked.Round(time.Minute)
	var d time.Duration
	for _, tier := range p {
		if minutes > tier.Over {
			d = tier.Deduction
		}
	}
	return d
}

// Formula renders the policy for a span given as spreadsheet day fractions.
// The span is rounded to whole minutes before comparing, so 17:00-08:00
// does not drift above 9h through floating point.
func (p BreakPolicy) Formula(span string) string {
	minutes := fmt.Sprintf("ROUND((%s)*1440,0)", span)
	expr := "0"
	for _, tier := range p {
		expr = fmt.Sprintf("IF(%s>%d,%s,%s)", minutes, int(tier.Over.Minutes()), timeLiteral(tier.Deduction), expr)
	}
	return expr
}

// timeLiteral renders d as a TIME() call.
func timeLiteral(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("TIME(%d,%d,0)", h, m)
}
