// Package alerts turns a period's logs and summary into advisory diagnostics.
// Alerts never block writes. Each alert is "<TITLE>: <detail>"; consumers
// detect criticality by the tag text, so the tags below are stable.
package alerts

import (
	"fmt"
	"strings"

	"github.com/example/pledge/internal/core/integrity"
	"github.com/example/pledge/internal/core/schedule"
)

// Tags matched by consumers.
const (
	TagCritical = "CRITICAL"
	TagTrap     = "TRAP"
)

// Alert titles.
const (
	TitleNoEngagement = "NO ENGAGEMENT"
	TitleAtRisk       = "AT RISK"
	TitleTrap         = TagCritical + " " + TagTrap
	TitleSelfHonesty  = "SELF-HONESTY"
)

// Thresholds.
const (
	AtRiskDaysLeft         = 3
	TrapMinWeeks           = 2
	TrapMaxRatio           = 0.1
	LowEnergy              = 2.5
	MinEnergyEntries       = 3
	HighUnitsPerDay        = 5.0
	FallingEnergyThreshold = -1.0
)

// IsCritical reports whether an alert carries the critical tag.
func IsCritical(alert string) bool {
	return strings.Contains(alert, TagCritical)
}

// GenerateAlerts evaluates every rule in a fixed order: engagement, then
// per promise in summary order (at risk, trap), then self-honesty.
func GenerateAlerts(logs []integrity.Log, summary integrity.PeriodSummary) []string {
	var out []string

	if len(logs) == 0 {
		out = append(out, format(TitleNoEngagement, fmt.Sprintf("nothing was logged between %s and %s",
			schedule.FormatDate(summary.Start), schedule.FormatDate(summary.End))))
	}

	for _, p := range summary.Promises() {
		if a, ok := atRisk(p); ok {
			out = append(out, a)
		}
		if a, ok := trap(p); ok {
			out = append(out, a)
		}
	}

	if a, ok := selfHonesty(summary); ok {
		out = append(out, a)
	}
	return out
}

func format(title, detail string) string {
	return title + ": " + detail
}

func atRisk(p integrity.PromiseSummary) (string, bool) {
	if p.Type != schedule.TypeWeekly || p.ThisWeek == nil {
		return "", false
	}
	w := *p.ThisWeek
	need := w.Needed()
	if need == 0 || w.DaysLeft > AtRiskDaysLeft {
		return "", false
	}
	return format(TitleAtRisk, fmt.Sprintf("%q needs %d more of %d this week with %d %s left",
		p.Text, need, w.Target, w.DaysLeft, plural(w.DaysLeft, "day", "days"))), true
}

func trap(p integrity.PromiseSummary) (string, bool) {
	weeks := 0
	for _, w := range p.Weeks {
		if !w.Elapsed || w.Target == 0 {
			continue
		}
		if w.Ratio > TrapMaxRatio {
			return "", false
		}
		weeks++
	}
	if weeks < TrapMinWeeks {
		return "", false
	}
	return format(TitleTrap, fmt.Sprintf("%q has been kept %d of %d times across %d weeks",
		p.Text, p.Actual, p.Target, weeks)), true
}

func selfHonesty(s integrity.PeriodSummary) (string, bool) {
	if s.EnergyEntries < MinEnergyEntries {
		return "", false
	}
	units := s.UnitsPerLoggedDay()
	switch {
	case s.AverageEnergy <= LowEnergy && units >= HighUnitsPerDay:
		return format(TitleSelfHonesty, fmt.Sprintf("average energy %.1f/5 but %.1f units logged per day; check the units reflect real progress",
			s.AverageEnergy, units)), true
	case s.EnergyTrend <= FallingEnergyThreshold && s.UnitsTrend > 0:
		return format(TitleSelfHonesty, fmt.Sprintf("energy fell by %.1f while logged units rose by %.1f per day",
			-s.EnergyTrend, s.UnitsTrend)), true
	}
	return "", false
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
