package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/pledge/internal/core/alerts"
	"github.com/example/pledge/internal/core/integrity"
	"github.com/example/pledge/internal/core/schedule"
	"github.com/example/pledge/internal/ports/primary"
)

var (
	titleColor    = color.New(color.Bold)
	criticalColor = color.New(color.FgRed, color.Bold)
	alertColor    = color.New(color.FgYellow)
)

func bandColor(b integrity.Band) *color.Color {
	switch b {
	case integrity.BandHigh:
		return color.New(color.FgGreen)
	case integrity.BandModerate:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// RenderReview writes a review as colored text.
func RenderReview(w io.Writer, r *primary.Review) {
	s := r.Summary

	fmt.Fprintln(w, titleColor.Sprint(r.Title))
	fmt.Fprintf(w, "%s to %s, as of %s\n\n",
		schedule.FormatDate(s.Start), schedule.FormatDate(s.End), schedule.FormatDate(s.AsOf))

	fmt.Fprintf(w, "Score: %s\n", bandColor(s.Band).Sprintf("%d/100 (%s)", s.Score, s.Band.Label()))
	fmt.Fprintf(w, "Kept: %d of %d (%s)\n", s.Actual, s.Target, percent(s.KeptRatio))
	fmt.Fprintf(w, "Units: %d motion, %d action over %d logged days\n", s.MotionUnits, s.ActionUnits, s.DaysLogged)
	if s.EnergyEntries > 0 {
		fmt.Fprintf(w, "Energy: %.1f/5 across %d entries\n", s.AverageEnergy, s.EnergyEntries)
	}
	fmt.Fprintln(w)

	if len(s.Goals) == 0 {
		fmt.Fprintln(w, "No promises in this period.")
		fmt.Fprintln(w)
	}
	for _, g := range s.Goals {
		fmt.Fprintf(w, "%s: %d/%d (%s)\n", titleColor.Sprint(g.GoalText), g.Actual, g.Target, percent(g.Ratio))
		for _, p := range g.Promises {
			fmt.Fprintf(w, "  - %s [%s] %d/%d (%s), streak %d\n",
				p.Text, p.Type, p.Actual, p.Target, percent(p.Ratio), p.Streak)
		}
		fmt.Fprintln(w)
	}

	if len(r.Alerts) == 0 {
		fmt.Fprintln(w, "Alerts: none")
		return
	}
	fmt.Fprintln(w, "Alerts:")
	for _, a := range r.Alerts {
		if alerts.IsCritical(a) {
			fmt.Fprintf(w, "  ! %s\n", criticalColor.Sprint(a))
		} else {
			fmt.Fprintf(w, "  - %s\n", alertColor.Sprint(a))
		}
	}
}
