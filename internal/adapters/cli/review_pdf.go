package cli

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/example/pledge/internal/core/alerts"
	"github.com/example/pledge/internal/core/schedule"
	"github.com/example/pledge/internal/ports/primary"
)

// WriteReviewPDF renders a review as a one-column A4 report.
func WriteReviewPDF(w io.Writer, r *primary.Review, compress bool) error {
	s := r.Summary

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(r.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(r.Title))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("%s to %s, as of %s",
		schedule.FormatDate(s.Start), schedule.FormatDate(s.End), schedule.FormatDate(s.AsOf)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Score: %d/100 (%s)", s.Score, s.Band.Label()))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Kept: %d of %d (%s)", s.Actual, s.Target, percent(s.KeptRatio)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Units: %d motion, %d action over %d logged days", s.MotionUnits, s.ActionUnits, s.DaysLogged))
	pdf.Ln(7)
	if s.EnergyEntries > 0 {
		pdf.Cell(0, 8, fmt.Sprintf("Energy: %.1f/5 across %d entries", s.AverageEnergy, s.EnergyEntries))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	for _, g := range s.Goals {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 9, tr(fmt.Sprintf("%s: %d/%d (%s)", g.GoalText, g.Actual, g.Target, percent(g.Ratio))))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		for _, p := range g.Promises {
			pdf.Cell(0, 7, tr(fmt.Sprintf("    %s [%s] %d/%d (%s), streak %d",
				p.Text, p.Type, p.Actual, p.Target, percent(p.Ratio), p.Streak)))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 9, "Alerts")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	if len(r.Alerts) == 0 {
		pdf.Cell(0, 7, "None")
		pdf.Ln(6)
	}
	for _, a := range r.Alerts {
		if alerts.IsCritical(a) {
			pdf.SetTextColor(180, 0, 0)
		}
		pdf.MultiCell(0, 7, tr(a), "", "", false)
		pdf.SetTextColor(0, 0, 0)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render review PDF: %w", err)
	}
	return nil
}
