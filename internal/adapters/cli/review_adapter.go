package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/example/pledge/internal/ports/primary"
)

// ReviewAdapter translates review commands to ReviewService calls.
type ReviewAdapter struct {
	service primary.ReviewService
	out     io.Writer
}

// NewReviewAdapter creates a new ReviewAdapter.
func NewReviewAdapter(service primary.ReviewService, out io.Writer) *ReviewAdapter {
	return &ReviewAdapter{
		service: service,
		out:     out,
	}
}

// Show runs a review and prints it. With pdfPath set the review is also
// written there as a PDF.
func (a *ReviewAdapter) Show(ctx context.Context, req primary.ReviewRequest, pdfPath string) error {
	review, err := a.service.Review(ctx, req)
	if err != nil {
		return err
	}
	RenderReview(a.out, review)

	if pdfPath == "" {
		return nil
	}
	f, err := os.Create(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", pdfPath, err)
	}
	if err := WriteReviewPDF(f, review, true); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", pdfPath, err)
	}
	fmt.Fprintf(a.out, "\n✓ PDF written to %s\n", pdfPath)
	return nil
}
