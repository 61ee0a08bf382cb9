package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Batch reports progress of a bulk operation over a known number of items.
type Batch struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	failed int
	done   int
	total  int
}

// NewBatch starts a progress bar for total items.
func NewBatch(w io.Writer, total int, description string) *Batch {
	b := &Batch{writer: w, total: total}
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return b
}

// Step records one processed item. A non-nil err counts it as failed.
func (b *Batch) Step(err error) {
	b.done++
	if err != nil {
		b.failed++
	}
	if addErr := b.bar.Add(1); addErr != nil {
		slog.Warn("Failed to update progress bar", "error", addErr)
	}
}

// Done returns the number of processed and failed items.
func (b *Batch) Done() (done, failed int) {
	return b.done, b.failed
}

// Finish closes the bar and prints a one-line result. An interrupted batch
// reports how far it got.
func (b *Batch) Finish(interrupted bool) {
	_ = b.bar.Close()
	var msg string
	switch {
	case interrupted:
		msg = FormatWarning(fmt.Sprintf("Interrupted after %d of %d", b.done, b.total))
	case b.failed > 0:
		msg = FormatWarning(fmt.Sprintf("%d of %d failed", b.failed, b.total))
	default:
		msg = FormatSuccess(fmt.Sprintf("Processed %d", b.done))
	}
	if _, err := fmt.Fprintln(b.writer, msg); err != nil {
		slog.Warn("Failed to write batch result", "error", err)
	}
}
