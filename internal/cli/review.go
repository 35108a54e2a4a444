package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/tally-fin/tally/internal/bus"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

// Reviewer walks the drafts parsed from a receipt and confirms each with
// the user before anything is persisted. Accepted drafts are created one at
// a time and broadcast on the mutation bus, so an interrupt mid-review
// never loses confirmed entries.
type Reviewer struct {
	startTime   time.Time
	writer      io.Writer
	reader      *LineReader
	svc         service.TransactionService
	bus         *bus.Bus
	progressBar *progressbar.ProgressBar
}

// ReviewStats summarizes one review run.
type ReviewStats struct {
	Accepted int
	Skipped  int
}

// NewReviewer creates a reviewer over the given streams. Nil reader/writer
// default to stdin/stdout.
func NewReviewer(svc service.TransactionService, b *bus.Bus, reader io.Reader, writer io.Writer) *Reviewer {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Reviewer{
		reader:    NewLineReader(reader),
		writer:    writer,
		svc:       svc,
		bus:       b,
		startTime: time.Now(),
	}
}

// Review walks every draft. It returns the stats accumulated so far even
// when the context is canceled partway through.
func (r *Reviewer) Review(ctx context.Context, result service.ReceiptResult) (ReviewStats, error) {
	var stats ReviewStats

	if len(result.Drafts) == 0 {
		fmt.Fprintln(r.writer, FormatWarning("No line items could be parsed from this receipt."))
		return stats, nil
	}

	fmt.Fprintln(r.writer, TitleStyle.Render(fmt.Sprintf("%s Parsed %d candidate entries", ReceiptIcon, len(result.Drafts))))
	r.initProgressBar(len(result.Drafts))

	for i, draft := range result.Drafts {
		accepted, err := r.reviewOne(ctx, i+1, draft)
		if err != nil {
			if errors.Is(err, ErrInputCancelled) || errors.Is(err, context.Canceled) {
				return stats, err
			}
			fmt.Fprintln(r.writer, FormatError(err.Error()))
			stats.Skipped++
		} else if accepted {
			stats.Accepted++
		} else {
			stats.Skipped++
		}
		r.advanceProgress()
	}

	r.showSummary(stats)
	return stats, nil
}

// reviewOne prompts for a single draft. Returns whether it was accepted.
func (r *Reviewer) reviewOne(ctx context.Context, n int, draft model.TransactionDraft) (bool, error) {
	for {
		fmt.Fprintln(r.writer, RenderBox(fmt.Sprintf("Entry %d", n), formatDraft(draft)))
		fmt.Fprintln(r.writer, "  [A] Accept    [M] Modify amount    [C] Change category    [S] Skip")
		fmt.Fprint(r.writer, FormatPrompt("Choice"))

		line, err := r.reader.ReadLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "":
			if err := r.accept(ctx, draft); err != nil {
				return false, err
			}
			return true, nil

		case "m":
			fmt.Fprint(r.writer, FormatPrompt("New amount"))
			raw, rerr := r.reader.ReadLine(ctx)
			if rerr != nil {
				return false, rerr
			}
			amount, perr := model.ParseAmount(raw)
			if perr != nil {
				fmt.Fprintln(r.writer, FormatError(perr.Error()))
				continue
			}
			draft.Amount = amount

		case "c":
			fmt.Fprint(r.writer, FormatPrompt("New category"))
			category, rerr := r.reader.ReadLine(ctx)
			if rerr != nil {
				return false, rerr
			}
			if category != "" {
				draft.Category = category
			}

		case "s":
			return false, nil

		default:
			fmt.Fprintln(r.writer, FormatWarning("Please choose A, M, C, or S."))
		}
	}
}

// accept persists one draft and broadcasts the created record.
func (r *Reviewer) accept(ctx context.Context, draft model.TransactionDraft) error {
	created, err := r.svc.CreateTransaction(ctx, draft)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}
	if r.bus != nil {
		r.bus.Publish(bus.Event{Kind: bus.TransactionCreated, Transaction: created})
	}
	fmt.Fprintln(r.writer, FormatSuccess(fmt.Sprintf("Added %.2f to %s", created.Amount, created.Category)))
	return nil
}

func (r *Reviewer) initProgressBar(total int) {
	r.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reviewing entries...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(r.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func (r *Reviewer) advanceProgress() {
	if r.progressBar != nil {
		if err := r.progressBar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
}

func (r *Reviewer) showSummary(stats ReviewStats) {
	summary := fmt.Sprintf("  • Accepted: %d\n", stats.Accepted) +
		fmt.Sprintf("  • Skipped: %d\n", stats.Skipped) +
		fmt.Sprintf("  • Time taken: %s\n", time.Since(r.startTime).Round(time.Second))

	if _, err := fmt.Fprintln(r.writer, RenderBox("Import Complete", summary)); err != nil {
		slog.Warn("Failed to write completion box", "error", err)
	}
}

func formatDraft(d model.TransactionDraft) string {
	date := "today"
	if !d.Date.IsZero() {
		date = d.Date.Format("Jan 2, 2006")
	}
	category := d.Category
	if category == "" {
		category = SubtleStyle.Render("(uncategorized)")
	}
	note := d.Note
	if note == "" {
		note = SubtleStyle.Render("(no note)")
	}
	return fmt.Sprintf("  Amount: %s\n  Type: %s\n  Category: %s\n  Date: %s\n  Note: %s",
		BoldStyle.Render(fmt.Sprintf("%.2f", d.Amount)), d.Type, category, date, note)
}
