// Package tracker runs the configured trackers: it fetches every tracked
// entity in order, renders one block per entity and assembles the message.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	apperrors "telegram-alerts/internal/errors"
	"telegram-alerts/internal/format"
	"telegram-alerts/internal/logging"
	"telegram-alerts/internal/metrics"
	"telegram-alerts/internal/models"
	"telegram-alerts/internal/spinny"
)

// Tracker is one configured group of entities rendered into one message.
type Tracker struct {
	Name        string
	Kind        models.EntityKind
	Title       string // e.g. "🚗 Spinny Car Price Update"
	Subject     string // plural noun for the empty search line, e.g. "Tiguans"
	FooterLabel string
	Entities    []models.TrackedEntity
}

// Runner drives fetch → format for each tracker. It is sequential.
type Runner struct {
	fetcher  spinny.Fetcher
	opts     format.Options
	logger   zerolog.Logger
	recorder metrics.Recorder
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the time source used for footers.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRecorder reports fetch outcomes to rec.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// NewRunner creates a Runner.
func NewRunner(fetcher spinny.Fetcher, opts format.Options, logger zerolog.Logger, options ...Option) *Runner {
	r := &Runner{
		fetcher:  fetcher,
		opts:     opts,
		logger:   logger,
		recorder: metrics.Nop{},
		now:      time.Now,
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// Run processes every entity of t in configuration order. Entity failures
// become warning blocks; only an empty entity list is an error.
func (r *Runner) Run(ctx context.Context, t Tracker) (format.Message, error) {
	if len(t.Entities) == 0 {
		return format.Message{}, apperrors.ErrNoEntities
	}

	logger := logging.WithTracker(r.logger, t.Name)
	switch t.Kind {
	case models.KindSearch:
		return r.runSearch(ctx, logger, t), nil
	default:
		return r.runListings(ctx, logger, t), nil
	}
}

func (r *Runner) fetch(ctx context.Context, logger zerolog.Logger, t Tracker, e models.TrackedEntity) models.FetchResult {
	start := time.Now()
	var res models.FetchResult
	if t.Kind == models.KindSearch {
		res = r.fetcher.SearchCity(ctx, e)
	} else {
		res = r.fetcher.FetchListing(ctx, e)
	}
	r.recorder.RecordFetch(t.Name, res.OK(), time.Since(start))
	logging.LogFetchResult(logger, e.ID, res.Count, res.Err)
	return res
}

func (r *Runner) runListings(ctx context.Context, logger zerolog.Logger, t Tracker) format.Message {
	blocks := make([]format.Block, 0, len(t.Entities))
	found := 0
	for _, e := range t.Entities {
		res := r.fetch(ctx, logger, t, e)
		if !res.OK() || len(res.Cars) == 0 {
			blocks = append(blocks, format.FailureBlock(e))
			continue
		}
		found++
		blocks = append(blocks, format.ListingBlock(e, res.Cars[0], r.opts))
	}
	r.recorder.RecordCarsFound(t.Name, found)

	return format.Message{
		Title:       t.Title,
		Blocks:      blocks,
		Separator:   format.CarSeparator,
		FooterLabel: t.FooterLabel,
		GeneratedAt: r.now(),
	}
}

func (r *Runner) runSearch(ctx context.Context, logger zerolog.Logger, t Tracker) format.Message {
	var blocks []format.Block
	total, failed := 0, 0
	for _, e := range t.Entities {
		res := r.fetch(ctx, logger, t, e)
		if !res.OK() {
			failed++
			blocks = append(blocks, format.FailureBlock(e))
			continue
		}
		if res.Count <= 0 || len(res.Cars) == 0 {
			continue
		}
		total += res.Count
		blocks = append(blocks, format.SearchCityBlock(e, res.Cars, r.opts))
	}
	r.recorder.RecordCarsFound(t.Name, total)
	logger.Info().Int("total", total).Int("failed", failed).Int("cities", len(t.Entities)).Msg("Search complete")

	msg := format.Message{
		Title:       t.Title,
		Blocks:      blocks,
		Separator:   format.CarSeparator,
		FooterLabel: t.FooterLabel,
		GeneratedAt: r.now(),
	}
	if total > 0 {
		msg.Title = fmt.Sprintf("%s (%d found)", t.Title, total)
		return msg
	}

	subject := t.Subject
	if subject == "" {
		subject = "cars"
	}
	line := fmt.Sprintf("No %s found across %d cities.", subject, len(t.Entities))
	if failed > 0 {
		line += fmt.Sprintf(" %d could not be checked.", failed)
	}
	msg.Summary = []string{line}
	return msg
}

// RunAll runs every tracker and joins their messages with format.Separator.
// Trackers without entities are skipped; ErrNothingToSend means none remained.
func (r *Runner) RunAll(ctx context.Context, trackers []Tracker) (string, error) {
	var parts []string
	for _, t := range trackers {
		msg, err := r.Run(ctx, t)
		if err != nil {
			r.logger.Debug().Str("tracker", t.Name).Err(err).Msg("Tracker skipped")
			continue
		}
		parts = append(parts, msg.String())
	}
	if len(parts) == 0 {
		return "", apperrors.ErrNothingToSend
	}
	return format.Combine(parts...), nil
}
