package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/scraper"

	"go.uber.org/zap"
)

// DefaultQuizSetTitle names a batch submitted without a title.
const DefaultQuizSetTitle = "New Quiz Set"

// scrapeService implements domain.ScrapeService. Units run one after another
// and share a single order sequence per batch.
type scrapeService struct {
	registry *scraper.Registry
	repo     domain.QuizSetRepository
	newStore func() domain.QuestionStore
	logger   *zap.Logger
}

// NewScrapeService creates the batch orchestrator. newStore is called once per
// batch so concurrent batches never share a buffer.
func NewScrapeService(
	registry *scraper.Registry,
	repo domain.QuizSetRepository,
	newStore func() domain.QuestionStore,
	logger *zap.Logger,
) domain.ScrapeService {
	return &scrapeService{
		registry: registry,
		repo:     repo,
		newStore: newStore,
		logger:   logger,
	}
}

func (s *scrapeService) Run(ctx context.Context, title string, entries []any) (*domain.BatchResult, error) {
	started := time.Now()
	if strings.TrimSpace(title) == "" {
		title = DefaultQuizSetTitle
	}

	set := &domain.QuizSet{Title: title}
	if err := s.repo.CreateQuizSet(ctx, set); err != nil {
		return nil, domain.NewError(domain.ErrPersistenceFailed, "Failed to create quiz set", err)
	}
	s.logger.Info("Starting scrape batch",
		zap.String("quiz_set_id", set.ID),
		zap.String("title", title),
		zap.Int("entries", len(entries)))

	result := &domain.BatchResult{QuizSetID: set.ID, Units: []domain.UnitReport{}}
	store := s.newStore()
	seq := domain.NewSequence(1)

	for i, entry := range entries {
		spec, err := domain.ParseSourceEntry(entry)
		if err != nil {
			s.logger.Warn("Skipping batch entry", zap.Int("index", i), zap.Any("entry", entry), zap.Error(err))
			result.Units = append(result.Units, domain.UnitReport{
				URL:    fmt.Sprint(entry),
				Status: domain.UnitUnrecognized,
				Error:  err.Error(),
			})
			continue
		}

		extractor, ok := s.registry.Extractor(spec.Kind)
		if !ok {
			s.logger.Warn("No extractor registered", zap.String("kind", string(spec.Kind)), zap.String("url", spec.BaseURL))
			result.Units = append(result.Units, domain.UnitReport{
				Kind:   spec.Kind,
				URL:    spec.BaseURL,
				Status: domain.UnitUnrecognized,
				Error:  fmt.Sprintf("no extractor for %s", spec.Kind),
			})
			continue
		}

		units, warnings := extractor.Plan(spec)
		for _, w := range warnings {
			s.logger.Warn("Plan warning", zap.String("url", spec.BaseURL), zap.String("warning", w))
		}

		for _, unit := range units {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			unit.QuizSetID = set.ID

			report, err := s.runUnit(ctx, extractor, unit, store, seq)
			result.Units = append(result.Units, report)
			result.QuestionsPersisted += report.Questions
			if err != nil {
				s.logger.Error("Stopping batch after persistence failure",
					zap.String("quiz_set_id", set.ID),
					zap.String("url", unit.URL),
					zap.Error(err))
				return result, err
			}
		}
	}

	s.logger.Info("Scrape batch finished",
		zap.String("quiz_set_id", set.ID),
		zap.Int("questions", result.QuestionsPersisted),
		zap.Int("units", len(result.Units)),
		zap.Int("failed_units", len(result.Failed())),
		zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

// runUnit extracts and commits one unit. Only persistence failures are returned.
func (s *scrapeService) runUnit(
	ctx context.Context,
	extractor domain.Extractor,
	unit domain.ScrapeUnit,
	store domain.QuestionStore,
	seq *domain.Sequence,
) (domain.UnitReport, error) {
	report := domain.UnitReport{Kind: unit.Kind, URL: unit.URL, Page: unit.Page}

	questions, err := extractor.Extract(ctx, unit, seq)
	if err != nil {
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			report.Status = domain.UnitFetchFailed
		} else {
			report.Status = domain.UnitFailed
		}
		report.Error = err.Error()
		s.logger.Warn("Skipping unit", zap.String("url", unit.URL), zap.String("status", string(report.Status)), zap.Error(err))
		return report, nil
	}

	for _, q := range questions {
		if _, err := store.Add(ctx, q); err != nil {
			report.Status = domain.UnitPersistFailed
			report.Error = err.Error()
			return report, &domain.PersistenceError{Unit: unit.URL, Err: err}
		}
	}
	if err := store.Commit(ctx); err != nil {
		report.Status = domain.UnitPersistFailed
		report.Error = err.Error()
		return report, &domain.PersistenceError{Unit: unit.URL, Err: err}
	}

	report.Status = domain.UnitOK
	report.Questions = len(questions)
	s.logger.Info("Unit committed",
		zap.String("url", unit.URL),
		zap.Int("questions", len(questions)),
		zap.Int("next_order", seq.Peek()))
	return report, nil
}
