// Package scraper turns quiz pages from the supported sites into domain questions.
package scraper

import (
	"bytes"
	"context"
	"fmt"

	"quiz-scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// minOptions is the fewest choices a question may have and still be emitted.
const minOptions = 2

// Registry maps each SourceKind to its extractor.
type Registry struct {
	extractors map[domain.SourceKind]domain.Extractor
}

func NewRegistry(extractors ...domain.Extractor) *Registry {
	r := &Registry{extractors: make(map[domain.SourceKind]domain.Extractor, len(extractors))}
	for _, e := range extractors {
		r.extractors[e.Kind()] = e
	}
	return r
}

// Extractor returns the extractor registered for kind.
func (r *Registry) Extractor(kind domain.SourceKind) (domain.Extractor, bool) {
	e, ok := r.extractors[kind]
	return e, ok
}

func loadDocument(ctx context.Context, fetcher domain.Fetcher, url string) (*goquery.Document, error) {
	_, body, err := fetcher.Fetch(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &domain.ParseError{URL: url, Reason: err.Error()}
	}
	return doc, nil
}

// parseSafely runs parse, converting a panic into a ParseError so one broken
// block cannot take down the page.
func parseSafely(url string, parse func() (*domain.Question, error)) (q *domain.Question, err error) {
	defer func() {
		if r := recover(); r != nil {
			q = nil
			err = &domain.ParseError{URL: url, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()
	return parse()
}

// collector assigns batch order numbers to questions as they are accepted.
type collector struct {
	unit      domain.ScrapeUnit
	seq       *domain.Sequence
	logger    *zap.Logger
	questions []*domain.Question
}

func newCollector(unit domain.ScrapeUnit, seq *domain.Sequence, logger *zap.Logger) *collector {
	return &collector{unit: unit, seq: seq, logger: logger}
}

// try parses one block with the order it would receive. The order is only
// consumed when parsing succeeds.
func (c *collector) try(block int, parse func(order int) (*domain.Question, error)) {
	order := c.seq.Peek()
	q, err := parseSafely(c.unit.URL, func() (*domain.Question, error) { return parse(order) })
	if err != nil {
		c.logger.Warn("Skipping question",
			zap.String("url", c.unit.URL),
			zap.Int("block", block),
			zap.Error(err))
		return
	}
	q.Order = c.seq.Next()
	q.SourceURL = c.unit.URL
	q.QuizSetID = c.unit.QuizSetID
	c.questions = append(c.questions, q)
	c.logger.Debug("Extracted question",
		zap.String("url", c.unit.URL),
		zap.Int("order", q.Order),
		zap.Int("options", len(q.Options)),
		zap.String("answer", q.Answer))
}

func checkOptions(url string, options []string) error {
	if len(options) < minOptions {
		return &domain.ParseError{URL: url, Reason: fmt.Sprintf("found %d options", len(options))}
	}
	return nil
}
