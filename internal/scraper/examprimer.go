package scraper

import (
	"context"
	"strings"

	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/retry"

	"go.uber.org/zap"
)

// examPrimerOptionLines is how many trailing lines of a rendered question are its options.
const examPrimerOptionLines = 4

// examPrimerExtractor reads archived ExamPrimer quizzes, which only reveal
// answers after the page's check button runs in a real browser.
type examPrimerExtractor struct {
	launcher domain.BrowserLauncher
	policy   retry.Policy
	logger   *zap.Logger
}

func NewExamPrimerExtractor(launcher domain.BrowserLauncher, policy retry.Policy, logger *zap.Logger) domain.Extractor {
	return &examPrimerExtractor{launcher: launcher, policy: policy, logger: logger}
}

func (e *examPrimerExtractor) Kind() domain.SourceKind {
	return domain.SourceExamPrimer
}

func (e *examPrimerExtractor) Plan(spec domain.SourceSpec) ([]domain.ScrapeUnit, []string) {
	return []domain.ScrapeUnit{{Kind: spec.Kind, URL: spec.BaseURL}}, nil
}

func (e *examPrimerExtractor) Extract(ctx context.Context, unit domain.ScrapeUnit, seq *domain.Sequence) ([]*domain.Question, error) {
	var rendered []domain.RenderedQuestion

	attempts, err := e.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		qs, err := e.render(ctx, unit.URL)
		if err != nil {
			e.logger.Warn("Browser render failed",
				zap.String("url", unit.URL),
				zap.Int("attempt", attempt+1),
				zap.Duration("next_delay", e.policy.Delay(attempt+1)),
				zap.Error(err))
			if retry.IsContextError(ctx.Err()) {
				return ctx.Err()
			}
			return retry.Retryable(err)
		}
		rendered = qs
		return nil
	})
	if err != nil {
		return nil, &domain.FetchError{URL: unit.URL, Attempts: attempts, LastCause: err}
	}

	c := newCollector(unit, seq, e.logger)
	for i, rq := range rendered {
		c.try(i, func(int) (*domain.Question, error) {
			return parseRenderedQuestion(unit.URL, rq)
		})
	}
	return c.questions, nil
}

// render opens a fresh session for one attempt and always closes it.
func (e *examPrimerExtractor) render(ctx context.Context, url string) ([]domain.RenderedQuestion, error) {
	session, err := e.launcher.Launch(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			e.logger.Warn("Failed to close browser session", zap.Error(closeErr))
		}
	}()
	return session.RenderQuiz(ctx, url)
}

func parseRenderedQuestion(pageURL string, rq domain.RenderedQuestion) (*domain.Question, error) {
	lines := strings.Split(strings.TrimSpace(rq.Text), "\n")
	if len(lines) <= examPrimerOptionLines+1 {
		return nil, &domain.ParseError{URL: pageURL, Reason: "rendered question too short"}
	}

	cut := len(lines) - examPrimerOptionLines
	text := strings.TrimSpace(strings.Join(lines[1:cut], "\n"))
	if text == "" {
		return nil, &domain.ParseError{URL: pageURL, Reason: "empty question text"}
	}
	options := make([]string, 0, examPrimerOptionLines)
	for _, line := range lines[cut:] {
		options = append(options, strings.TrimSpace(line))
	}

	answer := domain.NotFound
	for i, a := range rq.Answers {
		if i < len(options) && isHighlighted(a) {
			answer = domain.OptionLabel(i)
			break
		}
	}

	return &domain.Question{
		Text:           text,
		Options:        options,
		Answer:         answer,
		Explanation:    domain.NotFound,
		DiscussionLink: domain.NotFound,
	}, nil
}

// isHighlighted reports whether the checker painted the answer light green.
func isHighlighted(a domain.RenderedAnswer) bool {
	if strings.Contains(strings.ToLower(a.Style), "lightgreen") {
		return true
	}
	return strings.ReplaceAll(a.BackgroundColor, " ", "") == "rgb(144,238,144)"
}
