package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-scraper/internal/config"
	"quiz-scraper/internal/domain"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	checkButtonSelector = "#butCheck"
	questionSelector    = ".question"
)

// renderQuizScript collects each question's rendered text and the style of its answers.
const renderQuizScript = `Array.from(document.querySelectorAll('.question')).map(q => ({
	text: q.innerText,
	answers: Array.from(q.querySelectorAll('.answer')).map(a => ({
		text: a.innerText,
		style: a.getAttribute('style') || '',
		backgroundColor: window.getComputedStyle(a).backgroundColor
	}))
}))`

// chromeLauncher starts a headless Chrome per session.
type chromeLauncher struct {
	cfg    config.BrowserConfig
	logger *zap.Logger
}

func NewChromeLauncher(cfg config.BrowserConfig, logger *zap.Logger) domain.BrowserLauncher {
	return &chromeLauncher{cfg: cfg.WithDefaults(), logger: logger}
}

func (l *chromeLauncher) Launch(ctx context.Context) (domain.BrowserSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("start-maximized", true),
		chromedp.NoSandbox,
	)
	if l.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	l.logger.Debug("Browser session started", zap.Bool("headless", l.cfg.Headless))
	return &chromeSession{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		waitTimeout:   l.cfg.WaitTimeout,
	}, nil
}

// chromeSession owns one browser process. Close must be called exactly once.
type chromeSession struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	waitTimeout   time.Duration
}

// RenderQuiz loads the quiz, presses the check button and reads the graded questions.
func (s *chromeSession) RenderQuiz(ctx context.Context, url string) ([]domain.RenderedQuestion, error) {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := s.run(runCtx, 3*s.waitTimeout, chromedp.Navigate(url)); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := s.run(runCtx, s.waitTimeout,
		chromedp.WaitVisible(checkButtonSelector, chromedp.ByQuery),
		chromedp.Click(checkButtonSelector, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("check answers on %s: %w", url, err)
	}
	if err := s.run(runCtx, s.waitTimeout, chromedp.WaitReady(questionSelector, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("wait for questions on %s: %w", url, err)
	}

	var questions []domain.RenderedQuestion
	if err := s.run(runCtx, s.waitTimeout, chromedp.Evaluate(renderQuizScript, &questions)); err != nil {
		return nil, fmt.Errorf("read questions on %s: %w", url, err)
	}
	return questions, nil
}

func (s *chromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}

// Close shuts the browser down and releases the allocator.
func (s *chromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelBrowser()
	s.cancelAlloc()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
