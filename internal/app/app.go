// Package app wires configuration into the services shared by the API server
// and the scrape CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"quiz-scraper/internal/adapter"
	"quiz-scraper/internal/adapter/browser"
	"quiz-scraper/internal/adapter/explanation"
	"quiz-scraper/internal/adapter/fetch"
	"quiz-scraper/internal/cache"
	"quiz-scraper/internal/config"
	"quiz-scraper/internal/database"
	"quiz-scraper/internal/domain"
	"quiz-scraper/internal/repository"
	"quiz-scraper/internal/retry"
	"quiz-scraper/internal/scraper"
	"quiz-scraper/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the long-lived connections and the services built on them.
type App struct {
	DB    *sqlx.DB
	Redis *redis.Client

	Scrape       domain.ScrapeService
	QuizSets     domain.QuizSetService
	Explanations domain.ExplanationService
}

// New connects to Oracle and (optionally) Redis and builds every service.
// Redis is optional: without it discussion threads are fetched uncached.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &App{DB: db}

	var commentsCache domain.Cache
	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, discussion cache disabled", zap.Error(err))
		} else {
			a.Redis = client
			commentsCache = adapter.NewRedisCacheAdapter(client)
			logger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		}
	}

	comments := newCommentsFetcher(cfg.Scraper, commentsCache, logger)
	registry := newRegistry(cfg, comments, logger)

	tm := repository.NewTransactionManagerAdapter(db, logger)
	quizSets := repository.NewQuizSetDatabaseAdapter(db)
	newStore := func() domain.QuestionStore {
		return repository.NewQuestionStore(db, tm, logger)
	}

	providers, err := explanation.NewProviders(cfg.LLM, &http.Client{Timeout: cfg.LLM.Timeout}, logger)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create llm providers: %w", err)
	}
	explainer := explanation.NewLLMExplainer(providers, cfg.LLM.Timeout, logger)

	a.Scrape = service.NewScrapeService(registry, quizSets, newStore, logger)
	a.QuizSets = service.NewQuizSetService(quizSets, tm, comments, logger)
	a.Explanations = service.NewExplanationService(quizSets, explainer, logger)
	return a, nil
}

// newCommentsFetcher builds the discussion walker on its own fetcher so the
// thread retry budget stays separate from question pages.
func newCommentsFetcher(cfg config.ScraperConfig, c domain.Cache, logger *zap.Logger) domain.CommentsFetcher {
	discussionCfg := cfg.WithDefaults()
	discussionCfg.MaxAttempts = discussionCfg.DiscussionMaxAttempts
	comments := scraper.NewDiscussionFetcher(fetch.NewHTTPFetcher(discussionCfg, logger), logger)
	if c == nil {
		return comments
	}
	return scraper.NewCachedCommentsFetcher(comments, c, discussionCfg.DiscussionCacheTTL, logger)
}

func newRegistry(cfg *config.Config, comments domain.CommentsFetcher, logger *zap.Logger) *scraper.Registry {
	scraperCfg := cfg.Scraper.WithDefaults()
	fetcher := fetch.NewHTTPFetcher(scraperCfg, logger)

	var indiaBixComments domain.CommentsFetcher
	if scraperCfg.IncludeDiscussion {
		indiaBixComments = comments
	}

	return scraper.NewRegistry(
		scraper.NewIndiaBixExtractor(fetcher, indiaBixComments, scraperCfg.ImageMode, logger),
		scraper.NewPinoyBixExtractor(fetcher, scraperCfg.ImageMode, logger),
		scraper.NewExamvedaExtractor(fetcher, scraperCfg.ImageMode, logger),
		scraper.NewExamPrimerExtractor(
			browser.NewChromeLauncher(cfg.Browser, logger),
			retry.FromConfig(scraperCfg),
			logger,
		),
	)
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
