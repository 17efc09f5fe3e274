package explanation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quiz-scraper/internal/config"
	"quiz-scraper/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// legacyMissingExplanation is what older rows carry instead of domain.NotFound.
const legacyMissingExplanation = "Explanation not found."

// Provider is one configured language model, tried in order.
type Provider struct {
	Name  string
	Model llms.Model
}

// NewProviders builds the configured models. OpenAI entries without an API key are skipped.
func NewProviders(cfg config.LLMConfig, httpClient *http.Client, logger *zap.Logger) ([]Provider, error) {
	var providers []Provider
	for _, p := range cfg.Providers {
		switch p.Type {
		case "ollama":
			opts := []ollama.Option{ollama.WithServerURL(p.ServerURL), ollama.WithModel(p.Model)}
			if httpClient != nil {
				opts = append(opts, ollama.WithHTTPClient(httpClient))
			}
			llm, err := ollama.New(opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create ollama client: %w", err)
			}
			providers = append(providers, Provider{Name: "ollama/" + p.Model, Model: llm})
		case "openai":
			if p.APIKey == "" {
				logger.Warn("Skipping openai provider without API key", zap.String("model", p.Model))
				continue
			}
			opts := []openai.Option{openai.WithToken(p.APIKey), openai.WithModel(p.Model)}
			if p.ServerURL != "" {
				opts = append(opts, openai.WithBaseURL(p.ServerURL))
			}
			if httpClient != nil {
				opts = append(opts, openai.WithHTTPClient(httpClient))
			}
			llm, err := openai.New(opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create openai client: %w", err)
			}
			providers = append(providers, Provider{Name: "openai/" + p.Model, Model: llm})
		default:
			return nil, fmt.Errorf("unknown llm provider type %q", p.Type)
		}
	}
	return providers, nil
}

// llmExplainer asks each provider in turn until one answers.
type llmExplainer struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger
}

func NewLLMExplainer(providers []Provider, timeout time.Duration, logger *zap.Logger) domain.ExplanationProvider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &llmExplainer{providers: providers, timeout: timeout, logger: logger}
}

// BuildPrompt phrases the request, reusing the scraped explanation when there is one.
func BuildPrompt(req domain.ExplanationRequest) string {
	question := strings.TrimSpace(req.QuestionText + " " + strings.Join(req.Options, " "))
	const tail = "Also, identify very brief keywords from the question_text that would serve as a memory guide or hint that would immediately kick in as to why we have the respective answer."
	if hasExplanation(req.Explanation) {
		return fmt.Sprintf("Given this explanation '%s', explain further why %s is the answer to this following Question: %s. Explain it in the simplest and most appropriate way to understand, in Layman's terms, why %s is the answer. %s",
			req.Explanation, req.Answer, question, req.Answer, tail)
	}
	return fmt.Sprintf("Given this Question: %s, explain in the simplest and most appropriate way to understand, in Layman's terms, why %s is the answer. %s",
		question, req.Answer, tail)
}

func hasExplanation(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != domain.NotFound && s != legacyMissingExplanation
}

func (e *llmExplainer) Explain(ctx context.Context, req domain.ExplanationRequest) (string, error) {
	if len(e.providers) == 0 {
		return "", domain.NewLLMServiceError(errors.New("no llm providers configured"))
	}
	prompt := BuildPrompt(req)

	var errs []error
	for _, p := range e.providers {
		text, err := e.call(ctx, p, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", domain.NewLLMServiceError(ctx.Err())
		}
		e.logger.Warn("LLM provider failed, trying next", zap.String("provider", p.Name), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
	}
	return "", domain.NewLLMServiceError(errors.Join(errs...))
}

func (e *llmExplainer) call(ctx context.Context, p Provider, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := llms.GenerateFromSinglePrompt(callCtx, p.Model, prompt, llms.WithTemperature(0.1))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("llm request timed out: %w", err)
		}
		return "", err
	}
	e.logger.Debug("Raw LLM response received", zap.String("provider", p.Name), zap.Int("length", len(raw)))

	text := StripThinking(raw)
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}

// StripThinking drops a leading <think>...</think> block some models emit.
func StripThinking(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}
