package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"quiz-scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	pinoyBixOrigin      = "https://www.pinoybix.org"
	pinoyBixInstruction = "Choose the letter of the best answer in each questions."
)

var (
	pinoyQuestionPattern = regexp.MustCompile(`^\s*(\d+)\.`)
	pinoyNumberPrefix    = regexp.MustCompile(`^(<p[^>]*>)\s*\d+\.\s*`)
	pinoyChoicePattern   = regexp.MustCompile(`^\s*[A-Da-d][).]`)
	pinoyChoicePrefix    = regexp.MustCompile(`^(<p[^>]*>)\s*[A-Da-d][).]\s*`)
	pinoyAnswerPattern   = regexp.MustCompile(`Option ([A-D])`)
)

// pinoyBixExtractor reads a PinoyBix article where questions are numbered
// paragraphs followed by lettered choice paragraphs and an answer marker.
type pinoyBixExtractor struct {
	fetcher   domain.Fetcher
	imageMode string
	logger    *zap.Logger
}

func NewPinoyBixExtractor(fetcher domain.Fetcher, imageMode string, logger *zap.Logger) domain.Extractor {
	return &pinoyBixExtractor{fetcher: fetcher, imageMode: imageMode, logger: logger}
}

func (e *pinoyBixExtractor) Kind() domain.SourceKind {
	return domain.SourcePinoyBix
}

// Plan always yields the base URL alone; articles are not numbered.
func (e *pinoyBixExtractor) Plan(spec domain.SourceSpec) ([]domain.ScrapeUnit, []string) {
	var warnings []string
	if spec.Range != nil && spec.Range.Len() > 1 {
		warnings = append(warnings, fmt.Sprintf("pinoybix pages are not numbered, ignoring range %d..%d for %s",
			spec.Range.Start, spec.Range.End, spec.BaseURL))
	}
	return []domain.ScrapeUnit{{Kind: spec.Kind, URL: spec.BaseURL}}, warnings
}

func (e *pinoyBixExtractor) Extract(ctx context.Context, unit domain.ScrapeUnit, seq *domain.Sequence) ([]*domain.Question, error) {
	doc, err := loadDocument(ctx, e.fetcher, unit.URL)
	if err != nil {
		return nil, err
	}

	images := NewImageResolver(e.imageMode, unit.QuizSetID)
	c := newCollector(unit, seq, e.logger)
	doc.Find("p").Each(func(i int, p *goquery.Selection) {
		text := p.Text()
		if strings.Contains(text, pinoyBixInstruction) || !pinoyQuestionPattern.MatchString(text) {
			return
		}
		c.try(i, func(order int) (*domain.Question, error) {
			return e.parseQuestion(p, unit.URL, images.ForQuestion(order))
		})
	})
	return c.questions, nil
}

func (e *pinoyBixExtractor) parseQuestion(p *goquery.Selection, pageURL string, images *QuestionImages) (*domain.Question, error) {
	img := p.Find("img").First()
	if img.Length() == 0 {
		img = p.NextAllFiltered("p").First().Find("img").First()
	}

	stem := p.Clone()
	stem.Find("img").Remove()
	text := pinoyNumberPrefix.ReplaceAllString(outerHTML(stem), "$1")
	if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
		text += images.Append(src, pinoyBixOrigin, domain.SlotAfter, "Question Image")
	}

	var (
		options []string
		marker  string
	)
	for next := p.Next(); next.Length() > 0; next = next.Next() {
		nextText := next.Text()
		if goquery.NodeName(next) == "p" && pinoyChoicePattern.MatchString(nextText) {
			options = append(options, pinoyChoicePrefix.ReplaceAllString(outerHTML(next), "$1"))
			continue
		}
		if strings.Contains(nextText, "Answer:") {
			if m := pinoyAnswerPattern.FindStringSubmatch(nextText); m != nil {
				marker = m[1]
			}
			break
		}
		if goquery.NodeName(next) == "p" && pinoyQuestionPattern.MatchString(nextText) {
			break
		}
	}
	if err := checkOptions(pageURL, options); err != nil {
		return nil, err
	}

	return &domain.Question{
		Text:           text,
		Options:        options,
		Answer:         domain.NormalizeAnswer(marker, len(options)),
		Explanation:    domain.NotFound,
		DiscussionLink: domain.NotFound,
		Images:         images.Assets(),
	}, nil
}
