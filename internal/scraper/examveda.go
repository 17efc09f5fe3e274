package scraper

import (
	"context"
	"fmt"
	"strings"

	"quiz-scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// examvedaExtractor reads paginated Examveda listings of article.question blocks.
type examvedaExtractor struct {
	fetcher   domain.Fetcher
	imageMode string
	logger    *zap.Logger
}

func NewExamvedaExtractor(fetcher domain.Fetcher, imageMode string, logger *zap.Logger) domain.Extractor {
	return &examvedaExtractor{fetcher: fetcher, imageMode: imageMode, logger: logger}
}

func (e *examvedaExtractor) Kind() domain.SourceKind {
	return domain.SourceExamveda
}

// Plan yields one unit per listing page.
func (e *examvedaExtractor) Plan(spec domain.SourceSpec) ([]domain.ScrapeUnit, []string) {
	r := domain.PageRange{Start: domain.DefaultExamvedaStartPage, End: domain.DefaultExamvedaEndPage}
	if spec.Range != nil {
		r = *spec.Range
	}
	sep := "?"
	if strings.Contains(spec.BaseURL, "?") {
		sep = "&"
	}
	units := make([]domain.ScrapeUnit, 0, r.Len())
	for page := r.Start; page <= r.End; page++ {
		units = append(units, domain.ScrapeUnit{
			Kind: spec.Kind,
			URL:  fmt.Sprintf("%s%spage=%d", spec.BaseURL, sep, page),
			Page: page,
		})
	}
	return units, nil
}

func (e *examvedaExtractor) Extract(ctx context.Context, unit domain.ScrapeUnit, seq *domain.Sequence) ([]*domain.Question, error) {
	doc, err := loadDocument(ctx, e.fetcher, unit.URL)
	if err != nil {
		return nil, err
	}

	images := NewImageResolver(e.imageMode, unit.QuizSetID)
	c := newCollector(unit, seq, e.logger)
	doc.Find("article.question").Each(func(i int, article *goquery.Selection) {
		c.try(i, func(order int) (*domain.Question, error) {
			return e.parseQuestion(article, unit.URL, images.ForQuestion(order))
		})
	})
	return c.questions, nil
}

func (e *examvedaExtractor) parseQuestion(article *goquery.Selection, pageURL string, images *QuestionImages) (*domain.Question, error) {
	main := article.Find("div.question-main").First()
	if main.Length() == 0 {
		return nil, &domain.ParseError{URL: pageURL, Reason: "missing question-main"}
	}
	images.Rewrite(main, pageURL, "")
	text := NormalizeExamvedaMath(outerHTML(main))

	var options []string
	article.Find("p").Each(func(_ int, block *goquery.Selection) {
		labels := block.Find("label")
		if labels.Length() < 2 {
			return
		}
		label := labels.Eq(1)
		images.Rewrite(label, pageURL, domain.OptionSlot(len(options)))
		options = append(options, outerHTML(label))
	})
	if err := checkOptions(pageURL, options); err != nil {
		return nil, err
	}

	answer := domain.NotFound
	explanation := domain.NotFound
	if strong := article.Find("strong").First(); strong.Length() > 0 {
		answer = domain.NormalizeAnswer(strong.Text(), len(options))
		if exp := strong.NextAllFiltered("div").First(); exp.Length() > 0 {
			explanation = domain.OrNotFound(compactText(exp))
		}
	}

	link := domain.NotFound
	article.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.TrimSpace(a.Text()) != "Discuss in Board" {
			return true
		}
		if href, ok := a.Attr("href"); ok && strings.TrimSpace(href) != "" {
			link = ResolveURL(href, pageURL)
		}
		return false
	})

	return &domain.Question{
		Text:           text,
		Options:        options,
		Answer:         answer,
		Explanation:    explanation,
		DiscussionLink: link,
		Images:         images.Assets(),
	}, nil
}
