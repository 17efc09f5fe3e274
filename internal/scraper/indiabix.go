package scraper

import (
	"context"
	"fmt"
	"strings"

	"quiz-scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const indiaBixOrigin = "https://www.indiabix.com"

// indiaBixExtractor reads numbered IndiaBix question pages.
type indiaBixExtractor struct {
	fetcher   domain.Fetcher
	comments  domain.CommentsFetcher
	imageMode string
	logger    *zap.Logger
}

// NewIndiaBixExtractor creates the IndiaBix extractor. comments may be nil to
// skip fetching discussion threads.
func NewIndiaBixExtractor(fetcher domain.Fetcher, comments domain.CommentsFetcher, imageMode string, logger *zap.Logger) domain.Extractor {
	return &indiaBixExtractor{fetcher: fetcher, comments: comments, imageMode: imageMode, logger: logger}
}

func (e *indiaBixExtractor) Kind() domain.SourceKind {
	return domain.SourceIndiaBix
}

// Plan yields one unit per URL number, formatted as base + six digit number.
// Without a range the base URL is fetched as is.
func (e *indiaBixExtractor) Plan(spec domain.SourceSpec) ([]domain.ScrapeUnit, []string) {
	if spec.Range == nil {
		return []domain.ScrapeUnit{{Kind: spec.Kind, URL: spec.BaseURL}}, nil
	}
	units := make([]domain.ScrapeUnit, 0, spec.Range.Len())
	for n := spec.Range.Start; n <= spec.Range.End; n++ {
		units = append(units, domain.ScrapeUnit{
			Kind: spec.Kind,
			URL:  fmt.Sprintf("%s%06d", spec.BaseURL, n),
			Page: n,
		})
	}
	return units, nil
}

func (e *indiaBixExtractor) Extract(ctx context.Context, unit domain.ScrapeUnit, seq *domain.Sequence) ([]*domain.Question, error) {
	doc, err := loadDocument(ctx, e.fetcher, unit.URL)
	if err != nil {
		return nil, err
	}

	images := NewImageResolver(e.imageMode, unit.QuizSetID)
	c := newCollector(unit, seq, e.logger)
	doc.Find("div.bix-div-container").Each(func(i int, block *goquery.Selection) {
		c.try(i, func(order int) (*domain.Question, error) {
			return e.parseQuestion(ctx, block, unit.URL, images.ForQuestion(order))
		})
	})
	return c.questions, nil
}

func (e *indiaBixExtractor) parseQuestion(ctx context.Context, block *goquery.Selection, pageURL string, images *QuestionImages) (*domain.Question, error) {
	textElem := block.Find("div.bix-td-qtxt").First()
	if textElem.Length() == 0 {
		return nil, &domain.ParseError{URL: pageURL, Reason: "missing question text"}
	}
	images.Rewrite(textElem, indiaBixOrigin, "")
	text := RewriteSquareRoots(outerHTML(textElem))

	var options []string
	block.Find("div.bix-td-option-val").Each(func(i int, opt *goquery.Selection) {
		inner, _ := opt.Html()
		option := fragmentText(RewriteSquareRoots(inner))
		opt.Find("img").Each(func(_ int, img *goquery.Selection) {
			if src, ok := img.Attr("src"); ok && src != "" {
				option += images.Append(src, indiaBixOrigin, domain.OptionSlot(i), "Option Image")
			}
		})
		options = append(options, option)
	})
	if err := checkOptions(pageURL, options); err != nil {
		return nil, err
	}

	marker, _ := block.Find("input.jq-hdnakq").First().Attr("value")

	explanation := domain.NotFound
	if exp := block.Find("div.bix-ans-description").First(); exp.Length() > 0 {
		images.Rewrite(exp, indiaBixOrigin, domain.SlotExplanation)
		explanation = RewriteSquareRoots(outerHTML(exp))
	}

	link := domain.NotFound
	if href, ok := block.Find("a.discuss").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		link = ResolveURL(href, pageURL)
	}

	q := &domain.Question{
		Text:           text,
		Options:        options,
		Answer:         domain.NormalizeAnswer(marker, len(options)),
		Explanation:    explanation,
		DiscussionLink: link,
		Images:         images.Assets(),
	}

	if e.comments != nil && link != domain.NotFound {
		comments, err := e.comments.FetchAll(ctx, link)
		if err != nil {
			e.logger.Warn("Discussion unavailable", zap.String("link", link), zap.Error(err))
		} else {
			q.DiscussionComments = JoinComments(comments)
		}
	}
	return q, nil
}
