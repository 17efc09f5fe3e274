package scraper

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"quiz-scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var totalPagesPattern = regexp.MustCompile(`Page\s*\d+\s*of\s*(\d+)`)

// discussionFetcher walks an IndiaBix discussion thread page by page.
type discussionFetcher struct {
	fetcher domain.Fetcher
	logger  *zap.Logger
}

// NewDiscussionFetcher creates a CommentsFetcher. A page that cannot be fetched
// ends the walk; whatever was collected so far is returned without error.
func NewDiscussionFetcher(fetcher domain.Fetcher, logger *zap.Logger) domain.CommentsFetcher {
	return &discussionFetcher{fetcher: fetcher, logger: logger}
}

// FetchAll implements domain.CommentsFetcher.
func (d *discussionFetcher) FetchAll(ctx context.Context, link string) ([]string, error) {
	comments := []string{}
	totalPages := 1

	for page := 1; page <= totalPages; page++ {
		pageURL := DiscussionPageURL(link, page)

		_, body, err := d.fetcher.Fetch(ctx, pageURL, nil)
		if err != nil {
			d.logger.Warn("Stopping discussion walk",
				zap.String("url", pageURL),
				zap.Int("page", page),
				zap.Error(err))
			break
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			d.logger.Warn("Unreadable discussion page", zap.String("url", pageURL), zap.Error(err))
			break
		}

		if page == 1 {
			totalPages = parseTotalPages(doc)
		}

		found := 0
		doc.Find("div.bix-sun-discussion").Each(func(_ int, s *goquery.Selection) {
			details := s.Find("div.user-details").First()
			content := s.Find("div.user-content").First()
			if details.Length() == 0 || content.Length() == 0 {
				return
			}
			inner, err := content.Html()
			if err != nil {
				return
			}
			comments = append(comments, fmt.Sprintf("%s: %s", compactText(details), strings.TrimSpace(inner)))
			found++
		})

		d.logger.Debug("Collected discussion page",
			zap.String("url", pageURL),
			zap.Int("page", page),
			zap.Int("total_pages", totalPages),
			zap.Int("comments", found))
	}

	return comments, nil
}

// DiscussionPageURL returns the URL of page n of a thread. Page 1 is the link
// itself; later pages insert -n before the #comments fragment.
func DiscussionPageURL(link string, page int) string {
	if page <= 1 {
		return link
	}
	base, _, _ := strings.Cut(link, "#")
	return fmt.Sprintf("%s-%d#comments", base, page)
}

func parseTotalPages(doc *goquery.Document) int {
	info := compactText(doc.Find("div.left-box").First())
	m := totalPagesPattern.FindStringSubmatch(info)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// JoinComments formats comments the way they are stored on a question.
func JoinComments(comments []string) string {
	return strings.Join(comments, "\n")
}
