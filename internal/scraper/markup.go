package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	squareRootPattern  = regexp.MustCompile(`<span class=['"]root['"]><span class=['"]symbol['"]>(.*?)</span></span>`)
	dollarSpacePattern = regexp.MustCompile(`\$\s+`)
	displayMathPattern = regexp.MustCompile(`\$\$(.*?)\$\$`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// RewriteSquareRoots replaces the IndiaBix radical markup with √(X).
// Applying it twice gives the same result as applying it once.
func RewriteSquareRoots(html string) string {
	return squareRootPattern.ReplaceAllString(html, "√($1)")
}

// NormalizeExamvedaMath collapses "$ " runs and wraps $$...$$ blocks in a mathjax span.
func NormalizeExamvedaMath(html string) string {
	html = dollarSpacePattern.ReplaceAllString(html, "$$ ")
	return displayMathPattern.ReplaceAllString(html, `<span class="mathjax">$1</span>`)
}

// outerHTML renders a selection including its own tag.
func outerHTML(sel *goquery.Selection) string {
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(html)
}

// fragmentText returns the text content of an HTML fragment.
func fragmentText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

// compactText collapses whitespace runs in the selection's text.
func compactText(sel *goquery.Selection) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(sel.Text(), " "))
}
