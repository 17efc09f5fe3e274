package scraper

import (
	"context"
	"strings"
	"testing"

	"quiz-scraper/internal/config"
	"quiz-scraper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const pinoyBixURL = "https://www.pinoybix.org/2020/01/mcq-in-electronics-fundamentals-part1.html"

const pinoyBixArticle = `<html><body><div class="post-body entry-content">
<p>Choose the letter of the best answer in each questions.</p>
<p>1. What is the unit of frequency?</p>
<p>A. Hertz</p>
<p>B. Watt</p>
<p>C. Ohm</p>
<p>D. Volt</p>
<div class="su-spoiler"><div class="su-spoiler-content">Answer: Option A</div></div>
<p>2. Identify the component shown <img src="/wp-content/uploads/resistor.png"></p>
<p>A) Resistor</p>
<p>B) Capacitor</p>
<p>Answer: Option B</p>
<p>3. A question whose choices were lost</p>
<p>A. only one</p>
<p>4. Which is not a passive component?</p>
<p>A. Resistor</p>
<p>B. Inductor</p>
<p>C. Transistor</p>
<p>Answer: Option D</p>
</div></body></html>`

func TestPinoyBixExtractor_Plan(t *testing.T) {
	e := NewPinoyBixExtractor(nil, config.ImageModeLink, zap.NewNop())

	units, warnings := e.Plan(domain.SourceSpec{Kind: domain.SourcePinoyBix, BaseURL: pinoyBixURL, Range: &domain.PageRange{Start: 1, End: 5}})
	require.Len(t, units, 1)
	assert.Equal(t, pinoyBixURL, units[0].URL)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "ignoring range 1..5")

	_, warnings = e.Plan(domain.SourceSpec{Kind: domain.SourcePinoyBix, BaseURL: pinoyBixURL, Range: &domain.PageRange{Start: 1, End: 1}})
	assert.Empty(t, warnings)
}

func TestPinoyBixExtractor_Extract(t *testing.T) {
	e := NewPinoyBixExtractor(newStubFetcher(map[string]string{pinoyBixURL: pinoyBixArticle}), config.ImageModeLink, zap.NewNop())
	seq := domain.NewSequence(1)

	qs, err := e.Extract(context.Background(), domain.ScrapeUnit{Kind: domain.SourcePinoyBix, URL: pinoyBixURL}, seq)

	require.NoError(t, err)
	require.Len(t, qs, 3)

	assert.Equal(t, 1, qs[0].Order)
	assert.Equal(t, "<p>What is the unit of frequency?</p>", qs[0].Text)
	assert.Equal(t, []string{"<p>Hertz</p>", "<p>Watt</p>", "<p>Ohm</p>", "<p>Volt</p>"}, qs[0].Options)
	assert.Equal(t, "Option A", qs[0].Answer)
	assert.Equal(t, domain.NotFound, qs[0].Explanation)
	assert.Equal(t, domain.NotFound, qs[0].DiscussionLink)

	assert.Equal(t, 2, qs[1].Order)
	assert.True(t, strings.HasPrefix(qs[1].Text, "<p>Identify the component shown </p><br><img src=\"https://www.pinoybix.org/wp-content/uploads/resistor.png\""))
	assert.Equal(t, []string{"<p>Resistor</p>", "<p>Capacitor</p>"}, qs[1].Options)
	assert.Equal(t, "Option B", qs[1].Answer)

	assert.Equal(t, 3, qs[2].Order, "question 3 is skipped without consuming an order")
	assert.Len(t, qs[2].Options, 3)
	assert.Equal(t, domain.NotFound, qs[2].Answer, "Option D names no existing choice")
}

func TestPinoyBixExtractor_PlaceholderImage(t *testing.T) {
	e := NewPinoyBixExtractor(newStubFetcher(map[string]string{pinoyBixURL: pinoyBixArticle}), config.ImageModePlaceholder, zap.NewNop())

	qs, err := e.Extract(context.Background(), domain.ScrapeUnit{Kind: domain.SourcePinoyBix, URL: pinoyBixURL, QuizSetID: "qs2"}, domain.NewSequence(1))

	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, "<p>Identify the component shown </p><br>[image:2:after:1]", qs[1].Text)
	require.Len(t, qs[1].Images, 1)
	assert.Equal(t, "qs2_q2_after_1.png", qs[1].Images[0].Filename)
	assert.Empty(t, qs[0].Images)
}

func TestPinoyBixExtractor_ImageInFollowingParagraph(t *testing.T) {
	page := `<html><body>
<p>1. Name this symbol</p>
<p><img src="https://cdn.pinoybix.org/symbol.png"></p>
<p>A. Diode</p>
<p>B. Zener</p>
<p>Answer: Option B</p>
</body></html>`
	e := NewPinoyBixExtractor(newStubFetcher(map[string]string{pinoyBixURL: page}), config.ImageModeLink, zap.NewNop())

	qs, err := e.Extract(context.Background(), domain.ScrapeUnit{Kind: domain.SourcePinoyBix, URL: pinoyBixURL}, domain.NewSequence(1))

	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Contains(t, qs[0].Text, `src="https://cdn.pinoybix.org/symbol.png"`)
	assert.Equal(t, "Option B", qs[0].Answer)
}

func TestPinoyBixExtractor_LastQuestionWithoutMarker(t *testing.T) {
	page := `<html><body><div>
<p>1. Which law relates voltage and current?</p>
<p>A. Ohm's law</p>
<p>B. Lenz's law</p>
<p>Answer: Option A</p>
<p>2. Last question on the page</p>
<p>A. x</p>
<p>B. y</p>
</div></body></html>`
	e := NewPinoyBixExtractor(newStubFetcher(map[string]string{pinoyBixURL: page}), config.ImageModeLink, zap.NewNop())
	seq := domain.NewSequence(1)

	qs, err := e.Extract(context.Background(), domain.ScrapeUnit{Kind: domain.SourcePinoyBix, URL: pinoyBixURL}, seq)

	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "Option A", qs[0].Answer)
	assert.Equal(t, 2, qs[1].Order)
	assert.Equal(t, []string{"<p>x</p>", "<p>y</p>"}, qs[1].Options)
	assert.Equal(t, domain.NotFound, qs[1].Answer)
	assert.Equal(t, 3, seq.Peek())
}
