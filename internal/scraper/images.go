package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"quiz-scraper/internal/config"
	"quiz-scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ResolveURL makes a root-relative ("/x") or scheme-relative ("//host/x")
// src absolute against base. Anything else is returned unchanged.
func ResolveURL(src, base string) string {
	src = strings.TrimSpace(src)
	if !strings.HasPrefix(src, "/") {
		return src
	}
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return baseURL.ResolveReference(ref).String()
}

// ImageResolver rewrites <img> elements in question markup, either to absolute
// links or to placeholder tokens backed by ImageAssets.
type ImageResolver struct {
	mode      string
	namespace string
}

func NewImageResolver(mode, namespace string) *ImageResolver {
	if mode != config.ImageModePlaceholder {
		mode = config.ImageModeLink
	}
	return &ImageResolver{mode: mode, namespace: namespace}
}

// ForQuestion starts tracking the images of the question with the given order.
func (r *ImageResolver) ForQuestion(order int) *QuestionImages {
	return &QuestionImages{
		resolver: r,
		order:    order,
		counters: make(map[domain.SlotKind]int),
	}
}

// QuestionImages allocates placeholder sequences per slot for one question.
type QuestionImages struct {
	resolver *ImageResolver
	order    int
	counters map[domain.SlotKind]int
	assets   []domain.ImageAsset
}

// Assets returns the images replaced by placeholders, in allocation order.
func (q *QuestionImages) Assets() []domain.ImageAsset {
	return q.assets
}

func (q *QuestionImages) placeholder(src string, slot domain.SlotKind) string {
	q.counters[slot]++
	p := domain.ImagePlaceholder{QuestionOrder: q.order, Slot: slot, Sequence: q.counters[slot]}
	q.assets = append(q.assets, domain.ImageAsset{
		Placeholder: p.Token(),
		SourceURL:   src,
		Filename:    p.Filename(q.resolver.namespace),
	})
	return p.Token()
}

// Rewrite handles every <img> under sel. When slot is empty the slot is
// inferred from the element's position (see inferSlot).
func (q *QuestionImages) Rewrite(sel *goquery.Selection, base string, slot domain.SlotKind) {
	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}
		abs := ResolveURL(src, base)
		if q.resolver.mode == config.ImageModeLink {
			img.SetAttr("src", abs)
			return
		}
		s := slot
		if s == "" {
			s = inferSlot(img)
		}
		img.ReplaceWithHtml(q.placeholder(abs, s))
	})
}

// Append returns markup for an image added after existing content.
func (q *QuestionImages) Append(src, base string, slot domain.SlotKind, alt string) string {
	abs := ResolveURL(src, base)
	if q.resolver.mode == config.ImageModeLink {
		return fmt.Sprintf(`<br><img src="%s" alt="%s" style="display: inline-block; width: auto; height: auto;">`, abs, alt)
	}
	return "<br>" + q.placeholder(abs, slot)
}

// inferSlot reports an image as "after" the text when the node right before
// it, text nodes included, contains a line break, and "within" otherwise.
func inferSlot(img *goquery.Selection) domain.SlotKind {
	if img.Length() == 0 {
		return domain.SlotWithin
	}
	prev := img.Nodes[0].PrevSibling
	if prev == nil {
		return domain.SlotWithin
	}

	raw := prev.Data
	if prev.Type != html.TextNode {
		var b strings.Builder
		if err := html.Render(&b, prev); err != nil {
			return domain.SlotWithin
		}
		raw = b.String()
	}
	if strings.Contains(raw, "<br") {
		return domain.SlotAfter
	}
	return domain.SlotWithin
}
