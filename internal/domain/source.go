package domain

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// SourceKind identifies which extractor handles a source.
type SourceKind string

const (
	SourceIndiaBix   SourceKind = "indiabix"
	SourcePinoyBix   SourceKind = "pinoybix"
	SourceExamveda   SourceKind = "examveda"
	SourceExamPrimer SourceKind = "examprimer"
)

// Default page window for Examveda entries without explicit pages.
const (
	DefaultExamvedaStartPage = 1
	DefaultExamvedaEndPage   = 10
)

// PageRange is an inclusive numeric range of URL numbers or page numbers.
type PageRange struct {
	Start int
	End   int
}

// Len returns the number of values in the range, zero when End < Start.
func (r PageRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// SourceSpec is one entry of a scrape batch.
type SourceSpec struct {
	Kind    SourceKind
	BaseURL string
	Range   *PageRange
}

// DetectSourceKind infers the extractor from a URL by substring.
func DetectSourceKind(rawURL string) (SourceKind, bool) {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "indiabix"):
		return SourceIndiaBix, true
	case strings.Contains(lower, "pinoybix"):
		return SourcePinoyBix, true
	case strings.Contains(lower, "examveda"):
		return SourceExamveda, true
	case strings.Contains(lower, "web.archive.org"):
		return SourceExamPrimer, true
	}
	return "", false
}

// ParseSourceEntry converts one decoded JSON batch entry, either a bare URL
// string or an object with base_url and optional range fields, into a SourceSpec.
func ParseSourceEntry(entry any) (SourceSpec, error) {
	switch v := entry.(type) {
	case string:
		return bareSourceSpec(v)
	case map[string]any:
		return objectSourceSpec(v)
	default:
		return SourceSpec{}, fmt.Errorf("unsupported entry type %T", entry)
	}
}

func bareSourceSpec(raw string) (SourceSpec, error) {
	u := normalizeURL(raw)
	if u == "" {
		return SourceSpec{}, fmt.Errorf("empty url")
	}
	kind, ok := DetectSourceKind(u)
	if !ok {
		return SourceSpec{}, fmt.Errorf("unrecognized url format")
	}
	spec := SourceSpec{Kind: kind, BaseURL: u}
	if kind == SourceExamveda {
		spec.Range = &PageRange{Start: DefaultExamvedaStartPage, End: DefaultExamvedaEndPage}
	}
	return spec, nil
}

func objectSourceSpec(obj map[string]any) (SourceSpec, error) {
	u := normalizeURL(cast.ToString(obj["base_url"]))
	if u == "" {
		return SourceSpec{}, fmt.Errorf("missing base_url")
	}
	kind, ok := DetectSourceKind(u)
	if !ok {
		return SourceSpec{}, fmt.Errorf("unrecognized url format")
	}
	spec := SourceSpec{Kind: kind, BaseURL: u}

	switch kind {
	case SourceIndiaBix, SourcePinoyBix:
		start, err := intField(obj, "start_url", 1)
		if err != nil {
			return SourceSpec{}, err
		}
		end, err := intField(obj, "end_url", start)
		if err != nil {
			return SourceSpec{}, err
		}
		spec.Range = &PageRange{Start: start, End: end}
	case SourceExamveda:
		start, err := intField(obj, "start_page", DefaultExamvedaStartPage)
		if err != nil {
			return SourceSpec{}, err
		}
		end, err := intField(obj, "end_page", DefaultExamvedaEndPage)
		if err != nil {
			return SourceSpec{}, err
		}
		spec.Range = &PageRange{Start: start, End: end}
	}

	if spec.Range != nil && spec.Range.Len() == 0 {
		return SourceSpec{}, fmt.Errorf("empty range %d..%d", spec.Range.Start, spec.Range.End)
	}
	return spec, nil
}

func intField(obj map[string]any, key string, fallback int) (int, error) {
	raw, ok := obj[key]
	if !ok || raw == nil || raw == "" {
		return fallback, nil
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func normalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}
