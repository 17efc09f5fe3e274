package domain

import (
	"strings"
	"time"
)

// NotFound is stored in answer, explanation and discussion link when a source page has no usable value.
const NotFound = "not found"

// QuizSet groups the questions persisted by one scrape batch.
type QuizSet struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

// Question is a normalized multiple-choice question extracted from a source page.
type Question struct {
	ID                 string
	QuizSetID          string
	Text               string
	Options            []string
	Answer             string
	Explanation        string
	DiscussionLink     string
	DiscussionComments string
	SourceURL          string
	Order              int
	Images             []ImageAsset
	Favorite           bool
	CreatedAt          time.Time
}

// QuizSetDetails summarizes a quiz set and the pages its questions came from.
type QuizSetDetails struct {
	QuizSet
	URLs           []string
	TotalQuestions int
}

// ImageAsset records an image replaced by a placeholder token.
type ImageAsset struct {
	Placeholder string `json:"placeholder"`
	SourceURL   string `json:"source_url"`
	Filename    string `json:"filename"`
}

// OptionLabel returns "Option A" for index 0, "Option B" for 1 and so on.
func OptionLabel(index int) string {
	return "Option " + string(rune('A'+index))
}

// NormalizeAnswer turns a raw answer marker ("B", "Option B", "b)", "Answer: Option B")
// into "Option X". The letter has to name one of the optionCount options, otherwise
// NotFound is returned.
func NormalizeAnswer(raw string, optionCount int) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, NotFound) {
		return NotFound
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "Answer:"))
	if len(s) > len("Option") && strings.EqualFold(s[:len("Option")], "Option") {
		s = strings.TrimSpace(s[len("Option"):])
	}
	s = strings.TrimRight(s, ").: ")
	if len(s) != 1 {
		return NotFound
	}
	letter := strings.ToUpper(s)[0]
	if letter < 'A' || letter > 'D' {
		return NotFound
	}
	index := int(letter - 'A')
	if index >= optionCount {
		return NotFound
	}
	return OptionLabel(index)
}

// OrNotFound returns s trimmed, or NotFound when s is blank.
func OrNotFound(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotFound
	}
	return s
}
