package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SlotKind says where in a question an image was found.
type SlotKind string

const (
	SlotWithin      SlotKind = "within"
	SlotAfter       SlotKind = "after"
	SlotExplanation SlotKind = "explanation"
)

const optionSlotPrefix = "option_"

// OptionSlot returns the slot for an image inside option index (0 → option_a).
func OptionSlot(index int) SlotKind {
	return SlotKind(optionSlotPrefix + string(rune('a'+index)))
}

// Valid reports whether s is one of the fixed slots or an option_<letter> slot.
func (s SlotKind) Valid() bool {
	switch s {
	case SlotWithin, SlotAfter, SlotExplanation:
		return true
	}
	if letter, ok := strings.CutPrefix(string(s), optionSlotPrefix); ok {
		return len(letter) == 1 && letter[0] >= 'a' && letter[0] <= 'z'
	}
	return false
}

// ImagePlaceholder is an inline token standing in for an <img> element.
type ImagePlaceholder struct {
	QuestionOrder int
	Slot          SlotKind
	Sequence      int
}

var placeholderPattern = regexp.MustCompile(`^\[image:(\d+):([a-z_]+):(\d+)\]$`)

// Token renders the placeholder as it appears in question markup.
func (p ImagePlaceholder) Token() string {
	return fmt.Sprintf("[image:%d:%s:%d]", p.QuestionOrder, p.Slot, p.Sequence)
}

// Filename is the asset name for this placeholder inside a quiz set namespace.
func (p ImagePlaceholder) Filename(namespace string) string {
	return fmt.Sprintf("%s_q%d_%s_%d.png", namespace, p.QuestionOrder, p.Slot, p.Sequence)
}

// ParsePlaceholder is the inverse of Token.
func ParsePlaceholder(token string) (ImagePlaceholder, error) {
	m := placeholderPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return ImagePlaceholder{}, fmt.Errorf("not an image placeholder: %q", token)
	}
	order, err := strconv.Atoi(m[1])
	if err != nil {
		return ImagePlaceholder{}, err
	}
	seq, err := strconv.Atoi(m[3])
	if err != nil {
		return ImagePlaceholder{}, err
	}
	slot := SlotKind(m[2])
	if !slot.Valid() {
		return ImagePlaceholder{}, fmt.Errorf("unknown image slot %q", m[2])
	}
	return ImagePlaceholder{QuestionOrder: order, Slot: slot, Sequence: seq}, nil
}
