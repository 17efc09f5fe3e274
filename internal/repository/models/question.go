package models

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// StringSlice is stored as a JSON array in a CLOB column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return marshalJSON(s)
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	return scanJSON(value, s, func() { *s = StringSlice{} })
}

// ImageAsset mirrors domain.ImageAsset inside the images JSON column.
type ImageAsset struct {
	Placeholder string `json:"placeholder"`
	SourceURL   string `json:"source_url"`
	Filename    string `json:"filename"`
}

// ImageAssets is stored as a JSON array in a CLOB column.
type ImageAssets []ImageAsset

func (a ImageAssets) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return marshalJSON(a)
}

func (a *ImageAssets) Scan(value interface{}) error {
	return scanJSON(value, a, func() { *a = ImageAssets{} })
}

// marshalJSON keeps markup readable in the column by not escaping <, > and &.
func marshalJSON(v interface{}) (driver.Value, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// scanJSON decodes a JSON column. NULL, empty and "null" values call empty instead.
func scanJSON(value interface{}, dest interface{}, empty func()) error {
	if value == nil {
		empty()
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("json column scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		empty()
		return nil
	}
	return json.Unmarshal(bytesToParse, dest)
}

// QuizSet row of quiz_sets.
type QuizSet struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
}

// Question row of questions.
type Question struct {
	ID                 string         `db:"id"`
	QuizSetID          string         `db:"quiz_set_id"`
	QuestionOrder      int            `db:"question_order"`
	QuestionText       string         `db:"question_text"`
	Options            StringSlice    `db:"options_json"`
	Answer             string         `db:"answer"`
	Explanation        sql.NullString `db:"explanation"`
	DiscussionLink     sql.NullString `db:"discussion_link"`
	DiscussionComments sql.NullString `db:"discussion_comments"`
	SourceURL          sql.NullString `db:"source_url"`
	Images             ImageAssets    `db:"images_json"`
	Favorite           int            `db:"favorite"`
	CreatedAt          time.Time      `db:"created_at"`
}

// FurtherExplanation row of further_explanations.
type FurtherExplanation struct {
	ID          string    `db:"id"`
	QuestionID  string    `db:"question_id"`
	Explanation string    `db:"explanation"`
	CreatedAt   time.Time `db:"created_at"`
}
