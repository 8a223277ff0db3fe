package models

import (
	"strings"
	"time"
)

// Article is a validated news article record, a row in the article_news table.
type Article struct {
	Title           string     `db:"title" json:"title"`
	Link            string     `db:"link" json:"link"`
	Author          *string    `db:"author" json:"author,omitempty"`
	PublicationDate *time.Time `db:"publication_date" json:"publication_date,omitempty"`
	Source          string     `db:"source" json:"source"`
	Content         *string    `db:"content" json:"content,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// ArticleDraft is the raw candidate produced by a site extractor. Fields are
// unvalidated and may be empty; Date carries a date the extractor already
// parsed, DateText the free-form text otherwise.
type ArticleDraft struct {
	Title    string
	Link     string
	Author   string
	Source   string
	Content  string
	Date     *time.Time
	DateText string
}

// Validate promotes the draft to a typed Article or reports which fields
// failed. Date parse misses are not failures: the field resolves to absent.
func (d ArticleDraft) Validate() (*Article, error) {
	verr := &ValidationError{}

	title := strings.TrimSpace(d.Title)
	if title == "" {
		verr.add("title", "must not be empty or whitespace")
	}
	source := strings.TrimSpace(d.Source)
	if source == "" {
		verr.add("source", "must not be empty or whitespace")
	}
	if !validLink(d.Link) {
		verr.add("link", "must be an absolute http(s) URL")
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	date := d.Date
	if date == nil {
		date = ParseDate(d.DateText)
	}

	return &Article{
		Title:           title,
		Link:            d.Link,
		Author:          optional(d.Author),
		PublicationDate: date,
		Source:          source,
		Content:         optional(d.Content),
	}, nil
}
