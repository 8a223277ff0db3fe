package models

import (
	"strings"
	"time"
)

// CarReview is a validated car review record, a row in the car_reviews table.
type CarReview struct {
	Title           string     `db:"title" json:"title"`
	Link            string     `db:"link" json:"link"`
	Author          *string    `db:"author" json:"author,omitempty"`
	PublicationDate *time.Time `db:"publication_date" json:"publication_date,omitempty"`
	Source          string     `db:"source" json:"source"`
	Verdict         *string    `db:"verdict" json:"verdict,omitempty"`
	Rating          *float64   `db:"rating" json:"rating,omitempty"`
	Price           *int64     `db:"price" json:"price,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// ReviewDraft is the raw candidate produced by a review-site extractor.
// Rating and Price hold values the extractor already derived; the *Text
// fields hold free-form text still to be parsed. Validation never promotes
// an unparseable optional to a failure.
type ReviewDraft struct {
	Title      string
	Link       string
	Author     string
	Source     string
	Verdict    string
	Date       *time.Time
	DateText   string
	Rating     *float64
	RatingText string
	Price      *int64
	PriceText  string
}

// Validate promotes the draft to a typed CarReview or reports which fields
// failed. Price and rating parse misses resolve to absent.
func (d ReviewDraft) Validate() (*CarReview, error) {
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

	rating := d.Rating
	if rating == nil && d.RatingText != "" {
		rating = ParseRating(d.RatingText)
	}

	price := d.Price
	if price == nil && d.PriceText != "" {
		price = ParsePrice(d.PriceText)
	}

	return &CarReview{
		Title:           title,
		Link:            d.Link,
		Author:          optional(d.Author),
		PublicationDate: date,
		Source:          source,
		Verdict:         optional(d.Verdict),
		Rating:          rating,
		Price:           price,
	}, nil
}
