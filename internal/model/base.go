package model

import (
	"strings"
	"time"
)

// DefaultPageSize is the fixed page size of every list view.
const DefaultPageSize = 10

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Filters holds the user-chosen narrowing criteria of a list view. Empty
// fields are not sent.
type Filters struct {
	Search string `json:"search,omitempty" form:"search"`
	Status string `json:"status,omitempty" form:"status"`
	Date   string `json:"date,omitempty" form:"date"`
}

// ListQuery is a page request against a collection endpoint. Page is 1-based.
type ListQuery struct {
	Filters
	DoctorID  string `json:"doctorId,omitempty" form:"doctorId"`
	PatientID string `json:"patientId,omitempty" form:"patientId"`
	Page      int    `json:"page" form:"page"`
	Limit     int    `json:"limit" form:"limit"`
}

// Normalize clamps Page and Limit to usable values.
func (q *ListQuery) Normalize(maxLimit int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
}

// Offset of the first row of the page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page is the wire shape of a paginated collection response.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// MessageResponse is the body of acknowledgements and errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// DateOnly strips a time component from an ISO timestamp, leaving
// YYYY-MM-DD. Anything shorter is returned unchanged.
func DateOnly(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

// ParseDate accepts YYYY-MM-DD or a full ISO timestamp and returns the
// calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, DateOnly(s))
}

// Today returns now's calendar date at midnight UTC so it can be compared
// with ParseDate results.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SplitList turns comma separated free text into trimmed, non-empty items.
func SplitList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// JoinList is the inverse of SplitList used when seeding edit forms.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}
