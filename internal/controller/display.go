package controller

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jwalitptl/admin-console/internal/model"
)

// Age returns the completed years between birth and now. ok is false when
// birth cannot be parsed or lies in the future.
func Age(birth string, now time.Time) (years int, ok bool) {
	b, err := model.ParseDate(birth)
	if err != nil {
		return 0, false
	}
	today := model.Today(now)
	if b.After(today) {
		return 0, false
	}

	years = today.Year() - b.Year()
	if today.Month() < b.Month() || (today.Month() == b.Month() && today.Day() < b.Day()) {
		years--
	}
	return years, true
}

// Initials upper-cases the first letter of the first two words of name.
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func HasPrev(page int) bool {
	return page > 1
}

func HasNext(page, total, pageSize int) bool {
	return page < PageCount(total, pageSize)
}
