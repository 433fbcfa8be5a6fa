package validator

import (
	"time"

	playground "github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// ISODate accepts YYYY-MM-DD, optionally followed by a time component.
func ISODate(fl playground.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := parseDate(value)
	return err == nil
}

// NotFuture rejects calendar dates after today's date as given by now.
// Unparseable values pass; ISODate reports them.
func NotFuture(now func() time.Time) playground.Func {
	return func(fl playground.FieldLevel) bool {
		date, err := parseDate(fl.Field().String())
		if err != nil {
			return true
		}
		y, m, d := now().Date()
		return !date.After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
}

// DateRules registers isodate and notfuture against the given clock.
func DateRules(now func() time.Time) map[string]playground.Func {
	return map[string]playground.Func{
		"isodate":   ISODate,
		"notfuture": NotFuture(now),
	}
}

func parseDate(value string) (time.Time, error) {
	if len(value) > len(dateLayout) && value[len(dateLayout)] == 'T' {
		value = value[:len(dateLayout)]
	}
	return time.Parse(dateLayout, value)
}
