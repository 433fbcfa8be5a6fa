package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	playground "github.com/go-playground/validator/v10"
)

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
}

// Config mirrors the validation middleware configuration: extra tags and
// message templates keyed by tag. Templates receive the field label and the
// tag parameter.
type Config struct {
	CustomValidators map[string]playground.Func
	Messages         map[string]string
}

func DefaultMessages() map[string]string {
	return map[string]string{
		"required":  "%s is required",
		"email":     "%s must be a valid email",
		"min":       "%s must be at least %s characters long",
		"max":       "%s must not exceed %s characters",
		"oneof":     "%s must be one of: %s",
		"eqfield":   "%s does not match",
		"datetime":  "%s is not a valid value",
		"eq":        "%s must be accepted",
		"isodate":   "%s must be a date in YYYY-MM-DD format",
		"notfuture": "%s cannot be a future date",
	}
}

type validator struct {
	engine   *playground.Validate
	messages map[string]string
}

func New(cfg Config) (Validator, error) {
	engine := playground.New()
	engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	for tag, fn := range cfg.CustomValidators {
		if err := engine.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %q: %w", tag, err)
		}
	}

	messages := DefaultMessages()
	for tag, msg := range cfg.Messages {
		messages[tag] = msg
	}

	return &validator{engine: engine, messages: messages}, nil
}

// Validate returns nil or an error whose text is the first violation in a
// human readable form, e.g. "Date of birth cannot be a future date".
func (v *validator) Validate(obj interface{}) error {
	err := v.engine.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	first := verrs[0]
	tmpl, ok := v.messages[first.Tag()]
	if !ok {
		return fmt.Errorf("%s is invalid", Label(first.Field()))
	}
	switch strings.Count(tmpl, "%s") {
	case 0:
		return errors.New(tmpl)
	case 1:
		return fmt.Errorf(tmpl, Label(first.Field()))
	default:
		return fmt.Errorf(tmpl, Label(first.Field()), first.Param())
	}
}

// Label turns a camelCase json field name into a sentence-cased label:
// "dateOfBirth" -> "Date of birth".
func Label(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
