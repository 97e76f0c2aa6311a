package validation

import (
	"database/sql/driver"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Phone: optional leading +, digits with spaces or dashes, 7 to 15 digits
	PhonePattern = `^\+?[0-9][0-9 \-]{5,18}[0-9]$`

	// Clock: 24h HH:MM
	ClockPattern = `^([01][0-9]|2[0-3]):[0-5][0-9]$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
	Phone *regexp.Regexp
	Clock *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	Phone: regexp.MustCompile(PhonePattern),
	Clock: regexp.MustCompile(ClockPattern),
}

var weekdays = map[string]struct{}{
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {},
	"Friday": {}, "Saturday": {}, "Sunday": {},
}

// New builds a validator with the school-specific tags (weekday, clock, phone).
// valuerTypes are struct types implementing driver.Valuer that should be
// validated as their underlying value (foreign-key references).
func New(valuerTypes ...any) *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := weekdays[fl.Field().String()]
		return ok
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Clock.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Phone.MatchString(fl.Field().String())
	})

	if len(valuerTypes) > 0 {
		v.RegisterCustomTypeFunc(valuerValue, valuerTypes...)
	}
	return v
}

func valuerValue(field reflect.Value) interface{} {
	valuer, ok := field.Interface().(driver.Valuer)
	if !ok {
		return nil
	}
	val, err := valuer.Value()
	if err != nil {
		return nil
	}
	return val
}

// StringValidation is a fluent check for a single string value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && v.Value == "" {
		return false
	}
	if !v.Required && v.Value == "" {
		return true
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}
