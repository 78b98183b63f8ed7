// Package validation holds the request schemas for every resource and converts
// validated wire values into domain values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

var (
	plantNamePattern = regexp.MustCompile(`^[A-Za-z0-9 '\-]+$`)
	usernamePattern  = regexp.MustCompile(`^[A-Za-z0-9._\-]+$`)
	zonePattern      = regexp.MustCompile(`^[0-9]{1,2}[ab]?$`)
	zipPattern       = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)

	timeType = reflect.TypeOf(time.Time{})
)

// enumCheckers maps the `enum=<name>` tag parameter to a membership test.
var enumCheckers = map[string]func(string) bool{
	"garden_type":    func(s string) bool { _, ok := domain.GardenTypeNames.Parse(s); return ok },
	"growing_season": func(s string) bool { _, ok := domain.GrowingSeasons.Parse(s); return ok },
	"water_needs":    func(s string) bool { _, ok := domain.WaterNeedsLevels.Parse(s); return ok },
	"sunlight":       func(s string) bool { _, ok := domain.SunlightLevels.Parse(s); return ok },
	"space_required": func(s string) bool { _, ok := domain.SpaceRequirements.Parse(s); return ok },
	"growth_stage":   func(s string) bool { _, ok := domain.GrowthStages.Parse(s); return ok },
}

var enumWireValues = map[string][]string{
	"garden_type":    domain.GardenTypeNames.WireValues(),
	"growing_season": domain.GrowingSeasons.WireValues(),
	"water_needs":    domain.WaterNeedsLevels.WireValues(),
	"sunlight":       domain.SunlightLevels.WireValues(),
	"space_required": domain.SpaceRequirements.WireValues(),
	"growth_stage":   domain.GrowthStages.WireValues(),
}

// Validator runs schema checks and renders failures as field-keyed messages.
type Validator struct {
	v   *validator.Validate
	now domain.Clock
}

// New builds a Validator. now drives the "future" rule; nil means time.Now.
func New(now domain.Clock) *Validator {
	if now == nil {
		now = time.Now
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(unwrapNullable[string], domain.Nullable[string]{})
	v.RegisterCustomTypeFunc(unwrapNullable[bool], domain.Nullable[bool]{})
	v.RegisterCustomTypeFunc(unwrapNullable[float64], domain.Nullable[float64]{})
	v.RegisterCustomTypeFunc(unwrapNullable[PlantList], domain.Nullable[PlantList]{})

	val := &Validator{v: v, now: now}
	mustRegister(v, "plantname", matchString(plantNamePattern))
	mustRegister(v, "username", matchString(usernamePattern))
	mustRegister(v, "zone", matchString(zonePattern))
	mustRegister(v, "zip", matchString(zipPattern))
	mustRegister(v, "password", passwordComplexity)
	mustRegister(v, "listitem", listItem)
	mustRegister(v, "enum", enumMember)
	mustRegister(v, "future", val.future)
	return val
}

// ValidZip reports whether s is a US ZIP or ZIP+4 code.
func ValidZip(s string) bool {
	return zipPattern.MatchString(s)
}

// unwrapNullable hands the wrapped value to the field rules. Unset and null
// fields yield nil, which omitempty skips.
func unwrapNullable[T any](field reflect.Value) any {
	n, ok := field.Interface().(domain.Nullable[T])
	if !ok || n.Value == nil {
		return nil
	}
	return *n.Value
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// passwordComplexity requires an upper, a lower, a digit and a symbol.
func passwordComplexity(fl validator.FieldLevel) bool {
	var upper, lower, digit, symbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// listItem rejects empty items and items that would break the stored encoding.
func listItem(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.TrimSpace(s) != "" && !strings.Contains(s, domain.PlantListSeparator)
}

func enumMember(fl validator.FieldLevel) bool {
	check, ok := enumCheckers[fl.Param()]
	if !ok {
		return false
	}
	return check(fl.Field().String())
}

func (val *Validator) future(fl validator.FieldLevel) bool {
	f := fl.Field()
	if !f.Type().ConvertibleTo(timeType) {
		return false
	}
	t := f.Convert(timeType).Interface().(time.Time)
	return t.After(val.now())
}

// Struct validates s. Failures come back as a ValidationFailed *domain.Error.
func (val *Validator) Struct(s any) error {
	return val.check(s, false)
}

// StructRequired is Struct, except that a missing required field is reported
// as BadRequest rather than ValidationFailed.
func (val *Validator) StructRequired(s any) error {
	return val.check(s, true)
}

func (val *Validator) check(s any, missingIsBadRequest bool) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Internal(fmt.Errorf("failed to validate request: %w", err))
	}

	details := make(map[string][]string)
	var missing []string
	for _, fe := range fieldErrs {
		field := fieldName(fe)
		if fe.Tag() == "required" {
			missing = append(missing, field)
		}
		details[field] = append(details[field], message(fe))
	}
	if missingIsBadRequest && len(missing) > 0 {
		sort.Strings(missing)
		e := domain.BadRequest("missing required fields: " + strings.Join(missing, ", "))
		e.Details = details
		return e
	}
	return domain.Validation(details)
}

// fieldName strips the struct name from the namespace: "RegisterRequest.email" -> "email".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "eqfield":
		return "must match " + lowerFirst(fe.Param())
	case "plantname":
		return "may only contain letters, digits, spaces, apostrophes and hyphens"
	case "username":
		return "may only contain letters, digits, periods, underscores and hyphens"
	case "password":
		return "must contain an uppercase letter, a lowercase letter, a digit and a symbol"
	case "zone":
		return "must be a hardiness zone such as 7a"
	case "zip":
		return "must be a 5-digit ZIP code"
	case "listitem":
		return "items must be non-empty and must not contain commas"
	case "enum":
		return "must be one of: " + strings.Join(enumWireValues[fe.Param()], ", ")
	case "future":
		return "must be in the future"
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
