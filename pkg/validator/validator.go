package validator

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate  *validator.Validate
	stripper  *bluemonday.Policy
	sanitizer *strings.Replacer
)

var (
	slugRegex     = regexp.MustCompile(`^[a-z0-9-]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func Init() {
	validate = validator.New()
	// Request structs declare their rules with `binding` tags so the same
	// rules apply whether a struct arrives through gin or through Validate.
	validate.SetTagName("binding")
	stripper = bluemonday.StrictPolicy()

	// The escape set mirrors what the rendering layer must never receive
	// raw: & < > " ' and /.
	sanitizer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
		"/", "&#x2F;",
	)

	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	// Report field errors under their json names so binding failures use the
	// same field paths as MenuValidator.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("cuisine_slug", validateCuisineSlug)
	v.RegisterValidation("admin_username", validateAdminUsername)
	v.RegisterValidation("iso_date", validateISODateTag)
}

func Validate(s interface{}) error {
	if validate == nil {
		Init()
	}
	return validate.Struct(s)
}

// FromBindingError translates a go-playground validation failure, as produced
// by gin's ShouldBindJSON or by Validate, into ValidationErrors. The second
// return is false for anything else, such as a JSON syntax error.
func FromBindingError(err error) (ValidationErrors, bool) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, false
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{
			Field:   bindingFieldPath(fe.Namespace()),
			Message: bindingMessage(fe),
		})
	}
	return out, true
}

// bindingFieldPath drops the leading struct type name from a namespace like
// "CreateEventRequest.menu_items[0].title".
func bindingFieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "iso_date":
		return "must be a valid YYYY-MM-DD date"
	case "admin_username":
		return "may only contain letters, digits, hyphens and underscores"
	case "cuisine_slug":
		return "must be a lowercase hyphenated slug"
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", fe.Param())
	default:
		return "is invalid"
	}
}

// SanitizeString trims a free-text value and HTML-entity-escapes it. Every
// free-text field passes through here before it is considered valid; the
// validated output is the sanitized string, never the raw input.
func SanitizeString(s string) string {
	if sanitizer == nil {
		Init()
	}
	return sanitizer.Replace(strings.TrimSpace(s))
}

// StripTags removes markup wholesale. Used on parser-extracted text from the
// PDF ingestion path before the escaped form is produced.
func StripTags(s string) string {
	if stripper == nil {
		Init()
	}
	return stripper.Sanitize(s)
}

// SanitizePlainText strips markup and resolves entities back to plain text.
// Cuisine names go through here rather than SanitizeString: the canonical
// slug derivation must see a literal ampersand, not "&amp;", so identity
// fields are kept as plain text and escaped only at render time.
func SanitizePlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(StripTags(s)))
}

func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

func isValidISODateShape(s string) bool {
	return isoDateRegex.MatchString(s)
}

func validateCuisineSlug(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}

func validateAdminUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	return usernameRegex.MatchString(username) && len(username) <= 50
}

func validateISODateTag(fl validator.FieldLevel) bool {
	_, err := parseISODate(fl.Field().String())
	return err == nil
}
