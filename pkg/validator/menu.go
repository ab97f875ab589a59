package validator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"cater-menu-backend/internal/models"
)

// typedLength measures what the submitter actually wrote: trimmed, before
// entity escaping inflates it, counted in characters.
func typedLength(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

const (
	maxCuisineLength     = 200
	maxTitleLength       = 200
	maxDescriptionLength = 1000
	maxAllergenLength    = 100
	maxMenuItems         = 50
	maxSearchLength      = 100

	maxUsernameLength = 50
	minPasswordLength = 8
	maxPasswordLength = 128

	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Options carries the policy knobs that are deliberately not hard-coded: the
// recognized preference set evolves by configuration, and the read-path date
// window is policy, not a structural requirement.
type Options struct {
	RecognizedPreferences []string
	DateWindowDays        int
	Now                   func() time.Time
}

type MenuValidator struct {
	preferences map[string]struct{}
	windowDays  int
	now         func() time.Time
}

func New(opts Options) *MenuValidator {
	prefs := make(map[string]struct{}, len(opts.RecognizedPreferences))
	for _, p := range opts.RecognizedPreferences {
		prefs[p] = struct{}{}
	}

	windowDays := opts.DateWindowDays
	if windowDays <= 0 {
		windowDays = 365
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &MenuValidator{
		preferences: prefs,
		windowDays:  windowDays,
		now:         now,
	}
}

// ValidateEvent checks an admin submission and returns its sanitized form.
// This is the write path: the event date must not be in the past. All
// offending fields are reported together.
func (v *MenuValidator) ValidateEvent(req models.CreateEventRequest) (models.CreateEventRequest, error) {
	var errs ValidationErrors
	out := models.CreateEventRequest{}

	cuisine := SanitizePlainText(req.Cuisine)
	switch {
	case cuisine == "":
		errs.add("cuisine", "cuisine name is required")
	case typedLength(cuisine) > maxCuisineLength:
		errs.add("cuisine", fmt.Sprintf("cuisine name must be at most %d characters", maxCuisineLength))
	}
	out.Cuisine = cuisine
	out.EventDate = SanitizeString(req.EventDate)

	out.EventDateISO = req.EventDateISO
	if date, err := parseISODate(req.EventDateISO); err != nil {
		errs.add("event_date_iso", err.Error())
	} else if date.Before(v.today()) {
		errs.add("event_date_iso", "event date must not be in the past")
	}

	switch {
	case len(req.MenuItems) == 0:
		errs.add("menu_items", "at least one menu item is required")
	case len(req.MenuItems) > maxMenuItems:
		errs.add("menu_items", fmt.Sprintf("at most %d menu items are allowed", maxMenuItems))
	}

	out.MenuItems = make([]models.MenuItemRequest, 0, len(req.MenuItems))
	for i, item := range req.MenuItems {
		sanitized := v.validateItem(i, item, &errs)
		out.MenuItems = append(out.MenuItems, sanitized)
	}

	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

func (v *MenuValidator) validateItem(index int, item models.MenuItemRequest, errs *ValidationErrors) models.MenuItemRequest {
	field := func(name string) string {
		return fmt.Sprintf("menu_items[%d].%s", index, name)
	}

	out := models.MenuItemRequest{}

	title := SanitizeString(item.Title)
	switch {
	case title == "":
		errs.add(field("title"), "title is required")
	case typedLength(item.Title) > maxTitleLength:
		errs.add(field("title"), fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	out.Title = title

	description := SanitizeString(item.Description)
	switch {
	case description == "":
		errs.add(field("description"), "description is required")
	case typedLength(item.Description) > maxDescriptionLength:
		errs.add(field("description"), fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	out.Description = description

	out.Preferences = make([]string, 0, len(item.Preferences))
	for _, pref := range item.Preferences {
		if _, ok := v.preferences[pref]; !ok {
			errs.add(field("preferences"), fmt.Sprintf("unrecognized preference %q", pref))
			continue
		}
		out.Preferences = append(out.Preferences, pref)
	}

	out.Allergens = make([]string, 0, len(item.Allergens))
	for _, allergen := range item.Allergens {
		cleaned := SanitizeString(allergen)
		if cleaned == "" {
			continue
		}
		if typedLength(allergen) > maxAllergenLength {
			errs.add(field("allergens"), fmt.Sprintf("allergen label must be at most %d characters", maxAllergenLength))
			continue
		}
		out.Allergens = append(out.Allergens, cleaned)
	}

	return out
}

// ValidateRouteParams guards the two route segments of the public menu URL
// before the catalog is consulted. This is the read path: past dates are
// allowed as long as they fall inside the configured window.
func (v *MenuValidator) ValidateRouteParams(dateISO, cuisineSlug string) error {
	var errs ValidationErrors

	date, err := parseISODate(dateISO)
	if err != nil {
		errs.add("date", err.Error())
	} else {
		today := v.today()
		window := time.Duration(v.windowDays) * 24 * time.Hour
		if date.Before(today.Add(-window)) || date.After(today.Add(window)) {
			errs.add("date", "date is outside the supported range")
		}
	}

	if cuisineSlug == "" || len(cuisineSlug) > 100 || !IsValidSlug(cuisineSlug) {
		errs.add("cuisine", "cuisine must be a lowercase hyphenated slug")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateLogin checks admin credentials. The username is sanitized before
// validation, so markup smuggled into it fails the character-set rule rather
// than passing through escaped.
func (v *MenuValidator) ValidateLogin(req models.LoginRequest) (models.LoginRequest, error) {
	var errs ValidationErrors
	out := models.LoginRequest{}

	username := SanitizeString(req.Username)
	switch {
	case username == "":
		errs.add("username", "username is required")
	case typedLength(req.Username) > maxUsernameLength:
		errs.add("username", fmt.Sprintf("username must be at most %d characters", maxUsernameLength))
	case !usernameRegex.MatchString(username):
		errs.add("username", "username may only contain letters, digits, hyphens and underscores")
	}
	out.Username = username

	password := req.Password
	out.Password = password
	switch {
	case len(password) < minPasswordLength:
		errs.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	case len(password) > maxPasswordLength:
		errs.add("password", fmt.Sprintf("password must be at most %d characters", maxPasswordLength))
	default:
		var hasLower, hasUpper, hasDigit bool
		for _, r := range password {
			switch {
			case r >= 'a' && r <= 'z':
				hasLower = true
			case r >= 'A' && r <= 'Z':
				hasUpper = true
			case r >= '0' && r <= '9':
				hasDigit = true
			}
		}
		if !hasLower || !hasUpper || !hasDigit {
			errs.add("password", "password must contain a lowercase letter, an uppercase letter and a digit")
		}
	}

	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

// SearchQuery is the validated form of the public listing query string.
type SearchQuery struct {
	Q     string
	Page  int
	Limit int
}

// ValidateSearchQuery applies defaults and bounds to raw query parameters.
func (v *MenuValidator) ValidateSearchQuery(q, page, limit string) (SearchQuery, error) {
	var errs ValidationErrors
	out := SearchQuery{Page: defaultPage, Limit: defaultLimit}

	cleaned := SanitizeString(q)
	if typedLength(q) > maxSearchLength {
		errs.add("q", fmt.Sprintf("search query must be at most %d characters", maxSearchLength))
	}
	out.Q = cleaned

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			errs.add("page", "page must be a positive integer")
		} else {
			out.Page = n
		}
	}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > maxLimit {
			errs.add("limit", fmt.Sprintf("limit must be between 1 and %d", maxLimit))
		} else {
			out.Limit = n
		}
	}

	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

// today truncates the injected clock to a UTC calendar date, matching the
// date-only resolution of parsed event dates.
func (v *MenuValidator) today() time.Time {
	now := v.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseISODate(s string) (time.Time, error) {
	if !isValidISODateShape(s) {
		return time.Time{}, fmt.Errorf("date must use the YYYY-MM-DD format")
	}
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date is not a valid calendar date")
	}
	return date, nil
}
