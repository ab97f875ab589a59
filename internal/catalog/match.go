package catalog

import (
	"regexp"

	"cater-menu-backend/internal/models"
	"cater-menu-backend/pkg/logger"
	"cater-menu-backend/pkg/slug"
)

var isoDateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Match resolves a requested (date, cuisine slug) pair against a catalog
// snapshot. A menu exists iff some event has the same ISO date and its
// cuisine name canonicalizes to the requested slug. Absence is an ordinary
// outcome, not an error: the second return is false and the caller routes to
// a not-found response.
//
// The catalog is expected to hold at most one event per (date, slug) pair;
// if it does not, the first match in catalog order wins and the duplicate is
// logged.
func Match(dateISO, cuisineSlug string, events []models.MenuEvent) (*models.MenuEvent, bool) {
	if !isoDateShape.MatchString(dateISO) || !slug.IsValid(cuisineSlug) {
		return nil, false
	}

	var found *models.MenuEvent
	for i := range events {
		event := &events[i]
		canonical, err := slug.Canonicalize(event.Cuisine)
		if err != nil {
			// A single malformed catalog entry must not abort the scan.
			logger.Warn("Skipping catalog entry with uncanonicalizable cuisine", map[string]interface{}{
				"cuisine": event.Cuisine,
				"date":    event.EventDateISO,
				"error":   err.Error(),
			})
			continue
		}

		if event.EventDateISO != dateISO || canonical != cuisineSlug {
			continue
		}

		if found != nil {
			logger.Warn("Catalog contains duplicate menu identity", map[string]interface{}{
				"date": dateISO,
				"slug": cuisineSlug,
			})
			break
		}
		found = event
	}

	if found == nil {
		return nil, false
	}
	return found, true
}

// Exists reports whether any catalog entry matches the requested pair.
func Exists(dateISO, cuisineSlug string, events []models.MenuEvent) bool {
	_, ok := Match(dateISO, cuisineSlug, events)
	return ok
}
