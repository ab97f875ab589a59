package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"cater-menu-backend/internal/catalog"
	"cater-menu-backend/internal/models"
	"cater-menu-backend/internal/repository"
	"cater-menu-backend/pkg/cache"
	"cater-menu-backend/pkg/logger"
	"cater-menu-backend/pkg/slug"
	"cater-menu-backend/pkg/validator"
)

const (
	catalogCacheKey      = "events:catalog"
	cuisinesCacheKeyBase = "events:cuisines"
	catalogCacheTTL      = 5 * time.Minute
)

type EventService struct {
	repo      repository.EventRepository
	cache     *cache.Cache
	validator *validator.MenuValidator
	now       func() time.Time
}

func NewEventService(repo repository.EventRepository, c *cache.Cache, v *validator.MenuValidator) *EventService {
	return &EventService{
		repo:      repo,
		cache:     c,
		validator: v,
		now:       time.Now,
	}
}

// Catalog returns the full event catalog, served from cache when possible.
// Every lookup operates on this snapshot; concurrent requests never share
// mutable state.
func (s *EventService) Catalog() ([]models.MenuEvent, error) {
	var events []models.MenuEvent
	if err := s.cache.Get(catalogCacheKey, &events); err == nil {
		return events, nil
	}

	events, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(catalogCacheKey, events, catalogCacheTTL); err != nil {
		logger.Warn("Failed to cache event catalog", map[string]interface{}{"error": err.Error()})
	}
	return events, nil
}

func (s *EventService) ListUpcoming() ([]models.MenuEvent, error) {
	return s.repo.ListUpcoming(s.today())
}

func (s *EventService) ListPast() ([]models.MenuEvent, error) {
	return s.repo.ListPast(s.today())
}

// Resolve answers "does this menu exist, and which one is it" for a public
// route request. Shape validation happens before the catalog is consulted;
// both a malformed request and a well-formed miss resolve to ErrMenuNotFound.
func (s *EventService) Resolve(dateISO, cuisineSlug string) (*models.MenuEvent, error) {
	if err := s.validator.ValidateRouteParams(dateISO, cuisineSlug); err != nil {
		logger.Debug("Rejected menu route params", map[string]interface{}{
			"date":  dateISO,
			"slug":  cuisineSlug,
			"error": err.Error(),
		})
		return nil, ErrMenuNotFound
	}

	events, err := s.Catalog()
	if err != nil {
		return nil, err
	}

	event, ok := catalog.Match(dateISO, cuisineSlug, events)
	if !ok {
		return nil, ErrMenuNotFound
	}
	return event, nil
}

// Create validates, sanitizes and persists an admin submission as a new
// event. The cuisine slug is derived here once and stored; the identity pair
// (date, slug) must be unique.
func (s *EventService) Create(req models.CreateEventRequest) (*models.MenuEvent, error) {
	sanitized, err := s.validator.ValidateEvent(req)
	if err != nil {
		return nil, err
	}

	event, err := s.buildEvent(sanitized)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByDateAndSlug(event.EventDateISO, event.CuisineSlug); err == nil && existing != nil {
		return nil, ErrDuplicateEvent
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.repo.Create(event); err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return event, nil
}

// Update replaces the stored event with a new value built from the
// submission; nothing is patched in place.
func (s *EventService) Update(id uint, req models.UpdateEventRequest) (*models.MenuEvent, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}

	sanitized, err := s.validator.ValidateEvent(req)
	if err != nil {
		return nil, err
	}

	event, err := s.buildEvent(sanitized)
	if err != nil {
		return nil, err
	}
	event.ID = id

	if existing, err := s.repo.GetByDateAndSlug(event.EventDateISO, event.CuisineSlug); err == nil && existing != nil && existing.ID != id {
		return nil, ErrDuplicateEvent
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.repo.Replace(event); err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return event, nil
}

func (s *EventService) Delete(id uint) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidateCatalog()
	return nil
}

// cuisineListing is the cached form of one listing page.
type cuisineListing struct {
	Data       []models.AvailableCuisine `json:"data"`
	Pagination models.Pagination         `json:"pagination"`
}

// AvailableCuisines lists the catalog in the shape the public menu browser
// consumes, with optional substring search and pagination. Pages are cached
// per query and invalidated together with the catalog.
func (s *EventService) AvailableCuisines(query validator.SearchQuery) ([]models.AvailableCuisine, models.Pagination, error) {
	cacheKey := fmt.Sprintf("%s:%s:%d:%d", cuisinesCacheKeyBase, query.Q, query.Page, query.Limit)
	var cached cuisineListing
	if err := s.cache.Get(cacheKey, &cached); err == nil {
		return cached.Data, cached.Pagination, nil
	}

	events, err := s.Catalog()
	if err != nil {
		return nil, models.Pagination{}, err
	}

	matched := make([]models.AvailableCuisine, 0, len(events))
	needle := strings.ToLower(query.Q)
	for _, event := range events {
		if needle != "" && !strings.Contains(strings.ToLower(event.Cuisine), needle) {
			continue
		}
		canonical, err := slug.Canonicalize(event.Cuisine)
		if err != nil {
			logger.Warn("Skipping listing entry with uncanonicalizable cuisine", map[string]interface{}{
				"cuisine": event.Cuisine,
				"error":   err.Error(),
			})
			continue
		}
		matched = append(matched, models.AvailableCuisine{
			CuisineSlug: canonical,
			DateSlug:    event.EventDateISO,
			CuisineName: event.Cuisine,
			EventDate:   event.EventDate,
		})
	}

	total := int64(len(matched))
	start := (query.Page - 1) * query.Limit
	end := start + query.Limit
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	pagination := models.Pagination{
		Page:    query.Page,
		Limit:   query.Limit,
		Total:   total,
		HasMore: int64(end) < total,
	}
	page := matched[start:end]

	if err := s.cache.Set(cacheKey, cuisineListing{Data: page, Pagination: pagination}, catalogCacheTTL); err != nil {
		logger.Warn("Failed to cache cuisine listing", map[string]interface{}{"error": err.Error()})
	}
	return page, pagination, nil
}

func (s *EventService) buildEvent(req models.CreateEventRequest) (*models.MenuEvent, error) {
	canonical, err := slug.Canonicalize(req.Cuisine)
	if err != nil {
		return nil, validator.ValidationErrors{{Field: "cuisine", Message: "cuisine name cannot be turned into a URL slug"}}
	}

	items := make([]models.MenuItem, 0, len(req.MenuItems))
	for i, item := range req.MenuItems {
		items = append(items, models.MenuItem{
			Position:    i,
			Title:       item.Title,
			Description: item.Description,
			Preferences: models.StringList(item.Preferences),
			Allergens:   models.StringList(item.Allergens),
		})
	}

	return &models.MenuEvent{
		Cuisine:      req.Cuisine,
		CuisineSlug:  canonical,
		EventDate:    req.EventDate,
		EventDateISO: req.EventDateISO,
		Items:        items,
	}, nil
}

func (s *EventService) invalidateCatalog() {
	if err := s.cache.Delete(catalogCacheKey); err != nil {
		logger.Warn("Failed to invalidate catalog cache", map[string]interface{}{"error": err.Error()})
	}
	if err := s.cache.DeletePattern(cuisinesCacheKeyBase + ":*"); err != nil {
		logger.Warn("Failed to invalidate cuisine listings", map[string]interface{}{"error": err.Error()})
	}
}

func (s *EventService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
