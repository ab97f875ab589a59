package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cater-menu-backend/internal/models"
	"cater-menu-backend/internal/service"
	"cater-menu-backend/pkg/cache"
	"cater-menu-backend/pkg/validator"
)

type stubEventRepo struct {
	events []models.MenuEvent
	nextID uint
}

func (s *stubEventRepo) List() ([]models.MenuEvent, error) {
	return s.events, nil
}

func (s *stubEventRepo) ListUpcoming(from time.Time) ([]models.MenuEvent, error) {
	cutoff := from.Format("2006-01-02")
	var out []models.MenuEvent
	for _, e := range s.events {
		if e.EventDateISO >= cutoff {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEventRepo) ListPast(before time.Time) ([]models.MenuEvent, error) {
	cutoff := before.Format("2006-01-02")
	var out []models.MenuEvent
	for _, e := range s.events {
		if e.EventDateISO < cutoff {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEventRepo) GetByID(id uint) (*models.MenuEvent, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			return &s.events[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEventRepo) GetByDateAndSlug(dateISO, cuisineSlug string) (*models.MenuEvent, error) {
	for i := range s.events {
		if s.events[i].EventDateISO == dateISO && s.events[i].CuisineSlug == cuisineSlug {
			return &s.events[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEventRepo) Create(event *models.MenuEvent) error {
	s.nextID++
	event.ID = s.nextID
	s.events = append(s.events, *event)
	return nil
}

func (s *stubEventRepo) Replace(event *models.MenuEvent) error {
	for i := range s.events {
		if s.events[i].ID == event.ID {
			s.events[i] = *event
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubEventRepo) Delete(id uint) error {
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func testRouter(t *testing.T, repo *stubEventRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Init()

	c, err := cache.NewCache("", false)
	if err != nil {
		t.Fatalf("failed to build disabled cache: %v", err)
	}

	v := validator.New(validator.Options{
		RecognizedPreferences: []string{"VEGAN", "VEGETARIAN"},
		DateWindowDays:        365,
	})
	events := service.NewEventService(repo, c, v)

	menuHandler := NewMenuHandler(events, v)
	adminHandler := NewAdminHandler(events)

	router := gin.New()
	router.GET("/api/events", menuHandler.ListEvents)
	router.GET("/api/cuisines", menuHandler.ListCuisines)
	router.GET("/api/menu/:date/:slug", menuHandler.GetMenu)
	router.POST("/api/admin/events", adminHandler.CreateEvent)
	return router
}

func upcomingDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func seedEvent(repo *stubEventRepo, dateISO, cuisine, slug string) {
	repo.nextID++
	repo.events = append(repo.events, models.MenuEvent{
		ID:           repo.nextID,
		Cuisine:      cuisine,
		CuisineSlug:  slug,
		EventDateISO: dateISO,
		EventDate:    dateISO,
		Items: []models.MenuItem{
			{Title: "House Special", Description: "Chef's pick"},
		},
	})
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetMenuServesMatchingEvent(t *testing.T) {
	repo := &stubEventRepo{}
	date := upcomingDate(7)
	seedEvent(repo, date, "Thai Kitchen", "thai-kitchen")
	router := testRouter(t, repo)

	w := doRequest(router, http.MethodGet, "/api/menu/"+date+"/thai-kitchen", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Menu models.MenuEvent `json:"menu"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Menu.Cuisine != "Thai Kitchen" {
		t.Fatalf("expected Thai Kitchen, got %q", body.Menu.Cuisine)
	}
}

func TestGetMenuMissesAreNotFound(t *testing.T) {
	repo := &stubEventRepo{}
	date := upcomingDate(7)
	seedEvent(repo, date, "Thai Kitchen", "thai-kitchen")
	router := testRouter(t, repo)

	targets := []string{
		"/api/menu/" + date + "/olive-and-basil",         // unknown cuisine
		"/api/menu/" + upcomingDate(8) + "/thai-kitchen", // wrong date
		"/api/menu/not-a-date/thai-kitchen",              // malformed date
		"/api/menu/" + date + "/Thai_Kitchen",            // malformed slug
	}
	for _, target := range targets {
		w := doRequest(router, http.MethodGet, target, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Menu not found") {
			t.Errorf("%s: unexpected body %s", target, w.Body.String())
		}
	}
}

func TestListCuisinesEnvelope(t *testing.T) {
	repo := &stubEventRepo{}
	seedEvent(repo, upcomingDate(3), "Thai Kitchen", "thai-kitchen")
	seedEvent(repo, upcomingDate(4), "Olive & Basil", "olive-and-basil")
	router := testRouter(t, repo)

	w := doRequest(router, http.MethodGet, "/api/cuisines?q=thai", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success    bool                     `json:"success"`
		Data       []models.AvailableCuisine `json:"data"`
		Pagination models.Pagination         `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success {
		t.Fatal("expected success envelope")
	}
	if len(body.Data) != 1 || body.Data[0].CuisineSlug != "thai-kitchen" {
		t.Fatalf("unexpected data: %+v", body.Data)
	}
	if body.Pagination.Total != 1 {
		t.Fatalf("expected total 1, got %d", body.Pagination.Total)
	}
}

func TestListCuisinesRejectsBadPagination(t *testing.T) {
	router := testRouter(t, &stubEventRepo{})

	w := doRequest(router, http.MethodGet, "/api/cuisines?limit=500", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "field_errors") {
		t.Fatalf("expected field errors in body: %s", w.Body.String())
	}
}

func TestCreateEventReportsFieldErrors(t *testing.T) {
	router := testRouter(t, &stubEventRepo{})

	payload := `{"cuisine":"","event_date":"Someday","event_date_iso":"` + upcomingDate(5) + `","menu_items":[{"title":"","description":"Fine"}]}`
	w := doRequest(router, http.MethodPost, "/api/admin/events", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Error       string                `json:"error"`
		FieldErrors []validator.FieldError `json:"field_errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error != "Validation failed" {
		t.Fatalf("unexpected error message %q", body.Error)
	}
	if len(body.FieldErrors) < 2 {
		t.Fatalf("expected failures for cuisine and item title, got %+v", body.FieldErrors)
	}
}

func TestCreateEventBindingRulesRunFirst(t *testing.T) {
	router := testRouter(t, &stubEventRepo{})

	// Malformed date shape and missing items are caught at the binding
	// layer, before the service-level validator runs.
	payload := `{"cuisine":"Thai Kitchen","event_date":"Someday","event_date_iso":"17-03-2025"}`
	w := doRequest(router, http.MethodPost, "/api/admin/events", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Error       string                 `json:"error"`
		FieldErrors []validator.FieldError `json:"field_errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error != "Validation failed" {
		t.Fatalf("unexpected error message %q", body.Error)
	}

	fields := make(map[string]bool, len(body.FieldErrors))
	for _, fe := range body.FieldErrors {
		fields[fe.Field] = true
	}
	if !fields["event_date_iso"] || !fields["menu_items"] {
		t.Fatalf("expected date and item failures, got %+v", body.FieldErrors)
	}

	// A body that is not JSON at all stays a generic bad request.
	w = doRequest(router, http.MethodPost, "/api/admin/events", "not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "field_errors") {
		t.Fatalf("expected no field errors for malformed body: %s", w.Body.String())
	}
}

func TestCreateEventRejectsDuplicateIdentity(t *testing.T) {
	router := testRouter(t, &stubEventRepo{})
	date := upcomingDate(6)

	payload := `{"cuisine":"Olive & Basil","event_date":"Someday","event_date_iso":"` + date + `","menu_items":[{"title":"Pasta","description":"Fresh pasta"}]}`
	if w := doRequest(router, http.MethodPost, "/api/admin/events", payload); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := doRequest(router, http.MethodPost, "/api/admin/events", payload); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate identity, got %d: %s", w.Code, w.Body.String())
	}
}
