package service

import (
	"encoding/json"
	"testing"

	"cater-menu-backend/internal/models"
)

type fakeUploadRepo struct {
	uploads []models.MenuUpload
}

func (f *fakeUploadRepo) Create(upload *models.MenuUpload) error {
	upload.ID = uint(len(f.uploads) + 1)
	f.uploads = append(f.uploads, *upload)
	return nil
}

func (f *fakeUploadRepo) List() ([]models.MenuUpload, error) {
	return f.uploads, nil
}

func parserOutput(t *testing.T, dateISO string) parsedMenu {
	t.Helper()
	raw := `{
		"weekday": "Wednesday",
		"iso_date": "` + dateISO + `",
		"cuisine": "  Olive &amp; Basil  ",
		"entrees_and_sides": [
			{"name": "Grilled Halloumi", "description": "With herbs", "preferences": ["VEGETARIAN"], "allergens": ["Dairy"]},
			{"name": "Roast Potatoes", "description": "", "preferences": ["VEGAN"]}
		],
		"salad_bar": [
			{"name": "Garden Salad", "description": "", "preferences": ["VEGAN"]}
		]
	}`
	var parsed parsedMenu
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return parsed
}

func TestToEventRequestNormalizesParserOutput(t *testing.T) {
	repo := &fakeEventRepo{}
	events := testEventService(t, repo)
	svc := NewUploadService(events, &fakeUploadRepo{}, "python3 parse_menu.py")

	req := svc.toEventRequest(parserOutput(t, futureDate(3)))

	if req.Cuisine != "Olive & Basil" {
		t.Fatalf("expected decoded cuisine, got %q", req.Cuisine)
	}
	if req.EventDate != "Wednesday" {
		t.Fatalf("unexpected event date %q", req.EventDate)
	}
	if len(req.MenuItems) != 3 {
		t.Fatalf("expected 3 items, got %d", len(req.MenuItems))
	}
	if req.MenuItems[0].Description != "With herbs" {
		t.Fatalf("unexpected description %q", req.MenuItems[0].Description)
	}

	// Empty descriptions fall back to the section label.
	if req.MenuItems[1].Description != "Entrées and sides" {
		t.Fatalf("unexpected fallback %q", req.MenuItems[1].Description)
	}
	if req.MenuItems[2].Description != "Salad bar" {
		t.Fatalf("unexpected fallback %q", req.MenuItems[2].Description)
	}
}

func TestParsedEventPassesValidationAndDerivesSlug(t *testing.T) {
	repo := &fakeEventRepo{}
	events := testEventService(t, repo)
	svc := NewUploadService(events, &fakeUploadRepo{}, "python3 parse_menu.py")

	req := svc.toEventRequest(parserOutput(t, futureDate(3)))
	event, err := events.Create(req)
	if err != nil {
		t.Fatalf("parsed menu failed creation: %v", err)
	}
	if event.CuisineSlug != "olive-and-basil" {
		t.Fatalf("expected olive-and-basil, got %q", event.CuisineSlug)
	}
}
