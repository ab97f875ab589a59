package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"cater-menu-backend/internal/models"
	"cater-menu-backend/internal/repository"
	"cater-menu-backend/pkg/logger"
	"cater-menu-backend/pkg/validator"
)

const parserTimeout = 2 * time.Minute

// parsedMenu is the JSON document the external PDF parser emits. The parser
// itself is an opaque collaborator; only its output contract is ours.
type parsedMenu struct {
	Weekday         string       `json:"weekday"`
	ISODate         string       `json:"iso_date"`
	Cuisine         string       `json:"cuisine"`
	EntreesAndSides []parsedItem `json:"entrees_and_sides"`
	SaladBar        []parsedItem `json:"salad_bar"`
}

type parsedItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Preferences []string `json:"preferences"`
	Allergens   []string `json:"allergens"`
}

// UploadResult summarizes one processed PDF.
type UploadResult struct {
	UploadID string            `json:"upload_id"`
	FileName string            `json:"file_name"`
	Event    *models.MenuEvent `json:"event"`
}

type UploadService struct {
	events        *EventService
	uploads       repository.UploadRepository
	parserCommand string
}

func NewUploadService(events *EventService, uploads repository.UploadRepository, parserCommand string) *UploadService {
	return &UploadService{
		events:        events,
		uploads:       uploads,
		parserCommand: parserCommand,
	}
}

// ProcessPDF hands the stored file to the external parser, validates the
// structured JSON it returns and persists the resulting event plus an
// ingestion record. Parser text is stripped of markup before it enters
// validation; the validator then applies the same rules as a manual admin
// submission.
func (s *UploadService) ProcessPDF(ctx context.Context, filePath, fileName, uploadedBy string) (*UploadResult, error) {
	output, err := s.runParser(ctx, filePath)
	if err != nil {
		return nil, err
	}

	var parsed parsedMenu
	if err := json.Unmarshal(output, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse processing script output: %w", err)
	}

	req := s.toEventRequest(parsed)
	event, err := s.events.Create(req)
	if err != nil {
		return nil, err
	}

	upload := &models.MenuUpload{
		UploadID:    uuid.NewString(),
		FileName:    fileName,
		UploadedBy:  uploadedBy,
		Payload:     string(output),
		ProcessedAt: time.Now(),
		EventCount:  1,
	}
	if err := s.uploads.Create(upload); err != nil {
		// The event is already live; a failed audit record is logged, not
		// surfaced as an ingestion failure.
		logger.Error(err, "Failed to record menu upload", map[string]interface{}{
			"file": fileName,
		})
	}

	return &UploadResult{
		UploadID: upload.UploadID,
		FileName: fileName,
		Event:    event,
	}, nil
}

func (s *UploadService) ListUploads() ([]models.MenuUpload, error) {
	return s.uploads.List()
}

func (s *UploadService) runParser(ctx context.Context, filePath string) ([]byte, error) {
	parts := strings.Fields(s.parserCommand)
	if len(parts) == 0 {
		return nil, fmt.Errorf("pdf parser command is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, parserTimeout)
	defer cancel()

	args := append(parts[1:], filePath)
	cmd := exec.CommandContext(ctx, parts[0], args...)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		logger.Error(err, "PDF parser failed", map[string]interface{}{
			"stderr": stderr.String(),
		})
		return nil, fmt.Errorf("failed to process PDF: %w", err)
	}
	return output, nil
}

func (s *UploadService) toEventRequest(parsed parsedMenu) models.CreateEventRequest {
	items := make([]models.MenuItemRequest, 0, len(parsed.EntreesAndSides)+len(parsed.SaladBar))
	items = append(items, toItemRequests(parsed.EntreesAndSides, "Entrées and sides")...)
	items = append(items, toItemRequests(parsed.SaladBar, "Salad bar")...)

	return models.CreateEventRequest{
		Cuisine:      validator.SanitizePlainText(parsed.Cuisine),
		EventDate:    validator.SanitizePlainText(parsed.Weekday),
		EventDateISO: strings.TrimSpace(parsed.ISODate),
		MenuItems:    items,
	}
}

func toItemRequests(items []parsedItem, section string) []models.MenuItemRequest {
	out := make([]models.MenuItemRequest, 0, len(items))
	for _, item := range items {
		description := validator.SanitizePlainText(item.Description)
		if description == "" {
			description = section
		}
		out = append(out, models.MenuItemRequest{
			Title:       validator.SanitizePlainText(item.Name),
			Description: description,
			Preferences: item.Preferences,
			Allergens:   item.Allergens,
		})
	}
	return out
}
