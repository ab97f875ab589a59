package repository

import (
	"time"

	"cater-menu-backend/internal/models"

	"gorm.io/gorm"
)

type EventRepository interface {
	List() ([]models.MenuEvent, error)
	ListUpcoming(from time.Time) ([]models.MenuEvent, error)
	ListPast(before time.Time) ([]models.MenuEvent, error)
	GetByID(id uint) (*models.MenuEvent, error)
	GetByDateAndSlug(dateISO, cuisineSlug string) (*models.MenuEvent, error)
	Create(event *models.MenuEvent) error
	Replace(event *models.MenuEvent) error
	Delete(id uint) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) List() ([]models.MenuEvent, error) {
	var events []models.MenuEvent
	err := r.db.Preload("Items", itemOrder).
		Order("event_date_iso ASC, cuisine_slug ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) ListUpcoming(from time.Time) ([]models.MenuEvent, error) {
	var events []models.MenuEvent
	err := r.db.Preload("Items", itemOrder).
		Where("event_date_iso >= ?", from.Format("2006-01-02")).
		Order("event_date_iso ASC, cuisine_slug ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) ListPast(before time.Time) ([]models.MenuEvent, error) {
	var events []models.MenuEvent
	err := r.db.Preload("Items", itemOrder).
		Where("event_date_iso < ?", before.Format("2006-01-02")).
		Order("event_date_iso DESC, cuisine_slug ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) GetByID(id uint) (*models.MenuEvent, error) {
	var event models.MenuEvent
	err := r.db.Preload("Items", itemOrder).First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetByDateAndSlug(dateISO, cuisineSlug string) (*models.MenuEvent, error) {
	var event models.MenuEvent
	err := r.db.Preload("Items", itemOrder).
		Where("event_date_iso = ? AND cuisine_slug = ?", dateISO, cuisineSlug).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Create(event *models.MenuEvent) error {
	return r.db.Create(event).Error
}

// Replace swaps the stored event for a new value: items are rewritten, not
// patched, preserving the no-in-place-mutation discipline of admin edits.
func (r *eventRepository) Replace(event *models.MenuEvent) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(event).Error
	})
}

func (r *eventRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MenuEvent{}, id).Error
	})
}

func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}
