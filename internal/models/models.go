package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// StringList is stored as a JSONB array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// MenuEvent is one catered occasion. Its identity for routing purposes is the
// pair (EventDateISO, CuisineSlug); CuisineSlug is derived from Cuisine at
// write time and never edited directly.
type MenuEvent struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Cuisine      string `gorm:"not null" json:"cuisine"`
	CuisineSlug  string `gorm:"not null;uniqueIndex:idx_events_date_slug,priority:2" json:"cuisine_slug"`
	EventDate    string `json:"event_date"`
	EventDateISO string `gorm:"not null;uniqueIndex:idx_events_date_slug,priority:1;index" json:"event_date_iso"`

	Items []MenuItem `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"menu_items"`
}

// MenuItem is one dish within an event. Position preserves menu order, which
// is display relevant but not part of identity.
type MenuItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	EventID     uint       `gorm:"not null;index" json:"-"`
	Position    int        `gorm:"default:0" json:"position"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Preferences StringList `gorm:"type:jsonb" json:"preferences"`
	Allergens   StringList `gorm:"type:jsonb" json:"allergens"`
}

type AdminUser struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"type:varchar(32);default:'admin'" json:"role"`
}

// MenuUpload records one PDF ingestion: the raw parser output is retained for
// auditing alongside the events it produced.
type MenuUpload struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UploadID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"upload_id"`
	FileName    string    `gorm:"not null" json:"file_name"`
	UploadedBy  string    `json:"uploaded_by"`
	Payload     string    `gorm:"type:jsonb" json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
	EventCount  int       `gorm:"default:0" json:"event_count"`
}
