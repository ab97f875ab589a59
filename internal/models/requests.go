package models

// MenuItemRequest is one dish as submitted by the admin dashboard or the PDF
// ingestion pipeline.
type MenuItemRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Preferences []string `json:"preferences"`
	Allergens   []string `json:"allergens"`
}

// CreateEventRequest carries a complete menu event submission. Binding tags
// enforce shape at the edge; pkg/validator owns sanitization and the policy
// rules on top.
type CreateEventRequest struct {
	Cuisine      string            `json:"cuisine" binding:"required"`
	EventDate    string            `json:"event_date"`
	EventDateISO string            `json:"event_date_iso" binding:"required,iso_date"`
	MenuItems    []MenuItemRequest `json:"menu_items" binding:"required,min=1,max=50,dive"`
}

// UpdateEventRequest replaces an event wholesale; edits produce a new value
// rather than mutating fields in place.
type UpdateEventRequest = CreateEventRequest

type LoginRequest struct {
	Username string `json:"username" binding:"required,admin_username"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AvailableCuisine is the listing shape consumed by the public menu browser.
type AvailableCuisine struct {
	CuisineSlug string `json:"cuisine_slug"`
	DateSlug    string `json:"date_slug"`
	CuisineName string `json:"cuisine_name"`
	EventDate   string `json:"event_date"`
}

// Pagination is the envelope returned alongside paginated listings.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"has_more"`
}
