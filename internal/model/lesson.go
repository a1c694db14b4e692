package model

import "time"

// Lesson is a bookable catalog entry. Spaces is the remaining capacity and
// is never allowed to go negative.
type Lesson struct {
	ID        int64     `db:"id" json:"id"`
	Subject   string    `db:"subject" json:"subject"`
	Location  string    `db:"location" json:"location"`
	Price     float64   `db:"price" json:"price"`
	Spaces    int       `db:"spaces" json:"spaces"`
	Icon      *string   `db:"icon" json:"icon"`           // Nullable
	ImageURL  *string   `db:"image_url" json:"image_url"` // Nullable
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SpaceMovement is the audit trail for capacity changes.
type SpaceMovement struct {
	ID            string    `db:"id" json:"id"`
	LessonID      int64     `db:"lesson_id" json:"lesson_id"`
	MovementType  string    `db:"movement_type" json:"movement_type"` // 'manual_adjustment', 'client_sync', 'order_sale'
	SpacesChange  int       `db:"spaces_change" json:"spaces_change"`
	SpacesBefore  int       `db:"spaces_before" json:"spaces_before"`
	SpacesAfter   int       `db:"spaces_after" json:"spaces_after"`
	ReferenceType *string   `db:"reference_type" json:"reference_type"`
	ReferenceID   *string   `db:"reference_id" json:"reference_id"`
	Notes         string    `db:"notes" json:"notes"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
