package shop

import (
	"context"

	"github.com/studyhall/lesson-booking-service/internal/model"
)

// Backend is the remote lesson service as seen by a shopping session. The
// session only ever issues these three calls.
type Backend interface {
	// ListCatalog returns the full lesson catalog. Called once per session.
	ListCatalog(ctx context.Context) ([]model.Lesson, error)

	// SubmitOrder posts the order and returns its receipt on acceptance.
	SubmitOrder(ctx context.Context, order *OrderRequest) (*OrderReceipt, error)

	// UpdateCapacity sets the absolute remaining spaces of one lesson.
	UpdateCapacity(ctx context.Context, lessonID int64, spaces int) error
}

type OrderRequest struct {
	Name  string             `json:"name"`
	Phone string             `json:"phone"`
	Email string             `json:"email"`
	Lines []OrderRequestLine `json:"lines"`
}

type OrderRequestLine struct {
	LessonID int64 `json:"lesson_id"`
	Quantity int   `json:"quantity"`
}

type OrderReceipt struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
}
