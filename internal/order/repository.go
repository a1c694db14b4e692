package order

import (
	"context"

	"github.com/studyhall/lesson-booking-service/internal/model"
	"github.com/studyhall/lesson-booking-service/internal/order/dto"
)

type Repository interface {
	// Create persists the order and its lines in one transaction.
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
}
