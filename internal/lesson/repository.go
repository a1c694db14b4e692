package lesson

import (
	"context"

	"github.com/studyhall/lesson-booking-service/internal/lesson/dto"
	"github.com/studyhall/lesson-booking-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, l *model.Lesson) error
	FindByID(ctx context.Context, id int64) (*model.Lesson, error)
	FindAll(ctx context.Context, filters *dto.LessonFilters) ([]model.Lesson, int, error)

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.SpaceMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.SpaceMovement, int, error)

	// Transaction support
	SetSpacesWithMovement(ctx context.Context, l *model.Lesson, movement *model.SpaceMovement) error
}
