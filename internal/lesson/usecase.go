package lesson

import (
	"context"

	"github.com/studyhall/lesson-booking-service/internal/lesson/dto"
	"github.com/studyhall/lesson-booking-service/internal/model"
)

type UseCase interface {
	CreateLesson(ctx context.Context, input *dto.CreateLessonInput) (*model.Lesson, error)
	GetLesson(ctx context.Context, id int64) (*model.Lesson, error)
	ListLessons(ctx context.Context, filters *dto.LessonFilters) ([]model.Lesson, int, error)
	UpdateSpaces(ctx context.Context, input *dto.UpdateSpacesInput) (*model.Lesson, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.SpaceMovement, int, error)
	LogOrderSale(ctx context.Context, orderID string, lessonID int64, quantity int) error
}
