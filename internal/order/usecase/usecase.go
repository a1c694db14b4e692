package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/lesson-booking-service/internal/lesson"
	"github.com/studyhall/lesson-booking-service/internal/model"
	"github.com/studyhall/lesson-booking-service/internal/order"
	"github.com/studyhall/lesson-booking-service/internal/order/dto"
	"github.com/studyhall/lesson-booking-service/internal/pkg/broker"
	"github.com/studyhall/lesson-booking-service/internal/pkg/logger"
	"github.com/studyhall/lesson-booking-service/internal/shop"
	"go.uber.org/zap"
)

var (
	ErrEmptyOrder         = errors.New("order has no lines")
	ErrInvalidQuantity    = errors.New("line quantity must be at least 1")
	ErrUnknownLesson      = errors.New("lesson not found")
	ErrInsufficientSpaces = errors.New("not enough spaces left")
)

// ValidationError carries the contact field messages for the HTTP layer.
type ValidationError struct {
	Fields shop.Validation
}

func (e *ValidationError) Error() string {
	return "invalid contact details"
}

type orderUseCase struct {
	repo       order.Repository
	lessonRepo lesson.Repository
	producer   *broker.KafkaProducer
	validator  shop.Validator
	logger     logger.ZapLogger
}

func NewOrderUseCase(repo order.Repository, lessonRepo lesson.Repository, producer *broker.KafkaProducer, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:       repo,
		lessonRepo: lessonRepo,
		producer:   producer,
		validator:  shop.NewValidator(0, 0),
		logger:     log,
	}
}

// SubmitOrder validates the payload, prices it against the current catalog
// and persists it. The OrderCreated event is published best-effort: a
// broker failure is logged, never surfaced, because the order is already
// committed.
func (uc *orderUseCase) SubmitOrder(ctx context.Context, input *dto.SubmitOrderInput) (*model.Order, error) {
	if len(input.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	// Same contact rules the storefront applies; the service re-checks
	// because it cannot trust the client.
	fields := shop.Validation{
		NameError:  uc.validator.ValidateName(input.Name),
		PhoneError: uc.validator.ValidatePhone(input.Phone),
		EmailError: uc.validator.ValidateEmail(input.Email),
	}
	if !fields.Valid() {
		return nil, &ValidationError{Fields: fields}
	}

	now := time.Now()
	o := &model.Order{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:  input.Name,
		Phone: input.Phone,
		Email: input.Email,
	}

	for _, line := range input.Lines {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		l, err := uc.lessonRepo.FindByID(ctx, line.LessonID)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, fmt.Errorf("%w: %d", ErrUnknownLesson, line.LessonID)
		}
		// The client syncs spaces only after the order is accepted, so
		// the lesson row still carries the capacity this order claims.
		if l.Spaces < line.Quantity {
			return nil, fmt.Errorf("%w: lesson %d has %d spaces", ErrInsufficientSpaces, l.ID, l.Spaces)
		}

		o.Lines = append(o.Lines, model.OrderLine{
			LessonID: l.ID,
			Subject:  l.Subject,
			Price:    l.Price,
			Quantity: line.Quantity,
		})
		o.Total += l.Price * float64(line.Quantity)
	}

	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	uc.publishOrderCreated(ctx, o)

	return o, nil
}

type orderCreatedEvent struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Payload   orderEventPayload `json:"payload"`
	Timestamp time.Time         `json:"timestamp"`
}

type orderEventPayload struct {
	ID    string               `json:"id"`
	Lines []orderEventLineItem `json:"lines"`
}

type orderEventLineItem struct {
	LessonID int64 `json:"lesson_id"`
	Quantity int   `json:"quantity"`
}

func (uc *orderUseCase) publishOrderCreated(ctx context.Context, o *model.Order) {
	if uc.producer == nil {
		return
	}

	event := orderCreatedEvent{
		EventID:   uuid.New().String(),
		EventType: "OrderCreated",
		Payload:   orderEventPayload{ID: o.ID},
		Timestamp: time.Now(),
	}
	for _, line := range o.Lines {
		event.Payload.Lines = append(event.Payload.Lines, orderEventLineItem{
			LessonID: line.LessonID,
			Quantity: line.Quantity,
		})
	}

	data, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal order event", zap.Error(err))
		return
	}

	if err := uc.producer.Publish(ctx, []byte(o.ID), data); err != nil {
		uc.logger.Error("failed to publish order event",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	return uc.repo.FindAll(ctx, filters)
}
