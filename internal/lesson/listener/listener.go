package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/studyhall/lesson-booking-service/internal/lesson"
	"github.com/studyhall/lesson-booking-service/internal/pkg/broker"
	"github.com/studyhall/lesson-booking-service/internal/pkg/logger"
	"go.uber.org/zap"
)

// LessonListener consumes order events and records sale movements against
// the affected lessons. It is audit-only: spaces themselves are synced by
// the ordering client through the capacity endpoint.
type LessonListener struct {
	consumer *broker.KafkaConsumer
	uc       lesson.UseCase
	logger   logger.ZapLogger
}

func NewLessonListener(consumer *broker.KafkaConsumer, uc lesson.UseCase, logger logger.ZapLogger) *LessonListener {
	return &LessonListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *LessonListener) Start(ctx context.Context) {
	l.logger.Info("Starting Lesson Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Lesson Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Lines []OrderLinePayload `json:"lines"`
}

type OrderLinePayload struct {
	LessonID int64 `json:"lesson_id"`
	Quantity int   `json:"quantity"`
}

func (l *LessonListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	for _, line := range event.Payload.Lines {
		err := l.uc.LogOrderSale(ctx, event.Payload.ID, line.LessonID, line.Quantity)
		if err != nil {
			l.logger.Error("Failed to record sale movement for order line",
				zap.String("order_id", event.Payload.ID),
				zap.Int64("lesson_id", line.LessonID),
				zap.Error(err),
			)
		}
	}
}
