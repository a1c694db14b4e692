package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/studyhall/lesson-booking-service/internal/lesson"
	"github.com/studyhall/lesson-booking-service/internal/lesson/dto"
	"github.com/studyhall/lesson-booking-service/internal/model"
	"github.com/studyhall/lesson-booking-service/internal/pkg/cache"
	"github.com/studyhall/lesson-booking-service/internal/pkg/logger"
	"github.com/studyhall/lesson-booking-service/internal/pkg/search"
	"go.uber.org/zap"
)

var (
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrNegativeSpaces   = errors.New("spaces cannot be negative")
	ErrCapacityLockBusy = errors.New("system busy, please try again later (lock)")
)

const lessonIndex = "lessons"

type lessonUseCase struct {
	repo   lesson.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

func NewLessonUseCase(repo lesson.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) lesson.UseCase {
	return &lessonUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *lessonUseCase) CreateLesson(ctx context.Context, input *dto.CreateLessonInput) (*model.Lesson, error) {
	if input.Spaces < 0 {
		return nil, ErrNegativeSpaces
	}

	now := time.Now()

	var icon *string
	if input.Icon != "" {
		icon = &input.Icon
	}
	var imageURL *string
	if input.ImageURL != "" {
		imageURL = &input.ImageURL
	}

	l := &model.Lesson{
		Subject:   input.Subject,
		Location:  input.Location,
		Price:     input.Price,
		Spaces:    input.Spaces,
		Icon:      icon,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	// Invalidate Cache
	go uc.invalidateListCache(context.Background())

	// Sync to Elastic
	go uc.syncToElastic(context.Background(), l)

	return l, nil
}

func (uc *lessonUseCase) syncToElastic(ctx context.Context, l *model.Lesson) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"subject": { "type": "text" },
				"location": { "type": "text" },
				"price": { "type": "double" },
				"spaces": { "type": "integer" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, lessonIndex, mapping)

	if err := uc.es.Index(ctx, lessonIndex, strconv.FormatInt(l.ID, 10), l); err != nil {
		uc.logger.Error("failed to index lesson", zap.Error(err))
	}
}

func (uc *lessonUseCase) GetLesson(ctx context.Context, id int64) (*model.Lesson, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *lessonUseCase) ListLessons(ctx context.Context, filters *dto.LessonFilters) ([]model.Lesson, int, error) {
	// 1. Check Cache
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result struct {
				Lessons []model.Lesson
				Count   int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Lessons, result.Count, nil
			}
		}
	}

	// 2. Search via Elastic (if query present)
	if filters.SearchQuery != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"query_string": map[string]interface{}{
					"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
					"fields": []string{"subject^3", "location"},
				},
			},
			"from": (filters.Page - 1) * filters.PageSize,
		}
		if filters.PageSize > 0 {
			q["size"] = filters.PageSize
		}

		res, err := uc.es.Search(ctx, lessonIndex, q)
		if err == nil {
			var esLessons []model.Lesson
			for _, hit := range res.Hits.Hits {
				var l model.Lesson
				if err := json.Unmarshal(hit.Source, &l); err == nil {
					esLessons = append(esLessons, l)
				}
			}
			return esLessons, res.Hits.Total.Value, nil
		}
		// If ES fails, fall through to DB
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	// 3. DB Query (Fallback or Standard List)
	lessons, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	// 4. Set Cache
	if cacheKey != "" && uc.cache != nil {
		cacheData := struct {
			Lessons []model.Lesson
			Count   int
		}{
			Lessons: lessons,
			Count:   count,
		}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return lessons, count, nil
}

func (uc *lessonUseCase) generateCacheKey(filters *dto.LessonFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("lessons:list:%x", md5.Sum(data)), nil
}

func (uc *lessonUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "lessons:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

// UpdateSpaces sets the absolute remaining capacity of a lesson. The write
// is serialized through a Redis lock so two clients syncing the same lesson
// cannot interleave their read-modify-write cycles.
func (uc *lessonUseCase) UpdateSpaces(ctx context.Context, input *dto.UpdateSpacesInput) (*model.Lesson, error) {
	if input.Spaces < 0 {
		return nil, ErrNegativeSpaces
	}

	if uc.cache != nil {
		lockKey := fmt.Sprintf("lock:lesson:%d", input.LessonID)
		lockValue := uuid.New().String()

		acquired := false
		for i := 0; i < 3; i++ {
			ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
			if err != nil {
				uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if !acquired {
			return nil, ErrCapacityLockBusy
		}
		defer uc.cache.ReleaseLock(ctx, lockKey, lockValue)
	}

	l, err := uc.repo.FindByID(ctx, input.LessonID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLessonNotFound
	}

	now := time.Now()
	spacesBefore := l.Spaces
	l.Spaces = input.Spaces
	l.UpdatedAt = now

	var refID *string
	if input.ReferenceID != "" {
		refID = &input.ReferenceID
	}
	var refType *string
	if input.ReferenceType != "" {
		refType = &input.ReferenceType
	}

	movement := &model.SpaceMovement{
		ID:            uuid.New().String(),
		LessonID:      l.ID,
		MovementType:  "adjustment",
		SpacesChange:  l.Spaces - spacesBefore,
		SpacesBefore:  spacesBefore,
		SpacesAfter:   l.Spaces,
		ReferenceType: refType,
		ReferenceID:   refID,
		Notes:         input.Reason,
		CreatedAt:     now,
	}

	if err := uc.repo.SetSpacesWithMovement(ctx, l, movement); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), l)

	return l, nil
}

func (uc *lessonUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.SpaceMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

// LogOrderSale records an audit-only movement for a confirmed order line.
// Capacity itself is propagated by the ordering client, so the row carries
// the sale quantity against the current spaces value without changing it.
func (uc *lessonUseCase) LogOrderSale(ctx context.Context, orderID string, lessonID int64, quantity int) error {
	l, err := uc.repo.FindByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrLessonNotFound
	}

	refType := "sale"
	movement := &model.SpaceMovement{
		ID:            uuid.New().String(),
		LessonID:      lessonID,
		MovementType:  "order_sale",
		SpacesChange:  -quantity,
		SpacesBefore:  l.Spaces,
		SpacesAfter:   l.Spaces,
		ReferenceType: &refType,
		ReferenceID:   &orderID,
		Notes:         "order sale, capacity synced separately by client",
		CreatedAt:     time.Now(),
	}

	return uc.repo.LogMovement(ctx, movement)
}
