package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/lesson-booking-service/internal/lesson/dto"
	"github.com/studyhall/lesson-booking-service/internal/model"
	"github.com/studyhall/lesson-booking-service/internal/pkg/logger"
)

type fakeRepo struct {
	lessons   map[int64]*model.Lesson
	nextID    int64
	movements []*model.SpaceMovement
}

func newFakeRepo(lessons ...model.Lesson) *fakeRepo {
	r := &fakeRepo{lessons: map[int64]*model.Lesson{}, nextID: 1}
	for i := range lessons {
		l := lessons[i]
		r.lessons[l.ID] = &l
		if l.ID >= r.nextID {
			r.nextID = l.ID + 1
		}
	}
	return r
}

func (r *fakeRepo) Create(ctx context.Context, l *model.Lesson) error {
	l.ID = r.nextID
	r.nextID++
	copied := *l
	r.lessons[l.ID] = &copied
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id int64) (*model.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (r *fakeRepo) FindAll(ctx context.Context, f *dto.LessonFilters) ([]model.Lesson, int, error) {
	out := make([]model.Lesson, 0, len(r.lessons))
	for _, l := range r.lessons {
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (r *fakeRepo) LogMovement(ctx context.Context, m *model.SpaceMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeRepo) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.SpaceMovement, int, error) {
	out := make([]model.SpaceMovement, 0, len(r.movements))
	for _, m := range r.movements {
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (r *fakeRepo) SetSpacesWithMovement(ctx context.Context, l *model.Lesson, m *model.SpaceMovement) error {
	copied := *l
	r.lessons[l.ID] = &copied
	r.movements = append(r.movements, m)
	return nil
}

func newUC(repo *fakeRepo) *lessonUseCase {
	return NewLessonUseCase(repo, nil, nil, logger.NewNop()).(*lessonUseCase)
}

func TestCreateLesson(t *testing.T) {
	repo := newFakeRepo()
	uc := newUC(repo)

	l, err := uc.CreateLesson(context.Background(), &dto.CreateLessonInput{
		Subject:  "Mathematics",
		Location: "Hendon",
		Price:    100,
		Spaces:   5,
	})
	require.NoError(t, err)
	assert.NotZero(t, l.ID)
	assert.Equal(t, 5, l.Spaces)
	assert.Nil(t, l.Icon)
}

func TestCreateLesson_NegativeSpaces(t *testing.T) {
	uc := newUC(newFakeRepo())

	_, err := uc.CreateLesson(context.Background(), &dto.CreateLessonInput{
		Subject:  "Mathematics",
		Location: "Hendon",
		Spaces:   -1,
	})
	assert.ErrorIs(t, err, ErrNegativeSpaces)
}

func TestUpdateSpaces(t *testing.T) {
	repo := newFakeRepo(model.Lesson{ID: 1, Subject: "Mathematics", Spaces: 5})
	uc := newUC(repo)

	l, err := uc.UpdateSpaces(context.Background(), &dto.UpdateSpacesInput{
		LessonID:      1,
		Spaces:        3,
		Reason:        "capacity sync",
		ReferenceType: "client_sync",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, l.Spaces)

	stored, _ := repo.FindByID(context.Background(), 1)
	assert.Equal(t, 3, stored.Spaces)

	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	assert.Equal(t, "adjustment", m.MovementType)
	assert.Equal(t, -2, m.SpacesChange)
	assert.Equal(t, 5, m.SpacesBefore)
	assert.Equal(t, 3, m.SpacesAfter)
	require.NotNil(t, m.ReferenceType)
	assert.Equal(t, "client_sync", *m.ReferenceType)
}

func TestUpdateSpaces_NegativeRejected(t *testing.T) {
	repo := newFakeRepo(model.Lesson{ID: 1, Spaces: 5})
	uc := newUC(repo)

	_, err := uc.UpdateSpaces(context.Background(), &dto.UpdateSpacesInput{LessonID: 1, Spaces: -1})
	assert.ErrorIs(t, err, ErrNegativeSpaces)
	assert.Empty(t, repo.movements)
}

func TestUpdateSpaces_NotFound(t *testing.T) {
	uc := newUC(newFakeRepo())

	_, err := uc.UpdateSpaces(context.Background(), &dto.UpdateSpacesInput{LessonID: 42, Spaces: 1})
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestLogOrderSale(t *testing.T) {
	repo := newFakeRepo(model.Lesson{ID: 1, Spaces: 3})
	uc := newUC(repo)

	require.NoError(t, uc.LogOrderSale(context.Background(), "order-1", 1, 2))

	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	assert.Equal(t, "order_sale", m.MovementType)
	assert.Equal(t, -2, m.SpacesChange)
	require.NotNil(t, m.ReferenceID)
	assert.Equal(t, "order-1", *m.ReferenceID)

	// Audit only: the lesson's spaces are untouched.
	stored, _ := repo.FindByID(context.Background(), 1)
	assert.Equal(t, 3, stored.Spaces)
}

func TestLogOrderSale_UnknownLesson(t *testing.T) {
	uc := newUC(newFakeRepo())
	err := uc.LogOrderSale(context.Background(), "order-1", 9, 1)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestListLessons_FallsBackToRepo(t *testing.T) {
	repo := newFakeRepo(
		model.Lesson{ID: 1, Subject: "Mathematics"},
		model.Lesson{ID: 2, Subject: "English"},
	)
	uc := newUC(repo)

	lessons, total, err := uc.ListLessons(context.Background(), &dto.LessonFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, lessons, 2)
}
