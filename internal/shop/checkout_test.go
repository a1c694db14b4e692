package shop

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/lesson-booking-service/internal/model"
)

type fakeBackend struct {
	mu sync.Mutex

	lessons []model.Lesson
	listErr error

	submitErr   error
	submitted   []OrderRequest
	onSubmit    func()
	capacity    map[int64]int
	capacityErr error
	capacityN   int
}

func newFakeBackend(lessons []model.Lesson) *fakeBackend {
	return &fakeBackend{lessons: lessons, capacity: map[int64]int{}}
}

func (f *fakeBackend) ListCatalog(ctx context.Context) ([]model.Lesson, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Lesson(nil), f.lessons...), nil
}

func (f *fakeBackend) SubmitOrder(ctx context.Context, order *OrderRequest) (*OrderReceipt, error) {
	f.mu.Lock()
	f.submitted = append(f.submitted, *order)
	hook := f.onSubmit
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &OrderReceipt{OrderID: "order-1"}, nil
}

func (f *fakeBackend) UpdateCapacity(ctx context.Context, lessonID int64, spaces int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.capacityN++
	if f.capacityErr != nil {
		return f.capacityErr
	}
	f.capacity[lessonID] = spaces
	return nil
}

func (f *fakeBackend) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

func loadedSession(t *testing.T, backend *fakeBackend) *Session {
	t.Helper()
	s := NewSession(backend, nil, Options{})
	require.NoError(t, s.LoadCatalog(context.Background()))
	return s
}

func validContact() Contact {
	return Contact{Name: "Ada Lovelace", Phone: "02079460000", Email: "ada@example.org"}
}

func TestLoadCatalog_FailureLeavesStoreEmpty(t *testing.T) {
	backend := newFakeBackend(testLessons())
	backend.listErr = errors.New("connection refused")

	s := NewSession(backend, nil, Options{})
	err := s.LoadCatalog(context.Background())
	require.Error(t, err)
	assert.Zero(t, s.CatalogSize())
}

func TestCheckout_Confirmed(t *testing.T) {
	backend := newFakeBackend(testLessons())
	s := loadedSession(t, backend)

	require.True(t, s.AddToCart(1))
	require.True(t, s.AddToCart(1))
	require.True(t, s.AddToCart(2))
	s.SetContact(validContact())

	conf, err := s.Checkout(context.Background())
	require.NoError(t, err)
	require.NotNil(t, conf)

	assert.Equal(t, "order-1", conf.OrderID)
	assert.Equal(t, "Ada Lovelace", conf.Name)
	assert.Equal(t, "ada@example.org", conf.Email)
	assert.Equal(t, 280.0, conf.Total)

	// Checkout clears the ledger and the contact fields.
	assert.Empty(t, s.CartLines())
	assert.Equal(t, Contact{}, s.Contact())
	assert.Equal(t, StateIdle, s.State())

	// The confirmation is retained for display.
	retained := s.Confirmation()
	require.NotNil(t, retained)
	assert.Equal(t, "order-1", retained.OrderID)

	// The submitted order carries the snapshot lines.
	require.Equal(t, 1, backend.submitCount())
	req := backend.submitted[0]
	require.Len(t, req.Lines, 2)
	assert.Equal(t, OrderRequestLine{LessonID: 1, Quantity: 2}, req.Lines[0])
	assert.Equal(t, OrderRequestLine{LessonID: 2, Quantity: 1}, req.Lines[1])

	// Capacity propagation sent the decremented values for both lessons.
	assert.Equal(t, map[int64]int{1: 3, 2: 4}, backend.capacity)
}

func TestCheckout_ValidationFailureMakesNoNetworkCall(t *testing.T) {
	backend := newFakeBackend(testLessons())
	s := loadedSession(t, backend)

	require.True(t, s.AddToCart(1))
	s.SetContact(Contact{Name: "Ada", Phone: "abc", Email: "ada@example.org"})

	_, err := s.Checkout(context.Background())
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Fields.PhoneError)

	assert.Equal(t, StateIdle, s.State())
	assert.NotEmpty(t, s.FieldErrors().PhoneError)
	assert.Equal(t, 0, backend.submitCount())
	assert.Equal(t, 0, backend.capacityN)

	// Cart survives for correction and retry.
	require.Len(t, s.CartLines(), 1)
}

func TestCheckout_EmptyCartFailsValidation(t *testing.T) {
	backend := newFakeBackend(testLessons())
	s := loadedSession(t, backend)
	s.SetContact(validContact())

	_, err := s.Checkout(context.Background())
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Fields.CartError)
	assert.Equal(t, 0, backend.submitCount())
}

func TestCheckout_SubmissionFailurePreservesStateForRetry(t *testing.T) {
	backend := newFakeBackend(testLessons())
	s := loadedSession(t, backend)

	require.True(t, s.AddToCart(1))
	require.True(t, s.AddToCart(3))
	contact := validContact()
	s.SetContact(contact)

	linesBefore := s.CartLines()

	backend.submitErr = errors.New("503 service unavailable")
	_, err := s.Checkout(context.Background())
	var sErr *SubmissionError
	require.ErrorAs(t, err, &sErr)

	// Everything is exactly as it was before the attempt.
	assert.Equal(t, linesBefore, s.CartLines())
	assert.Equal(t, contact, s.Contact())
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 0, backend.capacityN, "no propagation after a failed submission")

	// A retry with the backend healed succeeds without re-entering
	// anything.
	backend.submitErr = nil
	conf, err := s.Checkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "order-1", conf.OrderID)
	assert.Empty(t, s.CartLines())
}

func TestCheckout_PropagationFailureStillConfirms(t *testing.T) {
	backend := newFakeBackend(testLessons())
	s := loadedSession(t, backend)

	require.True(t, s.AddToCart(1))
	s.SetContact(validContact())

	backend.capacityErr = errors.New("timeout")
	conf, err := s.Checkout(context.Background())
	require.NoError(t, err, "propagation is best-effort")
	require.NotNil(t, conf)

	assert.Empty(t, s.CartLines())
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 1, backend.capacityN)
}

func TestCheckout_ReentrantInvocationIsNoop(t *testing.T) {
	backend := newFakeBackend(testLessons())
	s := loadedSession(t, backend)

	require.True(t, s.AddToCart(1))
	s.SetContact(validContact())

	// Trigger a second checkout while the first sits in Submitting.
	var nested error
	backend.onSubmit = func() {
		_, nested = s.Checkout(context.Background())
	}

	_, err := s.Checkout(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, nested, ErrCheckoutInProgress)
	assert.Equal(t, 1, backend.submitCount(), "nested call must not submit")
}

func TestCheckout_MissingLessonSkipsItsPropagation(t *testing.T) {
	backend := newFakeBackend(testLessons())
	s := loadedSession(t, backend)

	require.True(t, s.AddToCart(1))
	require.True(t, s.AddToCart(2))
	dropLesson(s.catalog, 2)
	s.SetContact(validContact())

	conf, err := s.Checkout(context.Background())
	require.NoError(t, err)
	require.NotNil(t, conf)

	// Only the lesson still in the catalog gets a capacity sync.
	assert.Equal(t, map[int64]int{1: 4}, backend.capacity)
}
