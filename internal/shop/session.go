package shop

import (
	"context"
	"sync"

	"github.com/studyhall/lesson-booking-service/internal/model"
	"github.com/studyhall/lesson-booking-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type Options struct {
	PhoneMinDigits int
	PhoneMaxDigits int
}

// Session owns one shopper's state: the catalog copy, the cart, the contact
// fields and the checkout coordinator. All mutation goes through its
// methods; callers never see the mutable containers.
type Session struct {
	mu        sync.Mutex
	backend   Backend
	logger    logger.ZapLogger
	validator Validator

	catalog *Catalog
	cart    *Cart
	contact Contact

	state        State
	fieldErrors  Validation
	confirmation *Confirmation
}

func NewSession(backend Backend, log logger.ZapLogger, opts Options) *Session {
	if log == nil {
		log = logger.NewNop()
	}
	return &Session{
		backend:   backend,
		logger:    log,
		validator: NewValidator(opts.PhoneMinDigits, opts.PhoneMaxDigits),
		catalog:   NewCatalog(nil),
		cart:      NewCart(),
		state:     StateIdle,
	}
}

// LoadCatalog fetches the lesson list once. On failure the catalog stays
// empty and the error is returned to the caller; there is no automatic
// retry.
func (s *Session) LoadCatalog(ctx context.Context) error {
	lessons, err := s.backend.ListCatalog(ctx)
	if err != nil {
		s.logger.Error("failed to load catalog", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.catalog = NewCatalog(lessons)
	s.mu.Unlock()

	s.logger.Info("catalog loaded", zap.Int("lessons", len(lessons)))
	return nil
}

// Lessons returns the catalog filtered by term and sorted by field, for
// display. Filtering happens before sorting.
func (s *Session) Lessons(term string, field SortField, dir SortDirection) []model.Lesson {
	s.mu.Lock()
	snapshot := s.catalog.Lessons()
	s.mu.Unlock()

	return Query(snapshot, term, field, dir)
}

func (s *Session) Lesson(id int64) (model.Lesson, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Get(id)
}

func (s *Session) CatalogSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Len()
}

func (s *Session) CartLines() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

func (s *Session) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

func (s *Session) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *Session) SetContact(c Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contact = c
}

func (s *Session) Contact() Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact
}

// FieldErrors returns the messages from the last validation run.
func (s *Session) FieldErrors() Validation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldErrors
}

// Confirmation returns the record of the last successful order, if any.
func (s *Session) Confirmation() *Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confirmation == nil {
		return nil
	}
	c := *s.confirmation
	return &c
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
