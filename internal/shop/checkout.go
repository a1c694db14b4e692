package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State tracks where the checkout coordinator is. Confirmed is not a
// resting state: a successful checkout clears the session and returns to
// Idle in the same call.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StatePropagatingCapacity
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StatePropagatingCapacity:
		return "propagating_capacity"
	}
	return "unknown"
}

// ErrCheckoutInProgress is returned when Checkout is invoked while a
// previous checkout has not finished. The call is a pure no-op.
var ErrCheckoutInProgress = errors.New("checkout already in progress")

// ValidationError reports per-field problems. The cart and contact fields
// are untouched and no network call was made.
type ValidationError struct {
	Fields Validation
}

func (e *ValidationError) Error() string {
	msgs := []string{}
	for _, m := range []string{e.Fields.NameError, e.Fields.PhoneError, e.Fields.EmailError, e.Fields.CartError} {
		if m != "" {
			msgs = append(msgs, m)
		}
	}
	return "validation failed: " + strings.Join(msgs, " ")
}

// SubmissionError wraps a failed order submission. The cart and contact
// fields keep their pre-attempt values so the shopper can retry as-is.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Confirmation is what survives a successful checkout for display.
type Confirmation struct {
	OrderID     string
	Name        string
	Email       string
	Total       float64
	SubmittedAt time.Time
}

// Checkout runs the full transaction: validate, submit the order, then
// propagate the new spaces values for every lesson in the cart. Submission
// failure preserves all state for retry. Capacity propagation is
// best-effort and concurrent; individual failures are logged and do not
// undo the confirmed order.
func (s *Session) Checkout(ctx context.Context) (*Confirmation, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}

	s.state = StateValidating
	v := s.validator.Validate(s.contact, s.cart.ItemCount())
	s.fieldErrors = v
	if !v.Valid() {
		s.state = StateIdle
		s.mu.Unlock()
		return nil, &ValidationError{Fields: v}
	}

	// Snapshot the order and the capacity targets before any network
	// call. The catalog already reflects the cart, so the lesson's
	// current spaces value is exactly what the backend should end up
	// with.
	req := &OrderRequest{
		Name:  strings.TrimSpace(s.contact.Name),
		Phone: strings.TrimSpace(s.contact.Phone),
		Email: strings.TrimSpace(s.contact.Email),
	}
	targets := make(map[int64]int)
	total := s.cart.Total()
	for _, line := range s.cart.Lines() {
		req.Lines = append(req.Lines, OrderRequestLine{LessonID: line.LessonID, Quantity: line.Quantity})
		if l, ok := s.catalog.Get(line.LessonID); ok {
			targets[line.LessonID] = l.Spaces
		}
	}

	s.state = StateSubmitting
	s.mu.Unlock()

	receipt, err := s.backend.SubmitOrder(ctx, req)
	if err != nil {
		s.logger.Error("order submission failed", zap.Error(err))
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		return nil, &SubmissionError{Err: err}
	}

	s.mu.Lock()
	s.state = StatePropagatingCapacity
	s.mu.Unlock()

	var wg sync.WaitGroup
	for lessonID, spaces := range targets {
		wg.Add(1)
		go func(lessonID int64, spaces int) {
			defer wg.Done()
			if err := s.backend.UpdateCapacity(ctx, lessonID, spaces); err != nil {
				s.logger.Error("capacity propagation failed",
					zap.Int64("lesson_id", lessonID),
					zap.Int("spaces", spaces),
					zap.String("order_id", receipt.OrderID),
					zap.Error(err),
				)
			}
		}(lessonID, spaces)
	}
	wg.Wait()

	conf := &Confirmation{
		OrderID:     receipt.OrderID,
		Name:        req.Name,
		Email:       req.Email,
		Total:       total,
		SubmittedAt: time.Now(),
	}

	s.mu.Lock()
	s.cart = NewCart()
	s.contact = Contact{}
	s.fieldErrors = Validation{}
	s.confirmation = conf
	s.state = StateIdle
	s.mu.Unlock()

	s.logger.Info("order confirmed",
		zap.String("order_id", conf.OrderID),
		zap.Float64("total", conf.Total),
	)
	return conf, nil
}
