package shop

// Reconciler operations. These four methods are the only code allowed to
// change lesson spaces or cart quantities, and each one keeps the pairing
// intact: for every lesson, original spaces == current spaces + quantity in
// the cart.

// AddToCart moves one unit of the lesson into the cart. It reports false
// without changing anything when the lesson is unknown or sold out.
func (s *Session) AddToCart(lessonID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.catalog.lesson(lessonID)
	if l == nil || l.Spaces <= 0 {
		return false
	}

	if line := s.cart.line(lessonID); line != nil {
		line.Quantity++
	} else {
		s.cart.add(*l)
	}
	l.Spaces--
	return true
}

// IncreaseQuantity adds one more unit to an existing line. No-op when the
// line does not exist or the lesson has no spaces left.
func (s *Session) IncreaseQuantity(lessonID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.cart.line(lessonID)
	if line == nil {
		return false
	}

	l := s.catalog.lesson(lessonID)
	if l == nil || l.Spaces <= 0 {
		return false
	}

	line.Quantity++
	l.Spaces--
	return true
}

// DecreaseQuantity returns one unit to the catalog. A line at quantity one
// is removed outright rather than left at zero.
func (s *Session) DecreaseQuantity(lessonID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.cart.line(lessonID)
	if line == nil {
		return
	}

	if line.Quantity <= 1 {
		s.removeLineLocked(lessonID)
		return
	}

	line.Quantity--
	// A missing backing lesson skips the restoration but the cart side
	// still proceeds, so a desynced catalog cannot strand the cart.
	if l := s.catalog.lesson(lessonID); l != nil {
		l.Spaces++
	}
}

// RemoveFromCart drops the whole line and restores all its units. Removing
// an absent line is a no-op.
func (s *Session) RemoveFromCart(lessonID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLineLocked(lessonID)
}

func (s *Session) removeLineLocked(lessonID int64) {
	line := s.cart.line(lessonID)
	if line == nil {
		return
	}
	if l := s.catalog.lesson(lessonID); l != nil {
		l.Spaces += line.Quantity
	}
	s.cart.remove(lessonID)
}
