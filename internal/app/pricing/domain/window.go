package domain

import "time"

// ValidityWindow is an inclusive time range. A nil To means open-ended.
type ValidityWindow struct {
	From time.Time
	To   *time.Time
}

// NewValidityWindow builds a window normalised to UTC.
func NewValidityWindow(from time.Time, to *time.Time) (ValidityWindow, error) {
	w := ValidityWindow{From: from.UTC()}
	if to != nil {
		end := to.UTC()
		w.To = &end
	}
	if err := w.Validate(); err != nil {
		return ValidityWindow{}, err
	}
	return w, nil
}

// Validate checks that the window has a start and ends after it.
func (w ValidityWindow) Validate() error {
	if w.From.IsZero() {
		return ErrWindowStartRequired
	}
	if w.To != nil && !w.To.After(w.From) {
		return ErrInvalidWindow
	}
	return nil
}

// Contains reports whether t lies within the window, bounds included.
func (w ValidityWindow) Contains(t time.Time) bool {
	if t.Before(w.From) {
		return false
	}
	return w.To == nil || !t.After(*w.To)
}

// Overlaps reports whether the two windows share at least one instant.
func (w ValidityWindow) Overlaps(other ValidityWindow) bool {
	if w.To != nil && w.To.Before(other.From) {
		return false
	}
	if other.To != nil && other.To.Before(w.From) {
		return false
	}
	return true
}

// EndedBefore reports whether the window closed strictly before t.
func (w ValidityWindow) EndedBefore(t time.Time) bool {
	return w.To != nil && w.To.Before(t)
}
