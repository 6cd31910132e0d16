// Package clock abstracts time for components that timestamp records,
// so tests can pin the clock.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time.
type RealClock struct{}

func NewRealClock() Clock { return &RealClock{} }

func (c *RealClock) Now() time.Time { return time.Now() }

// MockClock is a settable clock for tests.
type MockClock struct {
	current time.Time
}

func NewMockClock(start time.Time) *MockClock { return &MockClock{current: start} }

func (m *MockClock) Now() time.Time { return m.current }

// Advance moves the mock clock forward.
func (m *MockClock) Advance(d time.Duration) { m.current = m.current.Add(d) }
