package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
)

// ErrOpen is returned without running the call while the breaker is open
var ErrOpen = errors.New("circuit breaker is open")

// State represents the breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures a Breaker
type Settings struct {
	// Threshold is the number of consecutive failures that opens the breaker
	Threshold int
	// Cooldown is how long the breaker stays open before probing again
	Cooldown time.Duration
	// Clock drives the cooldown; the system clock when nil
	Clock clock.Clock
	// OnStateChange is called whenever the state changes, outside the lock
	OnStateChange func(name string, from, to State)
}

// Breaker stops calling a failing dependency for a cooldown period.
// After the cooldown a single probe call is let through; its outcome
// closes or re-opens the breaker.
type Breaker struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// New creates a breaker
func New(name string, settings Settings) *Breaker {
	if settings.Threshold <= 0 {
		settings.Threshold = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	settings.Clock = clock.OrSystem(settings.Clock)

	return &Breaker{name: name, settings: settings, state: StateClosed}
}

// Name returns the breaker name
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state, moving open to half-open once the
// cooldown has elapsed
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

// Failures returns the current run of consecutive failures
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Do runs fn unless the breaker is open. ErrOpen is returned when the call
// was skipped.
func (b *Breaker) Do(fn func() error) error {
	if err := b.before(); err != nil {
		return err
	}

	success := false
	defer func() {
		b.after(success)
	}()

	err := fn()
	success = err == nil
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.current() {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if b.probing {
			return ErrOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) after(success bool) {
	b.mu.Lock()
	from := b.state
	b.probing = false

	if success {
		b.failures = 0
		b.state = StateClosed
	} else {
		b.failures++
		if from == StateHalfOpen || b.failures >= b.settings.Threshold {
			b.state = StateOpen
			b.openedAt = b.settings.Clock.Now()
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// current must be called with mu held
func (b *Breaker) current() State {
	if b.state == StateOpen && !b.settings.Clock.Now().Before(b.openedAt.Add(b.settings.Cooldown)) {
		b.state = StateHalfOpen
	}
	return b.state
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
