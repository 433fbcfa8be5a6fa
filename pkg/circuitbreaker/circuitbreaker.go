package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker is open")

type Settings struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures int
	Interval    time.Duration
	Timeout     time.Duration
	// IsFailure decides whether an error counts against the breaker. Nil
	// counts every error.
	IsFailure func(error) bool
}

type CircuitBreaker struct {
	cb        *gobreaker.CircuitBreaker
	isFailure func(error) bool
}

func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	maxFailures := settings.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}

	return &CircuitBreaker{
		isFailure: settings.IsFailure,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        settings.Name,
			MaxRequests: 1,
			Interval:    settings.Interval,
			Timeout:     settings.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(maxFailures)
			},
		}),
	}
}

// Execute runs fn through the breaker. Errors that IsFailure rejects are
// returned to the caller without tripping the breaker.
func (c *CircuitBreaker) Execute(fn func() error) error {
	var passthrough error
	_, err := c.cb.Execute(func() (interface{}, error) {
		err := fn()
		if err != nil && c.isFailure != nil && !c.isFailure(err) {
			passthrough = err
			return nil, nil
		}
		return nil, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	if err != nil {
		return err
	}
	return passthrough
}

func (c *CircuitBreaker) State() string {
	return c.cb.State().String()
}
