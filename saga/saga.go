// Package saga runs a sequence of steps and undoes the completed ones when a
// later step fails.
package saga

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/metrics"
)

// Step is one unit of work. Compensate may be nil when the step has nothing to undo.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type Saga struct {
	name   string
	steps  []Step
	logger zerolog.Logger
}

func New(name string) *Saga {
	return &Saga{
		name:   name,
		logger: log.With().Str("saga", name).Logger(),
	}
}

// Add appends a step and returns the saga for chaining.
func (s *Saga) Add(name string, action, compensate func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{Name: name, Action: action, Compensate: compensate})
	return s
}

// Run executes the steps in order. When a step fails, the compensations of the
// completed steps run in reverse order and the step's error is returned
// unchanged, whatever the compensations return.
func (s *Saga) Run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Action(ctx); err != nil {
			s.logger.Warn().Err(err).Str("step", step.Name).Msg("step failed, unwinding")
			s.unwind(ctx, s.steps[:i])
			return err
		}
	}
	return nil
}

func (s *Saga) unwind(ctx context.Context, completed []Step) {
	// compensations still run when the request context is already cancelled
	ctx = context.WithoutCancel(ctx)
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}
		err := step.Compensate(ctx)
		metrics.RecordCompensation(step.Name, err)
		if err != nil {
			s.logger.Error().Err(err).Str("step", step.Name).Msg("compensation failed")
			continue
		}
		s.logger.Debug().Str("step", step.Name).Msg("compensated")
	}
}
