package lens

import (
	"context"
	"log/slog"
)

// Checker is a lens reduced to its validation behaviour. Every Lens and
// BiDiLens implements it.
type Checker[C any] interface {
	Meta() Meta
	Check(carrier C) error
}

// Validate runs every check against carrier and returns all failures as one
// *LensFailure, or nil when every check passes. A failing check never stops
// the others from running.
func Validate[C any](carrier C, checks ...Checker[C]) error {
	if lf := validate(carrier, checks); lf != nil {
		return lf
	}
	return nil
}

func validate[C any](carrier C, checks []Checker[C]) *LensFailure {
	var agg LensFailure
	for _, c := range checks {
		if err := c.Check(carrier); err != nil {
			agg.merge(c.Meta(), err)
		}
	}
	if len(agg.Failures) == 0 {
		return nil
	}
	return &agg
}

// Validator is a reusable set of checks.
type Validator[C any] struct {
	checks []Checker[C]
	logger *slog.Logger
}

// NewValidator returns a validator over checks. A non-nil logger receives
// one debug record per failure.
func NewValidator[C any](logger *slog.Logger, checks ...Checker[C]) *Validator[C] {
	return &Validator[C]{checks: checks, logger: logger}
}

// Validate runs all checks. See the package-level Validate.
func (v *Validator[C]) Validate(ctx context.Context, carrier C) error {
	lf := validate(carrier, v.checks)
	if lf == nil {
		return nil
	}
	if v.logger == nil {
		return lf
	}
	for _, f := range lf.Failures {
		attrs := []slog.Attr{
			slog.String("location", f.Location),
			slog.String("name", f.Name),
			slog.String("kind", f.Kind.String()),
		}
		if f.Cause != nil {
			attrs = append(attrs, slog.String("cause", f.Cause.Error()))
		}
		v.logger.LogAttrs(ctx, slog.LevelDebug, "lens failure", attrs...)
	}
	return lf
}
