// Package battle is the turn-based battle resolution core: damage, status
// checks, move effects, end-of-turn damage and items. Every operation reads
// its Pokemon inputs without modifying them and returns updated copies plus
// localized battle-log lines for the caller to commit.
package battle

import (
	"io"
	"log/slog"
	"reflect"

	"github.com/jwebster45206/pokequest/pkg/i18n"
)

// Engine bundles the collaborators shared by all battle operations.
// It holds no battle state of its own.
type Engine struct {
	rng            Rand
	loc            *i18n.Localizer
	logger         *slog.Logger
	accuracyChecks bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocalizer sets the language for battle messages.
func WithLocalizer(loc *i18n.Localizer) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithLogger sets the logger used for roll tracing and unsupported effects.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAccuracyChecks makes ResolveTurn roll each move's Accuracy.
// Off by default: moves always hit.
func WithAccuracyChecks(enabled bool) Option {
	return func(e *Engine) {
		e.accuracyChecks = enabled
	}
}

// NewEngine creates an Engine drawing all chance from rng. A nil rng gets a
// clock-seeded source.
func NewEngine(rng Rand, opts ...Option) *Engine {
	if rng == nil {
		rng = NewRand(0)
	}
	e := &Engine{
		rng:    rng,
		loc:    i18n.NewLocalizer("en"),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Localizer returns the engine's message localizer.
func (e *Engine) Localizer() *i18n.Localizer {
	return e.loc
}

func (e *Engine) t(key string, args ...any) string {
	return e.loc.T(key, args...)
}

// changed returns updated when it differs from original, else nil.
func changed(original, updated *Pokemon) *Pokemon {
	if reflect.DeepEqual(original, updated) {
		return nil
	}
	return updated
}
