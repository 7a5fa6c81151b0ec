package substitute

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/webappsteps/stepsub/pkg/logging"
)

// Engine runs the substitution pipeline. Its configuration is fixed at
// construction, so one Engine may serve any number of goroutines.
type Engine struct {
	policy      Policy
	clock       func() time.Time
	newUUID     func() (uuid.UUID, error)
	maxRewrites int
	concurrency int
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithExpressionErrorPolicy sets what happens when a #{...} body fails.
func WithExpressionErrorPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithClock sets the time source for the time generators.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithUUIDGenerator sets the source for !{uuid}.
func WithUUIDGenerator(gen func() (uuid.UUID, error)) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newUUID = gen
		}
	}
}

// WithMaxRewrites bounds the number of spans each marker pass may replace.
// Zero or a negative value removes the bound.
func WithMaxRewrites(n int) Option {
	return func(e *Engine) { e.maxRewrites = max(n, 0) }
}

// WithConcurrency bounds the number of templates SubstituteAll evaluates at
// once. Values below one select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l == nil {
			l = logging.Nop()
		}
		e.logger = l
	}
}

// New creates an Engine. Without options it passes failed expressions
// through, uses the wall clock and random v4 UUIDs, and does not log.
func New(opts ...Option) *Engine {
	e := &Engine{
		policy:  DefaultPolicy,
		clock:   time.Now,
		newUUID: uuid.NewRandom,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.concurrency < 1 {
		e.concurrency = runtime.GOMAXPROCS(0)
	}
	return e
}

// Policy returns the engine's expression error policy.
func (e *Engine) Policy() Policy { return e.policy }

var defaultEngine = New()

// Substitute resolves template against env and data using the default
// engine. See [Engine.Substitute].
func Substitute(template string, env, data Vars) (string, error) {
	return defaultEngine.Substitute(template, env, data)
}

// Substitute resolves every marker in template. Variables are replaced from
// env first and data second, then #{...} expressions are evaluated, then
// !{...} generators. It returns the fully resolved text or the first error;
// never a partially substituted string.
func (e *Engine) Substitute(template string, env, data Vars) (string, error) {
	text := Resolve(template, env)
	text = Resolve(text, data)

	exprScanner, err := NewScanner(MarkerExpression, e.maxRewrites)
	if err != nil {
		return "", err
	}
	text, err = exprScanner.Rewrite(text, func(body string) (string, error) {
		return e.EvaluateExpression(body, env, data)
	})
	if err != nil {
		e.logger.Debug("expression pass failed",
			slog.String("template", template),
			slog.Any("error", err))
		return "", err
	}

	genScanner, err := NewScanner(MarkerGenerator, e.maxRewrites)
	if err != nil {
		return "", err
	}
	text, err = genScanner.Rewrite(text, e.Generate)
	if err != nil {
		e.logger.Debug("generator pass failed",
			slog.String("template", template),
			slog.Any("error", err))
		return "", err
	}

	return text, nil
}
