// Package engine provides the Lisp evaluation engine for armature.
// It wraps zygomys in a sandboxed environment and builds a Manipulator
// from a description such as:
//
//	(link :id 1 :prev 0 :length 5)
//	(gripper :id 2 :prev 1 :length 0.5 :pitch (deg 90))
//	(open-gripper 2 :angle 0.4)
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/sirupsen/logrus"

	"github.com/chazu/armature/pkg/arm"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a diagnostic that did not stop evaluation, such as
// a duplicate link or a gripper call on a camera.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	Link    arm.LinkID
}

// EvalResult bundles the full output of an evaluation.
type EvalResult struct {
	Manipulator *arm.Manipulator
	Errors      []EvalError
	Warnings    []EvalWarning
	Snapshots   []arm.Snapshot
}

// OK reports whether evaluation produced a manipulator.
func (r *EvalResult) OK() bool {
	return r != nil && r.Manipulator != nil && len(r.Errors) == 0
}

// DefaultEvalTimeout is the hard limit for a single evaluation.
const DefaultEvalTimeout = 5 * time.Second

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	limits  arm.Limits
	log     logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides DefaultEvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLimits sets the limits of every manipulator the engine builds.
func WithLimits(l arm.Limits) Option {
	return func(e *Engine) { e.limits = l }
}

// WithLogger routes engine and manipulator diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout: DefaultEvalTimeout,
		limits:  arm.DefaultLimits(),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs Lisp source and returns the manipulator it describes.
//
// Return semantics:
//   - On success: result with a manipulator, possibly with warnings
//   - On parse/eval failure: result with nil manipulator and eval errors
//   - On fatal failure (timeout, panic, superseded): nil result and error
func (e *Engine) Evaluate(source string) (*EvalResult, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate bounded by ctx as well as the engine timeout.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*EvalResult, error) {
	gen := e.begin()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, err := e.evaluate(source)
		ch <- evalResult{result: res, err: err}
	}()

	return e.await(ctx, ch, gen)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*EvalResult, error) {
	s := newSession(arm.New(arm.WithLimits(e.limits), arm.WithLogger(e.log)))

	// Empty source is a valid program that describes an empty manipulator.
	if strings.TrimSpace(source) == "" {
		return s.result(), nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return &EvalResult{Errors: parseZygomysError(err), Warnings: s.warnings}, nil
	}

	if _, err := env.Run(); err != nil {
		return &EvalResult{Errors: parseZygomysError(err), Warnings: s.warnings}, nil
	}

	e.log.WithField("links", s.m.Len()).Debug("evaluation finished")
	return s.result(), nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values,
// extracting line information when the message carries it.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
