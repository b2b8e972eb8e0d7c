package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/armature/pkg/arm"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites arm description source into something zygomys
// reads directly. Outside string literals:
//
//   - :name becomes the string "__kw_name"; := is left alone
//   - open-gripper becomes open_gripper, since zygomys reads a hyphen as
//     subtraction; a hyphen not between identifier characters is kept
//   - ; and ;; line comments become //
func preprocessSource(source string) string {
	sc := &scanner{src: source, out: make([]byte, 0, len(source)+len(source)/4)}
	for !sc.done() {
		switch c := sc.peek(0); {
		case c == '"':
			sc.quoted('"', true)
		case c == '`':
			sc.quoted('`', false)
		case c == ';':
			sc.comment()
		case c == ':' && sc.peek(1) == '=':
			sc.copy(2)
		case c == ':' && isLetter(sc.peek(1)):
			sc.keyword()
		case c == '-' && sc.pos > 0 && isIdentChar(sc.src[sc.pos-1]) && isLetter(sc.peek(1)):
			sc.out = append(sc.out, '_')
			sc.pos++
		default:
			sc.copy(1)
		}
	}
	return string(sc.out)
}

type scanner struct {
	src string
	pos int
	out []byte
}

func (sc *scanner) done() bool { return sc.pos >= len(sc.src) }

// peek returns the byte n ahead of the cursor, or 0 past the end.
func (sc *scanner) peek(n int) byte {
	if sc.pos+n >= len(sc.src) {
		return 0
	}
	return sc.src[sc.pos+n]
}

func (sc *scanner) copy(n int) {
	end := min(sc.pos+n, len(sc.src))
	sc.out = append(sc.out, sc.src[sc.pos:end]...)
	sc.pos = end
}

// quoted copies a literal up to and including its closing quote.
func (sc *scanner) quoted(quote byte, escapes bool) {
	sc.copy(1)
	for !sc.done() && sc.peek(0) != quote {
		if escapes && sc.peek(0) == '\\' {
			sc.copy(2)
			continue
		}
		sc.copy(1)
	}
	sc.copy(1)
}

func (sc *scanner) comment() {
	for sc.peek(0) == ';' {
		sc.pos++
	}
	sc.out = append(sc.out, '/', '/')
	end := strings.IndexByte(sc.src[sc.pos:], '\n')
	if end < 0 {
		end = len(sc.src) - sc.pos
	}
	sc.copy(end)
}

func (sc *scanner) keyword() {
	start := sc.pos + 1
	end := start
	for end < len(sc.src) && isKWChar(sc.src[end]) {
		end++
	}
	sc.out = append(sc.out, '"')
	sc.out = append(sc.out, kwPrefix...)
	sc.out = append(sc.out, sc.src[start:end]...)
	sc.out = append(sc.out, '"')
	sc.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpLinkRef is returned by the link constructors and accepted wherever
// a link identifier is expected.
type sexpLinkRef struct {
	id   arm.LinkID
	kind arm.LinkKind
}

func (l *sexpLinkRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %d)", l.kind, int(l.id))
}
func (l *sexpLinkRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps an arm.Position.
type sexpVec3 struct {
	vec arm.Position
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.4f %.4f %.4f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string and returns the
// keyword name without its prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// arg returns keyword name if present, else positional argument pos.
func (a kwArgs) arg(name string, pos int) (zygo.Sexp, bool) {
	if v, ok := a.kw[name]; ok {
		return v, true
	}
	if pos >= 0 && pos < len(a.positional) {
		return a.positional[pos], true
	}
	return nil, false
}

// float returns the numeric argument name, or def when it is absent.
func (a kwArgs) float(name string, pos int, def float64) (float64, error) {
	v, ok := a.arg(name, pos)
	if !ok {
		return def, nil
	}
	return toFloat64(v)
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toLinkID extracts a link identifier from an integer or a link reference.
func toLinkID(s zygo.Sexp) (arm.LinkID, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return arm.LinkID(v.Val), nil
	case *sexpLinkRef:
		return v.id, nil
	}
	return 0, fmt.Errorf("expected link id or link reference, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Evaluation session
// ---------------------------------------------------------------------------

// session is the state builtins share during one evaluation.
type session struct {
	m         *arm.Manipulator
	warnings  []EvalWarning
	snapshots []arm.Snapshot
}

func newSession(m *arm.Manipulator) *session {
	return &session{m: m}
}

func (s *session) result() *EvalResult {
	return &EvalResult{
		Manipulator: s.m,
		Warnings:    s.warnings,
		Snapshots:   s.snapshots,
	}
}

// soften turns diagnostics that must not abort evaluation into warnings.
// Any other error is returned unchanged.
func (s *session) soften(id arm.LinkID, err error) error {
	switch arm.KindOf(err) {
	case arm.KindDuplicateIdentifier, arm.KindUnsupportedCapability, arm.KindUnknownIdentifier:
		s.warnings = append(s.warnings, EvalWarning{Message: err.Error(), Link: id})
		return nil
	}
	return err
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type linkConstructor func(id, prev arm.LinkID, length float64) arm.Link

// defineLink builds the (link ...), (gripper ...) and (camera ...) builtins.
//
//	(link :id 1 :prev 0 :length 5 :pitch 0 :yaw 0 :roll 0)
//	(link 1 :length 5)
func defineLink(s *session, kind arm.LinkKind, build linkConstructor) zygo.ZlispUserFunction {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		v, ok := pa.arg("id", 0)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("%s requires an :id", kind)
		}
		id, err := toLinkID(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: id: %w", kind, err)
		}

		prev := arm.BaseID
		if v, ok := pa.kw["prev"]; ok {
			if prev, err = toLinkID(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %d: prev: %w", kind, int(id), err)
			}
		}

		if _, ok := pa.kw["length"]; !ok {
			return zygo.SexpNull, fmt.Errorf("%s %d requires a :length", kind, int(id))
		}
		length, err := pa.float("length", -1, 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s %d: length: %w", kind, int(id), err)
		}

		var d arm.Direction
		for _, f := range []struct {
			name string
			dst  *float64
		}{{"pitch", &d.Pitch}, {"yaw", &d.Yaw}, {"roll", &d.Roll}} {
			if *f.dst, err = pa.float(f.name, -1, 0); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s %d: %s: %w", kind, int(id), f.name, err)
			}
		}

		l := build(id, prev, length)
		l.SetDirection(d)
		if err := s.soften(id, s.m.Insert(l)); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
		}
		return &sexpLinkRef{id: id, kind: kind}, nil
	}
}

// registerBuiltins installs the description language into a zygomys
// environment. Builtins populate the session's manipulator as they run.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *session) {
	env.AddFunction("link", defineLink(s, arm.LinkSegment, func(id, prev arm.LinkID, r float64) arm.Link {
		return arm.NewSegment(id, prev, r)
	}))
	env.AddFunction("gripper", defineLink(s, arm.LinkGripper, func(id, prev arm.LinkID, r float64) arm.Link {
		return arm.NewGripper(id, prev, r)
	}))
	env.AddFunction("camera", defineLink(s, arm.LinkCamera, func(id, prev arm.LinkID, r float64) arm.Link {
		return arm.NewCamera(id, prev, r)
	}))

	// -----------------------------------------------------------------------
	// (deg 90) => pi/2
	// -----------------------------------------------------------------------
	env.AddFunction("deg", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("deg requires exactly 1 argument, got %d", len(args))
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("deg: %w", err)
		}
		return &zygo.SexpFloat{Val: f * math.Pi / 180}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: arm.Position{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (set-direction 2 :pitch 0.5 :yaw 0.1 :roll 0)
	// Omitted angles keep their current value.
	// -----------------------------------------------------------------------
	env.AddFunction("set_direction", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v, ok := pa.arg("id", 0)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("set-direction requires a link id")
		}
		id, err := toLinkID(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-direction: %w", err)
		}

		cur, _ := s.m.Direction(id)
		pitch, err := pa.float("pitch", 1, cur.Pitch)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-direction: pitch: %w", err)
		}
		yaw, err := pa.float("yaw", 2, cur.Yaw)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-direction: yaw: %w", err)
		}
		roll, err := pa.float("roll", 3, cur.Roll)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-direction: roll: %w", err)
		}

		// An unknown link is a checked precondition here, not a warning.
		if err := s.m.SetDirection(id, pitch, yaw, roll); err != nil {
			return zygo.SexpNull, fmt.Errorf("set-direction: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (open-gripper 3 :angle 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("open_gripper", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v, ok := pa.arg("id", 0)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("open-gripper requires a link id")
		}
		id, err := toLinkID(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("open-gripper: %w", err)
		}
		if _, ok := pa.arg("angle", 1); !ok {
			return zygo.SexpNull, fmt.Errorf("open-gripper requires an :angle")
		}
		angle, err := pa.float("angle", 1, 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("open-gripper: angle: %w", err)
		}
		if err := s.soften(id, s.m.OpenGripper(id, angle)); err != nil {
			return zygo.SexpNull, fmt.Errorf("open-gripper: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (close-gripper 3)
	// -----------------------------------------------------------------------
	env.AddFunction("close_gripper", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("close-gripper requires exactly 1 argument, got %d", len(args))
		}
		id, err := toLinkID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("close-gripper: %w", err)
		}
		if err := s.soften(id, s.m.CloseGripper(id)); err != nil {
			return zygo.SexpNull, fmt.Errorf("close-gripper: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (take-photo 4) => (vec3 ...) where the photo was taken
	// -----------------------------------------------------------------------
	env.AddFunction("take_photo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("take-photo requires exactly 1 argument, got %d", len(args))
		}
		id, err := toLinkID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("take-photo: %w", err)
		}
		snap, err := s.m.TakePhoto(id)
		if err != nil {
			if err := s.soften(id, err); err != nil {
				return zygo.SexpNull, fmt.Errorf("take-photo: %w", err)
			}
			return zygo.SexpNull, nil
		}
		s.snapshots = append(s.snapshots, snap)
		return &sexpVec3{vec: snap.At}, nil
	})

	// -----------------------------------------------------------------------
	// (position-of 3) => (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("position_of", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("position-of requires exactly 1 argument, got %d", len(args))
		}
		id, err := toLinkID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("position-of: %w", err)
		}
		pos, err := s.m.ResolvePosition(id)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("position-of: %w", err)
		}
		return &sexpVec3{vec: pos}, nil
	})
}
