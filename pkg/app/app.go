// Package app ties the engine, the manipulator and the mesh pipeline
// together behind a single Evaluate call.
package app

import (
	"github.com/sirupsen/logrus"

	"github.com/chazu/armature/pkg/arm"
	"github.com/chazu/armature/pkg/engine"
	"github.com/chazu/armature/pkg/kernel"
	"github.com/chazu/armature/pkg/kernel/sdfx"
	"github.com/chazu/armature/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to links.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App evaluates arm descriptions.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	mesh   tessellate.Options
	meshes bool
	log    logrus.FieldLogger
}

// Option configures an App.
type Option func(*App)

// WithEngine replaces the default engine.
func WithEngine(e *engine.Engine) Option {
	return func(a *App) { a.engine = e }
}

// WithKernel replaces the default sdfx kernel.
func WithKernel(k kernel.Kernel) Option {
	return func(a *App) { a.kernel = k }
}

// WithMeshOptions sets link and joint radii.
func WithMeshOptions(o tessellate.Options) Option {
	return func(a *App) { a.mesh = o }
}

// WithMeshes turns tessellation on or off. It is on by default.
func WithMeshes(on bool) Option {
	return func(a *App) { a.meshes = on }
}

// WithLogger routes diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *App) { a.log = log }
}

// New creates an App with a default engine and the sdfx kernel.
func New(opts ...Option) *App {
	a := &App{
		kernel: sdfx.New(),
		mesh:   tessellate.DefaultOptions(),
		meshes: true,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.engine == nil {
		a.engine = engine.NewEngine(engine.WithLogger(a.log))
	}
	return a
}

// Point is a JSON-friendly position.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func pointOf(p arm.Position) Point {
	return Point{X: p.X, Y: p.Y, Z: p.Z}
}

// LinkData is the resolved placement of one link. Error is set, and the
// points are zero, when the link does not resolve.
type LinkData struct {
	ID    int    `json:"id"`
	Kind  string `json:"kind"`
	Prev  int    `json:"prev"`
	Chain string `json:"chain,omitempty"`
	Start Point  `json:"start"`
	End   Point  `json:"end"`
	Error string `json:"error,omitempty"`
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// SnapshotData records one photo taken during evaluation.
type SnapshotData struct {
	Link int   `json:"link"`
	Seq  int   `json:"seq"`
	At   Point `json:"at"`
}

// DiagnosticData is a JSON-serializable error or warning.
type DiagnosticData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Link    int    `json:"link,omitempty"`
	Message string `json:"message"`
}

// Result is the full output of Evaluate.
type Result struct {
	Links     []LinkData       `json:"links"`
	Meshes    []MeshData       `json:"meshes"`
	Snapshots []SnapshotData   `json:"snapshots"`
	Errors    []DiagnosticData `json:"errors"`
	Warnings  []DiagnosticData `json:"warnings"`

	// Manipulator is nil when evaluation failed.
	Manipulator *arm.Manipulator `json:"-"`
}

// OK reports whether the source evaluated without errors.
func (r Result) OK() bool {
	return r.Manipulator != nil && len(r.Errors) == 0
}

// Evaluate runs source and resolves every link it declares. Evaluation
// errors stop the pipeline; links that fail to resolve are reported per
// link and do not.
func (a *App) Evaluate(source string) Result {
	result := Result{
		Links:     []LinkData{},
		Meshes:    []MeshData{},
		Snapshots: []SnapshotData{},
		Errors:    []DiagnosticData{},
		Warnings:  []DiagnosticData{},
	}

	// Step 1: Evaluate the source into a manipulator.
	res, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, superseded)
		a.log.Errorf("evaluate: %v", err)
		result.Errors = append(result.Errors, DiagnosticData{Message: err.Error()})
		return result
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, DiagnosticData{
			Line:    w.Line,
			Col:     w.Col,
			Link:    int(w.Link),
			Message: w.Message,
		})
	}

	// Step 2: Convert eval errors.
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, DiagnosticData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	m := res.Manipulator
	result.Manipulator = m

	for _, s := range res.Snapshots {
		result.Snapshots = append(result.Snapshots, SnapshotData{Link: int(s.Link), Seq: s.Seq, At: pointOf(s.At)})
	}

	// Step 3: Resolve every link.
	for _, p := range m.Placements() {
		ld := LinkData{ID: int(p.ID), Kind: p.Kind.String(), Prev: int(p.Prev)}
		if p.Err != nil {
			ld.Error = p.Err.Error()
		} else {
			ld.Start, ld.End = pointOf(p.Start), pointOf(p.End)
			if c, err := m.Chain(p.ID); err == nil {
				ld.Chain = c.String()
			}
		}
		result.Links = append(result.Links, ld)
	}

	if !a.meshes {
		return result
	}

	// Step 4: Tessellate.
	tr, err := tessellate.Tessellate(m, a.kernel, a.mesh)
	if err != nil {
		a.log.Errorf("tessellate: %v", err)
		result.Errors = append(result.Errors, DiagnosticData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	for i, mesh := range tr.Meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: mesh.Vertices,
			Normals:  mesh.Normals,
			Indices:  mesh.Indices,
			Name:     mesh.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	return result
}
