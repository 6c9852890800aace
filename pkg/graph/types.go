package graph

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	perrors "github.com/matzehuels/pipelayout/pkg/errors"
)

// =============================================================================
// Step
// =============================================================================

// Kernel describes the execution kernel a step runs with.
type Kernel struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}

// MetaData holds presentation attributes of a step.
type MetaData struct {
	// Position is [x, y] in pixel space. Written by the layout engine or by
	// a user dragging the step; never invented during derivation.
	Position [2]float64 `json:"position"`
	Hidden   bool       `json:"hidden,omitempty"`
}

// Step is one node of a pipeline.
type Step struct {
	UUID        string         `json:"uuid"`
	Title       string         `json:"title"`
	FilePath    string         `json:"file_path"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Environment string         `json:"environment,omitempty"`
	Kernel      Kernel         `json:"kernel"`

	// IncomingConnections lists the steps this step depends on. It is the
	// only persisted direction and is treated as an ordered set.
	IncomingConnections []string `json:"incoming_connections"`

	// OutgoingConnections lists the steps that depend on this step. It is
	// derived by [Derive] and ignored on input.
	OutgoingConnections []string `json:"outgoing_connections,omitempty"`

	MetaData MetaData `json:"meta_data"`
}

// NewStep returns a step with a fresh random UUID and the given title.
func NewStep(title string, incoming ...string) Step {
	return Step{
		UUID:                uuid.NewString(),
		Title:               title,
		IncomingConnections: incoming,
	}
}

// Clone returns a deep copy of the step. Parameter values are copied
// shallowly: nested maps or slices inside Parameters remain shared.
func (s *Step) Clone() *Step {
	c := *s
	c.Parameters = maps.Clone(s.Parameters)
	c.IncomingConnections = slices.Clone(s.IncomingConnections)
	c.OutgoingConnections = slices.Clone(s.OutgoingConnections)
	return &c
}

// IsRoot reports whether the step has no incoming connections.
func (s *Step) IsRoot() bool { return len(s.IncomingConnections) == 0 }

// =============================================================================
// Pipeline
// =============================================================================

// Pipeline is an insertion-ordered mapping from step identifier to [Step],
// plus global settings.
//
// The zero value is an empty pipeline ready to use.
type Pipeline struct {
	UUID     string
	Name     string
	Version  string
	Settings map[string]any

	steps []*Step
	index map[string]int
}

// New creates an empty pipeline with the given name.
func New(name string) *Pipeline {
	return &Pipeline{Name: name}
}

// AddStep appends a step to the pipeline.
// Returns an INVALID_INPUT error if the step id is not acceptable, or a
// DUPLICATE_STEP error if a step with the same id already exists.
func (p *Pipeline) AddStep(s Step) error {
	if err := perrors.ValidateStepID(s.UUID); err != nil {
		return err
	}
	if _, exists := p.index[s.UUID]; exists {
		return perrors.New(perrors.ErrCodeDuplicateStep, "duplicate step id %q", s.UUID)
	}
	if s.IncomingConnections == nil {
		s.IncomingConnections = []string{}
	}
	if p.index == nil {
		p.index = make(map[string]int)
	}
	p.index[s.UUID] = len(p.steps)
	p.steps = append(p.steps, s.Clone())
	return nil
}

// MustAddStep is like AddStep but panics on error. Intended for tests and
// examples building literal pipelines.
func (p *Pipeline) MustAddStep(s Step) *Pipeline {
	if err := p.AddStep(s); err != nil {
		panic(err)
	}
	return p
}

// Step returns the step with the given id and true, or nil and false.
// The returned pointer refers to the pipeline's own step.
func (p *Pipeline) Step(id string) (*Step, bool) {
	i, ok := p.index[id]
	if !ok {
		return nil, false
	}
	return p.steps[i], true
}

// Has reports whether a step with the given id exists.
func (p *Pipeline) Has(id string) bool {
	_, ok := p.index[id]
	return ok
}

// Steps returns the steps in insertion order. The slice is a read-only view.
func (p *Pipeline) Steps() []*Step { return p.steps }

// StepIDs returns the step identifiers in insertion order.
func (p *Pipeline) StepIDs() []string {
	ids := make([]string, len(p.steps))
	for i, s := range p.steps {
		ids[i] = s.UUID
	}
	return ids
}

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }

// IndexOf returns the insertion index of the step, or -1.
func (p *Pipeline) IndexOf(id string) int {
	if i, ok := p.index[id]; ok {
		return i
	}
	return -1
}

// Edges returns every dependency as a prerequisite → dependent pair, in step
// order and then incoming-connection order. Duplicate connections are
// reported once.
func (p *Pipeline) Edges() []Edge {
	var edges []Edge
	for _, s := range p.steps {
		seen := make(map[string]struct{}, len(s.IncomingConnections))
		for _, from := range s.IncomingConnections {
			if _, dup := seen[from]; dup {
				continue
			}
			seen[from] = struct{}{}
			edges = append(edges, Edge{From: from, To: s.UUID})
		}
	}
	return edges
}

// Clone returns a deep copy of the pipeline.
func (p *Pipeline) Clone() *Pipeline {
	c := &Pipeline{
		UUID:     p.UUID,
		Name:     p.Name,
		Version:  p.Version,
		Settings: maps.Clone(p.Settings),
		steps:    make([]*Step, len(p.steps)),
		index:    make(map[string]int, len(p.steps)),
	}
	for i, s := range p.steps {
		c.steps[i] = s.Clone()
		c.index[s.UUID] = i
	}
	return c
}

// Edge is a directed dependency from a prerequisite step to its dependent.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}
