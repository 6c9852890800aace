package graph

import (
	"slices"

	perrors "github.com/matzehuels/pipelayout/pkg/errors"
)

// Derive returns a copy of p with every step's OutgoingConnections rebuilt
// from the IncomingConnections of the other steps.
//
// For every step s (in pipeline order) and every p in s.IncomingConnections,
// s is appended to p.OutgoingConnections, so after Derive:
//
//	t ∈ s.OutgoingConnections  ⟺  s ∈ t.IncomingConnections
//
// Incoming connections are de-duplicated keeping first occurrence. Any
// previously stored outgoing connections are discarded. Positions are left
// untouched.
//
// Derive returns a [perrors.DanglingConnectionError] if a step depends on an
// id that is not part of the pipeline. The input pipeline is never modified.
func Derive(p *Pipeline) (*Pipeline, error) {
	out := p.Clone()
	for _, s := range out.steps {
		s.OutgoingConnections = nil
	}

	for _, s := range out.steps {
		incoming := make([]string, 0, len(s.IncomingConnections))
		seen := make(map[string]struct{}, len(s.IncomingConnections))
		for _, parentID := range s.IncomingConnections {
			if _, dup := seen[parentID]; dup {
				continue
			}
			seen[parentID] = struct{}{}

			parent, ok := out.Step(parentID)
			if !ok {
				return nil, &perrors.DanglingConnectionError{Step: s.UUID, Missing: parentID}
			}
			parent.OutgoingConnections = append(parent.OutgoingConnections, s.UUID)
			incoming = append(incoming, parentID)
		}
		s.IncomingConnections = incoming
	}
	return out, nil
}

// CheckSymmetry verifies that incoming and outgoing connections mirror each
// other. It returns an INTERNAL_ERROR describing the first mismatch.
func CheckSymmetry(p *Pipeline) error {
	for _, s := range p.steps {
		for _, childID := range s.OutgoingConnections {
			child, ok := p.Step(childID)
			if !ok || !slices.Contains(child.IncomingConnections, s.UUID) {
				return perrors.New(perrors.ErrCodeInternal, "step %q lists %q as dependent but the reverse connection is missing", s.UUID, childID)
			}
		}
		for _, parentID := range s.IncomingConnections {
			parent, ok := p.Step(parentID)
			if !ok {
				return &perrors.DanglingConnectionError{Step: s.UUID, Missing: parentID}
			}
			if !slices.Contains(parent.OutgoingConnections, s.UUID) {
				return perrors.New(perrors.ErrCodeInternal, "step %q depends on %q but is not listed as its dependent", s.UUID, parentID)
			}
		}
	}
	return nil
}
