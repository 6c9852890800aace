package layout

// ComponentLayout is one laid-out component, anchored at its own origin.
type ComponentLayout struct {
	// Steps lists the component's step ids in pipeline order.
	Steps []string
	// Positions holds pixel-space positions relative to the component origin.
	Positions map[string]Position
}

// Component describes where a component ended up after stacking.
type Component struct {
	Steps  []string `json:"steps"`
	Bounds BBox     `json:"bounds"`
}

// Stack places components below each other and returns the absolute
// position of every step plus the placed bounds of each component.
//
// A cursor starts at (OffsetX, OffsetY). Each component is translated by the
// cursor, then the cursor moves down by the component's bounding box height
// plus StepHeight plus VerticalGraphMargin. The cursor's x never changes.
// Components are placed in the order given.
func Stack(comps []ComponentLayout, opts Options) (map[string]Position, []Component) {
	positions := make(map[string]Position)
	placed := make([]Component, 0, len(comps))

	x, y := opts.OffsetX, opts.OffsetY
	for _, c := range comps {
		abs := make(map[string]Position, len(c.Positions))
		for id, p := range c.Positions {
			abs[id] = p.Add(x, y)
			positions[id] = abs[id]
		}
		b := Bounds(abs)
		placed = append(placed, Component{Steps: c.Steps, Bounds: b})
		y += b.Height() + opts.StepHeight + opts.VerticalGraphMargin
	}
	return positions, placed
}
