package cleaner

import "strings"

// Pipeline is an ordered sequence of catalog entries. Every step is a valid
// catalog entry; TryAdd is the only way in.
type Pipeline struct {
	steps []Transformation
}

// TryAdd resolves name and appends it. On failure the pipeline keeps the
// steps it already had.
func (p *Pipeline) TryAdd(name string) error {
	t, ok := ParseTransformation(name)
	if !ok {
		return &UnknownTransformationError{Name: name}
	}
	p.steps = append(p.steps, t)
	return nil
}

// Build resolves names in the order given, stopping at the first unknown one.
func Build(names []string) (*Pipeline, error) {
	p := &Pipeline{steps: make([]Transformation, 0, len(names))}
	for _, name := range names {
		if err := p.TryAdd(name); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// BuildFromSelection resolves a Selection in canonical catalog order. When the
// selection holds unknown names, the error names the lexically first of them.
func BuildFromSelection(sel Selection) (*Pipeline, error) {
	return Build(sel.Names())
}

// Of returns a pipeline over the given entries, dropping any value outside the
// catalog.
func Of(steps ...Transformation) *Pipeline {
	p := &Pipeline{steps: make([]Transformation, 0, len(steps))}
	for _, t := range steps {
		if t.Valid() {
			p.steps = append(p.steps, t)
		}
	}
	return p
}

// Steps returns a copy of the pipeline's entries in application order.
func (p *Pipeline) Steps() []Transformation {
	if p == nil {
		return nil
	}
	out := make([]Transformation, len(p.steps))
	copy(out, p.steps)
	return out
}

// Names returns the identifiers of the pipeline's entries in application order.
func (p *Pipeline) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.steps))
	for i, t := range p.steps {
		names[i] = t.String()
	}
	return names
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.steps)
}

// Signature renders the step order, e.g. "remove_all_urls->trim". An empty
// pipeline has an empty signature.
func (p *Pipeline) Signature() string {
	return strings.Join(p.Names(), "->")
}

// Apply folds text through every step, left to right.
func (p *Pipeline) Apply(text string) string {
	if p == nil {
		return text
	}
	for _, t := range p.steps {
		text = t.Apply(text)
	}
	return text
}
