package cleaner

// Processor owns one built pipeline and runs it against text. It holds no
// other state, so one Processor can serve any number of goroutines.
type Processor struct {
	pipeline Pipeline
}

// NewProcessor takes a private copy of p. A nil or empty pipeline yields the
// identity processor.
func NewProcessor(p *Pipeline) *Processor {
	return &Processor{pipeline: Pipeline{steps: p.Steps()}}
}

// NewProcessorFromSelection builds a pipeline from sel in canonical order.
func NewProcessorFromSelection(sel Selection) (*Processor, error) {
	p, err := BuildFromSelection(sel)
	if err != nil {
		return nil, err
	}
	return NewProcessor(p), nil
}

// NewProcessorFromNames builds a pipeline from names in the order given.
func NewProcessorFromNames(names []string) (*Processor, error) {
	p, err := Build(names)
	if err != nil {
		return nil, err
	}
	return NewProcessor(p), nil
}

// Process runs text through the pipeline.
func (p *Processor) Process(text string) string {
	return p.pipeline.Apply(text)
}

// ProcessBatch runs every text through the pipeline, preserving order.
func (p *Processor) ProcessBatch(texts []string) []string {
	results := make([]string, len(texts))
	for i, text := range texts {
		results[i] = p.pipeline.Apply(text)
	}
	return results
}

// Steps returns the pipeline's entries in application order.
func (p *Processor) Steps() []Transformation {
	return p.pipeline.Steps()
}

// Names returns the pipeline's identifiers in application order.
func (p *Processor) Names() []string {
	return p.pipeline.Names()
}

// Signature renders the pipeline's step order.
func (p *Processor) Signature() string {
	return p.pipeline.Signature()
}
