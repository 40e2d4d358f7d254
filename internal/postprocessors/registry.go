package postprocessors

import (
	"fmt"

	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
)

// BuilderFunc creates a PostProcessor from generic settings parsed out
// of user configuration.
type BuilderFunc func(settings map[string]any) (driven.PostProcessor, error)

// Stage names one processor and carries its settings. A sequence of
// stages describes a full pipeline.
type Stage struct {
	Name     string
	Settings map[string]any
}

// Registry maps processor names to their builders. The built-in
// processors are registered at construction; callers may add their own
// before building a pipeline.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a registry with the built-in processors
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{
		builders: make(map[string]BuilderFunc),
	}
	r.Register("chunker", buildChunker)
	return r
}

// Register adds a processor builder. Name should match the
// processor's Name() return value; registering an existing name
// replaces the previous builder.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a single processor by name with the given settings.
func (r *Registry) Build(name string, settings map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown processor: %s", name)
	}
	return builder(settings)
}

// BuildPipeline constructs every stage in order and chains them into a
// pipeline. An unknown stage name or a failing builder aborts the
// whole construction.
func (r *Registry) BuildPipeline(stages ...Stage) (*Pipeline, error) {
	processors := make([]driven.PostProcessor, 0, len(stages))
	for _, stage := range stages {
		proc, err := r.Build(stage.Name, stage.Settings)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", stage.Name, err)
		}
		processors = append(processors, proc)
	}
	return NewPipeline(processors...), nil
}

// Has returns true if a processor with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered processor names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	return names
}
