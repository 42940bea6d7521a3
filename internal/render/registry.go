// Package render writes report tables to output files in the supported
// formats. Formats register themselves at init time.
package render

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gvmreport/gvmreport/internal/report"
	"github.com/gvmreport/gvmreport/pkg/logger"
)

// Metadata describes the conversion run a report came from.
type Metadata struct {
	RunID       string
	GeneratedAt time.Time
	Sources     []string
}

// Renderer writes report tables to a file in one output format.
type Renderer interface {
	// Render writes the tables to outputPath.
	Render(tables []report.Table, meta Metadata, outputPath string) error
	// Name returns the format identifier (e.g., "csv", "xlsx", "html").
	Name() string
	// Description returns a human-readable description of the format.
	Description() string
}

// TemplateRenderer is implemented by renderers that can load an external
// template file in place of their built-in one.
type TemplateRenderer interface {
	SetTemplate(path string)
}

// RendererFactory creates instances of renderers.
type RendererFactory func(log logger.Logger) (Renderer, error)

var (
	rendererRegistry = make(map[string]RendererFactory)
	registryMutex    sync.RWMutex
)

// Register registers a new renderer factory.
func Register(name string, factory RendererFactory) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	if factory == nil {
		panic(fmt.Sprintf("render: Register factory is nil for format %q", name))
	}
	if _, dup := rendererRegistry[name]; dup {
		panic(fmt.Sprintf("render: Register called twice for format %q", name))
	}
	rendererRegistry[name] = factory
}

// GetRenderer creates an instance of the specified renderer.
func GetRenderer(name string, log logger.Logger) (Renderer, error) {
	registryMutex.RLock()
	factory, exists := rendererRegistry[name]
	registryMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}

	return factory(log)
}

// ListRenderers returns the names of all registered renderers, sorted.
func ListRenderers() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	names := make([]string, 0, len(rendererRegistry))
	for name := range rendererRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
