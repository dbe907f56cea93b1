// Package frontend discovers C++ sources, parses them into cplusplus
// documents and keeps a snapshot of the code base up to date.
package frontend

import (
	"context"
	"fmt"
	"sync"

	"github.com/c360studio/cppmodel/cplusplus"
)

// FileParser turns one source file into a Document. The document's global
// namespace holds the file's symbols; includes and diagnostics are recorded
// on the document itself.
type FileParser interface {
	ParseFile(ctx context.Context, path string) (*cplusplus.Document, error)
}

// ParserFactory creates a FileParser bound to a Control (for name and type
// interning) and the include search directories.
type ParserFactory func(control *cplusplus.Control, includeDirs []string) FileParser

// ParserRegistry maps file extensions to language parsers.
// Thread-safe for concurrent access.
type ParserRegistry struct {
	mu      sync.RWMutex
	parsers map[string]ParserFactory // name → factory
	extMap  map[string]string        // extension → parser name
}

// NewParserRegistry creates a new empty parser registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		parsers: make(map[string]ParserFactory),
		extMap:  make(map[string]string),
	}
}

// Register adds a parser factory for the given extensions.
// The first registration wins if there's an extension conflict.
// Extensions include the leading dot (e.g. ".hpp", ".cc").
func (r *ParserRegistry) Register(name string, extensions []string, factory ParserFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.parsers[name] = factory

	for _, ext := range extensions {
		if _, exists := r.extMap[ext]; !exists {
			r.extMap[ext] = name
		}
	}
}

// GetParserName returns the parser name registered for a file extension.
func (r *ParserRegistry) GetParserName(ext string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.extMap[ext]
	return name, ok
}

// CreateParser instantiates a parser by name.
// Returns an error if the parser name is not registered.
func (r *ParserRegistry) CreateParser(name string, control *cplusplus.Control, includeDirs []string) (FileParser, error) {
	r.mu.RLock()
	factory, ok := r.parsers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("parser not registered: %s", name)
	}

	return factory(control, includeDirs), nil
}

// CreateParserForExtension creates a parser for the given file extension.
func (r *ParserRegistry) CreateParserForExtension(ext string, control *cplusplus.Control, includeDirs []string) (FileParser, error) {
	name, ok := r.GetParserName(ext)
	if !ok {
		return nil, fmt.Errorf("no parser registered for extension: %s", ext)
	}
	return r.CreateParser(name, control, includeDirs)
}

// ListParsers returns all registered parser names.
func (r *ParserRegistry) ListParsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	return names
}

// ListExtensions returns all registered file extensions.
func (r *ParserRegistry) ListExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extensions := make([]string, 0, len(r.extMap))
	for ext := range r.extMap {
		extensions = append(extensions, ext)
	}
	return extensions
}

// HasParser returns true if a parser with the given name is registered.
func (r *ParserRegistry) HasParser(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.parsers[name]
	return ok
}

// DefaultRegistry is the global parser registry.
// Language parsers register themselves via init() functions.
var DefaultRegistry = NewParserRegistry()
