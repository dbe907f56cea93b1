package frontend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/c360studio/cppmodel/cplusplus"
)

// ComputeHash returns a short content hash for change detection.
func ComputeHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:8])
}

// IndexerConfig configures an Indexer.
type IndexerConfig struct {
	// Registry supplies the language parsers; nil uses DefaultRegistry.
	Registry *ParserRegistry

	// IncludeDirs are additional directories for resolving #include paths.
	IncludeDirs []string

	// Extensions are the file extensions to index, with leading dot.
	Extensions []string

	// ExpandTemplates clones template members during instantiation.
	ExpandTemplates bool

	// Logger for logging events.
	Logger *slog.Logger
}

// Indexer parses source files and maintains the Snapshot queried through
// LookupContext. A single Control interns names and types for every document,
// so symbols from different files compare by pointer identity. The Control is
// not safe for concurrent use; the indexer serializes access with its mutex.
type Indexer struct {
	mu       sync.Mutex
	control  *cplusplus.Control
	snapshot *cplusplus.Snapshot
	hashes   map[string]string // path → content hash

	registry    *ParserRegistry
	includeDirs []string
	extensions  map[string]bool
	expand      bool
	logger      *slog.Logger
}

// NewIndexer creates an indexer with an empty snapshot.
func NewIndexer(config IndexerConfig) *Indexer {
	registry := config.Registry
	if registry == nil {
		registry = DefaultRegistry
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	extensions := make(map[string]bool, len(config.Extensions))
	for _, ext := range config.Extensions {
		extensions[strings.ToLower(ext)] = true
	}

	return &Indexer{
		control:     cplusplus.NewControl(),
		snapshot:    cplusplus.NewSnapshot(),
		hashes:      make(map[string]string),
		registry:    registry,
		includeDirs: config.IncludeDirs,
		extensions:  extensions,
		expand:      config.ExpandTemplates,
		logger:      logger,
	}
}

// Control returns the indexer's name and type table.
func (ix *Indexer) Control() *cplusplus.Control { return ix.control }

// IsTargetFile reports whether the path has an indexed extension.
func (ix *Indexer) IsTargetFile(path string) bool {
	return ix.extensions[strings.ToLower(filepath.Ext(path))]
}

// IndexRoots expands the glob patterns to directories and indexes every
// target file below them. Returns the number of parsed documents.
func (ix *Indexer) IndexRoots(ctx context.Context, patterns []string) (int, error) {
	dirs, err := ResolvePaths(patterns)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if info.IsDir() {
				base := filepath.Base(path)
				if base == "build" || strings.HasPrefix(base, ".") {
					return filepath.SkipDir
				}
				return nil
			}

			if !ix.IsTargetFile(path) {
				return nil
			}

			if _, _, err := ix.IndexFile(ctx, path); err != nil {
				// A file that fails to parse must not abort the walk
				ix.logger.Warn("Failed to index file",
					"path", path,
					"error", err)
				return nil
			}

			count++
			return nil
		})
		if err != nil {
			return count, fmt.Errorf("walk directory %s: %w", dir, err)
		}
	}

	ix.logger.Info("Indexed source roots",
		"patterns", patterns,
		"documents", count)

	return count, nil
}

// IndexFile parses one file into the snapshot. When the file content matches
// the recorded hash the cached document is returned with changed=false and no
// re-parse happens.
func (ix *Indexer) IndexFile(ctx context.Context, path string) (doc *cplusplus.Document, changed bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read file: %w", err)
	}
	hash := ComputeHash(content)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.hashes[path]; ok && old == hash {
		return ix.snapshot.Document(path), false, nil
	}

	parser, err := ix.registry.CreateParserForExtension(
		strings.ToLower(filepath.Ext(path)), ix.control, ix.includeDirs)
	if err != nil {
		return nil, false, err
	}

	doc, err = parser.ParseFile(ctx, path)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", path, err)
	}

	ix.snapshot.Insert(doc)
	ix.hashes[path] = hash

	ix.logger.Debug("Indexed document",
		"path", path,
		"revision", doc.Revision())

	return doc, true, nil
}

// Remove drops a file from the snapshot.
func (ix *Indexer) Remove(path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.snapshot.Remove(path)
	delete(ix.hashes, path)
}

// Document returns the indexed document for a path, nil when unknown.
func (ix *Indexer) Document(path string) *cplusplus.Document {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.snapshot.Document(path)
}

// DocumentCount returns the number of indexed documents.
func (ix *Indexer) DocumentCount() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.snapshot.Len()
}

// FileNames returns the indexed file names in unspecified order.
func (ix *Indexer) FileNames() []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.snapshot.FileNames()
}

// Hash returns the recorded content hash for a path.
func (ix *Indexer) Hash(path string) (string, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	hash, ok := ix.hashes[path]
	return hash, ok
}

// Context builds a LookupContext rooted at the given file. The context binds
// lazily through the shared Control, so it must not be used while other
// goroutines index; concurrent callers go through Query instead.
func (ix *Indexer) Context(path string) (*cplusplus.LookupContext, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	lc, err := ix.lookupContext(path)
	if err != nil {
		return nil, err
	}
	return lc, nil
}

// Query builds a LookupContext rooted at the given file and runs fn with it
// while holding the indexer's mutex. Bindings build lazily and intern names
// through the shared Control on first touch, so a query must never interleave
// with IndexFile; routing both through the same mutex guarantees that.
func (ix *Indexer) Query(path string, fn func(lc *cplusplus.LookupContext, control *cplusplus.Control) error) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	lc, err := ix.lookupContext(path)
	if err != nil {
		return err
	}
	return fn(lc, ix.control)
}

func (ix *Indexer) lookupContext(path string) (*cplusplus.LookupContext, error) {
	doc := ix.snapshot.Document(path)
	if doc == nil {
		return nil, fmt.Errorf("document not indexed: %s", path)
	}

	lc := cplusplus.NewLookupContext(doc, ix.snapshot, ix.control)
	lc.SetExpandTemplates(ix.expand)
	return lc, nil
}
