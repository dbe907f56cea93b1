package frontend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/cppmodel/cplusplus"
)

// lineParser is a toy parser for tests: every non-empty line of a .mock file
// declares a class with that name in the global namespace.
type lineParser struct {
	control *cplusplus.Control
}

func (p *lineParser) ParseFile(ctx context.Context, path string) (*cplusplus.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := cplusplus.NewDocument(path)
	for i, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		klass := cplusplus.NewClass(p.control.NameID(p.control.Identifier(line)))
		klass.SetSourceLocation(path, i+1, 1)
		doc.GlobalNamespace().AddMember(klass)
	}
	return doc, nil
}

func newTestIndexer(t *testing.T) *Indexer {
	t.Helper()

	registry := NewParserRegistry()
	registry.Register("mock", []string{".mock"},
		func(control *cplusplus.Control, includeDirs []string) FileParser {
			return &lineParser{control: control}
		})

	return NewIndexer(IndexerConfig{
		Registry:   registry,
		Extensions: []string{".mock"},
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexFileAndLookup(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mock")
	writeFile(t, path, "Widget\nGadget\n")

	doc, changed, err := ix.IndexFile(context.Background(), path)
	if err != nil {
		t.Fatalf("IndexFile failed: %v", err)
	}
	if !changed {
		t.Error("first index of a file must report a change")
	}
	if doc.GlobalNamespace().MemberCount() != 2 {
		t.Fatalf("got %d members, want 2", doc.GlobalNamespace().MemberCount())
	}

	lc, err := ix.Context(path)
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}
	binding := lc.GlobalNamespace().Lookup(ix.Control().NameID(ix.Control().Identifier("Widget")))
	if len(binding) == 0 {
		t.Error("indexed class not found through the lookup context")
	}
}

func TestIndexFileUnchangedContentIsSkipped(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mock")
	writeFile(t, path, "Widget\n")

	first, _, err := ix.IndexFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	second, changed, err := ix.IndexFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("unchanged content must not report a change")
	}
	if second.Revision() != first.Revision() {
		t.Error("unchanged content must keep the cached document")
	}

	writeFile(t, path, "Widget\nGadget\n")
	third, changed, err := ix.IndexFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("modified content must report a change")
	}
	if third.Revision() == first.Revision() {
		t.Error("a re-parse must produce a new revision")
	}
}

func TestIndexerRemove(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mock")
	writeFile(t, path, "Widget\n")

	if _, _, err := ix.IndexFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if ix.DocumentCount() != 1 {
		t.Fatalf("got %d documents, want 1", ix.DocumentCount())
	}

	ix.Remove(path)
	if ix.DocumentCount() != 0 {
		t.Error("document still present after Remove")
	}
	if _, ok := ix.Hash(path); ok {
		t.Error("hash still recorded after Remove")
	}
	if _, err := ix.Context(path); err == nil {
		t.Error("Context must fail for a removed document")
	}
}

func TestIndexRoots(t *testing.T) {
	ix := newTestIndexer(t)
	dir := t.TempDir()
	sub := filepath.Join(dir, "src")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	hidden := filepath.Join(dir, ".cache")
	if err := os.Mkdir(hidden, 0755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(dir, "a.mock"), "A\n")
	writeFile(t, filepath.Join(sub, "b.mock"), "B\n")
	writeFile(t, filepath.Join(sub, "ignored.txt"), "not a source file")
	writeFile(t, filepath.Join(hidden, "c.mock"), "C\n")

	count, err := ix.IndexRoots(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("IndexRoots failed: %v", err)
	}
	if count != 2 {
		t.Errorf("indexed %d documents, want 2 (hidden dirs and foreign files skipped)", count)
	}
	if ix.DocumentCount() != 2 {
		t.Errorf("snapshot holds %d documents, want 2", ix.DocumentCount())
	}
}

func TestIsTargetFile(t *testing.T) {
	ix := newTestIndexer(t)

	if !ix.IsTargetFile("/tmp/x.mock") {
		t.Error(".mock should be a target")
	}
	if !ix.IsTargetFile("/tmp/x.MOCK") {
		t.Error("extension matching should be case-insensitive")
	}
	if ix.IsTargetFile("/tmp/x.cpp") {
		t.Error(".cpp is not registered with this indexer")
	}
}
