package queryservice

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/cppmodel/cplusplus"
	"github.com/c360studio/cppmodel/frontend"
)

// pathParser is a toy parser for tests: every non-empty line of a .mock file
// is a slash-separated path, e.g. "audio/Mixer" declares class Mixer inside
// namespace audio. Reopened namespaces merge through the binding graph.
type pathParser struct {
	control *cplusplus.Control
}

func (p *pathParser) ParseFile(ctx context.Context, path string) (*cplusplus.Document, error) {
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

		components := strings.Split(line, "/")
		var scope cplusplus.Scope = doc.GlobalNamespace()
		for _, component := range components[:len(components)-1] {
			ns := cplusplus.NewNamespace(p.control.NameID(p.control.Identifier(component)))
			ns.SetSourceLocation(path, i+1, 1)
			scope.AddMember(ns)
			scope = ns
		}

		klass := cplusplus.NewClass(p.control.NameID(p.control.Identifier(components[len(components)-1])))
		klass.SetSourceLocation(path, i+1, 1)
		scope.AddMember(klass)
	}
	return doc, nil
}

func newTestService(t *testing.T, content string) (*Service, string) {
	t.Helper()

	registry := frontend.NewParserRegistry()
	registry.Register("mock", []string{".mock"},
		func(control *cplusplus.Control, includeDirs []string) frontend.FileParser {
			return &pathParser{control: control}
		})

	indexer := frontend.NewIndexer(frontend.IndexerConfig{
		Registry:   registry,
		Extensions: []string{".mock"},
	})

	path := filepath.Join(t.TempDir(), "model.mock")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := indexer.IndexFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	return NewService(nil, indexer, Config{SubjectPrefix: "test"}), path
}

func TestCompleteRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CompleteRequest
		wantErr bool
	}{
		{"valid", CompleteRequest{File: "a.cpp"}, false},
		{"valid with scope", CompleteRequest{File: "a.cpp", Scope: []string{"N"}}, false},
		{"missing file", CompleteRequest{}, true},
		{"empty scope component", CompleteRequest{File: "a.cpp", Scope: []string{""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveRequestValidate(t *testing.T) {
	if err := (&ResolveRequest{File: "a.cpp", Name: "x"}).Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
	if err := (&ResolveRequest{Name: "x"}).Validate(); err == nil {
		t.Error("missing file accepted")
	}
	if err := (&ResolveRequest{File: "a.cpp"}).Validate(); err == nil {
		t.Error("missing name accepted")
	}
}

func TestHandleCompleteGlobalScope(t *testing.T) {
	svc, path := newTestService(t, "Widget\naudio/Mixer\n")

	resp := svc.HandleComplete(CompleteRequest{RequestID: "r1", File: path})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.RequestID != "r1" {
		t.Errorf("request id not echoed: %s", resp.RequestID)
	}

	want := []string{"Widget", "audio"}
	if len(resp.Names) != len(want) {
		t.Fatalf("got %v, want %v", resp.Names, want)
	}
	for i := range want {
		if resp.Names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, resp.Names[i], want[i])
		}
	}
}

func TestHandleCompleteNestedScope(t *testing.T) {
	svc, path := newTestService(t, "audio/Mixer\naudio/Filter\n")

	resp := svc.HandleComplete(CompleteRequest{File: path, Scope: []string{"audio"}})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	// Both namespace reopenings contribute to one binding.
	want := []string{"Filter", "Mixer"}
	if len(resp.Names) != len(want) || resp.Names[0] != want[0] || resp.Names[1] != want[1] {
		t.Errorf("got %v, want %v", resp.Names, want)
	}
}

func TestHandleCompleteUnknownScope(t *testing.T) {
	svc, path := newTestService(t, "Widget\n")

	if resp := svc.HandleComplete(CompleteRequest{File: path, Scope: []string{"nope"}}); resp.Error == "" {
		t.Error("unknown scope should produce an error")
	}
	if resp := svc.HandleComplete(CompleteRequest{File: "/no/such/file"}); resp.Error == "" {
		t.Error("unindexed file should produce an error")
	}
}

func TestHandleResolve(t *testing.T) {
	svc, path := newTestService(t, "Widget\naudio/Mixer\n")

	resp := svc.HandleResolve(ResolveRequest{File: path, Name: "audio::Mixer"})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if len(resp.Symbols) != 1 {
		t.Fatalf("got %d symbols, want 1", len(resp.Symbols))
	}
	sym := resp.Symbols[0]
	if sym.Name != "Mixer" {
		t.Errorf("name: got %s", sym.Name)
	}
	if sym.File != path || sym.Line != 2 {
		t.Errorf("location: got %s:%d, want %s:2", sym.File, sym.Line, path)
	}
}

func TestHandleResolveFromScope(t *testing.T) {
	svc, path := newTestService(t, "Widget\naudio/Mixer\n")

	// Unqualified lookup inside audio walks up to the global namespace.
	resp := svc.HandleResolve(ResolveRequest{File: path, Name: "Widget", Scope: []string{"audio"}})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if len(resp.Symbols) != 1 || resp.Symbols[0].Name != "Widget" {
		t.Errorf("got %v", resp.Symbols)
	}
}

func TestHandleResolveRejectsTemplateIDs(t *testing.T) {
	svc, path := newTestService(t, "Widget\n")

	if resp := svc.HandleResolve(ResolveRequest{File: path, Name: "Box<int>"}); resp.Error == "" {
		t.Error("template-ids are not parseable and must error")
	}
}

// Queries bind lazily through the indexer's shared Control, and the watcher
// re-indexes on the same structures. Both must serialize on the indexer's
// mutex; run with -race.
func TestQueriesSerializeWithReindexing(t *testing.T) {
	svc, path := newTestService(t, "Widget\naudio/Mixer\n")

	other := filepath.Join(filepath.Dir(path), "other.mock")
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			// Alternate the content so every pass changes the hash and
			// actually re-parses into the shared snapshot.
			content := "video/Encoder\n"
			if i%2 == 1 {
				content = "video/Decoder\n"
			}
			if err := os.WriteFile(other, []byte(content), 0644); err != nil {
				t.Error(err)
				return
			}
			if _, _, err := svc.indexer.IndexFile(context.Background(), other); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		resp := svc.HandleResolve(ResolveRequest{File: path, Name: "audio::Mixer"})
		if resp.Error != "" {
			t.Fatalf("unexpected error: %s", resp.Error)
		}
		if len(resp.Symbols) != 1 {
			t.Fatalf("got %d symbols, want 1", len(resp.Symbols))
		}
	}

	<-done
}

func TestHandleStatus(t *testing.T) {
	svc, path := newTestService(t, "Widget\n")

	resp := svc.HandleStatus(StatusRequest{RequestID: "s1"})
	if resp.Documents != 1 {
		t.Errorf("documents: got %d, want 1", resp.Documents)
	}
	if len(resp.Files) != 1 || resp.Files[0] != path {
		t.Errorf("files: got %v", resp.Files)
	}
	if resp.RequestID != "s1" {
		t.Errorf("request id not echoed: %s", resp.RequestID)
	}
}
