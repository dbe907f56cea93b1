package frontend

import (
	"context"
	"testing"

	"github.com/c360studio/cppmodel/cplusplus"
)

type stubParser struct {
	includeDirs []string
}

func (p *stubParser) ParseFile(ctx context.Context, path string) (*cplusplus.Document, error) {
	return cplusplus.NewDocument(path), nil
}

func stubFactory(control *cplusplus.Control, includeDirs []string) FileParser {
	return &stubParser{includeDirs: includeDirs}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewParserRegistry()
	r.Register("stub", []string{".aa", ".bb"}, stubFactory)

	if !r.HasParser("stub") {
		t.Error("parser should be registered")
	}
	if r.HasParser("other") {
		t.Error("unregistered parser reported as present")
	}

	name, ok := r.GetParserName(".aa")
	if !ok || name != "stub" {
		t.Errorf("GetParserName(.aa) = %q, %v", name, ok)
	}
	if _, ok := r.GetParserName(".zz"); ok {
		t.Error("unknown extension should not resolve")
	}
}

func TestRegistryFirstRegistrationWins(t *testing.T) {
	r := NewParserRegistry()
	r.Register("first", []string{".x"}, stubFactory)
	r.Register("second", []string{".x", ".y"}, stubFactory)

	if name, _ := r.GetParserName(".x"); name != "first" {
		t.Errorf("extension conflict: got %q, want first", name)
	}
	if name, _ := r.GetParserName(".y"); name != "second" {
		t.Errorf("unclaimed extension: got %q, want second", name)
	}
}

func TestRegistryCreateParser(t *testing.T) {
	r := NewParserRegistry()
	r.Register("stub", []string{".aa"}, stubFactory)

	control := cplusplus.NewControl()

	parser, err := r.CreateParserForExtension(".aa", control, []string{"/usr/include"})
	if err != nil {
		t.Fatalf("CreateParserForExtension failed: %v", err)
	}
	sp, ok := parser.(*stubParser)
	if !ok {
		t.Fatalf("unexpected parser type %T", parser)
	}
	if len(sp.includeDirs) != 1 || sp.includeDirs[0] != "/usr/include" {
		t.Errorf("include dirs not passed through: %v", sp.includeDirs)
	}

	if _, err := r.CreateParserForExtension(".zz", control, nil); err == nil {
		t.Error("expected an error for an unregistered extension")
	}
	if _, err := r.CreateParser("other", control, nil); err == nil {
		t.Error("expected an error for an unregistered parser name")
	}
}

func TestRegistryListParsers(t *testing.T) {
	r := NewParserRegistry()
	r.Register("a", []string{".a"}, stubFactory)
	r.Register("b", []string{".b"}, stubFactory)

	if got := len(r.ListParsers()); got != 2 {
		t.Errorf("ListParsers: got %d entries, want 2", got)
	}
	if got := len(r.ListExtensions()); got != 2 {
		t.Errorf("ListExtensions: got %d entries, want 2", got)
	}
}
