package cplusplus

import "github.com/google/uuid"

// Document is one parsed translation unit: a file name, its global namespace
// symbol table and the files it includes, in include order.
type Document struct {
	fileName        string
	revision        string
	globalNamespace *Namespace
	includes        []string
	diagnostics     []Diagnostic
}

// Diagnostic is a parse note attached to a document. The engine itself emits
// none; the frontend records what the parser saw.
type Diagnostic struct {
	FileName string
	Line     int
	Column   int
	Message  string
}

// NewDocument creates an empty document for a file.
func NewDocument(fileName string) *Document {
	return &Document{
		fileName:        fileName,
		revision:        uuid.NewString(),
		globalNamespace: NewNamespace(nil),
	}
}

// FileName returns the document's file name.
func (d *Document) FileName() string { return d.fileName }

// Revision identifies this parse of the file; re-parsing produces a new
// revision.
func (d *Document) Revision() string { return d.revision }

// GlobalNamespace returns the document's root scope.
func (d *Document) GlobalNamespace() *Namespace { return d.globalNamespace }

// AddInclude appends an included file name. Order is the textual include
// order.
func (d *Document) AddInclude(fileName string) {
	d.includes = append(d.includes, fileName)
}

// Includes returns the included file names in include order.
func (d *Document) Includes() []string { return d.includes }

// AddDiagnostic attaches a parse note to the document.
func (d *Document) AddDiagnostic(diag Diagnostic) {
	d.diagnostics = append(d.diagnostics, diag)
}

// Diagnostics returns the parse notes recorded by the frontend.
func (d *Document) Diagnostics() []Diagnostic { return d.diagnostics }

// Snapshot is the set of known documents, keyed by file name. The zero value
// is not usable; call NewSnapshot.
type Snapshot struct {
	documents map[string]*Document
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{documents: make(map[string]*Document)}
}

// Insert adds or replaces a document.
func (s *Snapshot) Insert(doc *Document) {
	if doc == nil {
		return
	}
	s.documents[doc.FileName()] = doc
}

// Remove drops the document for a file name.
func (s *Snapshot) Remove(fileName string) {
	delete(s.documents, fileName)
}

// Document returns the document for a file name, nil when unknown.
func (s *Snapshot) Document(fileName string) *Document {
	if s == nil {
		return nil
	}
	return s.documents[fileName]
}

// Len returns the number of documents.
func (s *Snapshot) Len() int { return len(s.documents) }

// FileNames returns the known file names in unspecified order.
func (s *Snapshot) FileNames() []string {
	names := make([]string, 0, len(s.documents))
	for name := range s.documents {
		names = append(names, name)
	}
	return names
}
