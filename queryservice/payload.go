// Package queryservice exposes the index over NATS request/reply: completion
// proposals, symbol resolution and index status.
package queryservice

import "fmt"

// CompleteRequest asks for the names visible in a scope of an indexed file.
// Scope is the qualification path from the global namespace, e.g.
// ["audio", "Mixer"]; empty means the global namespace itself.
type CompleteRequest struct {
	RequestID string   `json:"request_id,omitempty"`
	File      string   `json:"file"`
	Scope     []string `json:"scope,omitempty"`
}

// Validate checks the request fields.
func (r *CompleteRequest) Validate() error {
	if r.File == "" {
		return fmt.Errorf("file is required")
	}
	for _, component := range r.Scope {
		if component == "" {
			return fmt.Errorf("scope components must not be empty")
		}
	}
	return nil
}

// CompleteResponse carries the visible names, sorted and deduplicated.
type CompleteResponse struct {
	RequestID string   `json:"request_id"`
	Names     []string `json:"names"`
	Error     string   `json:"error,omitempty"`
}

// ResolveRequest asks where a name declared in an indexed file points to.
// Name may be qualified with "::", including a leading "::" for explicit
// global qualification. Lookup starts in the scope named by Scope.
type ResolveRequest struct {
	RequestID string   `json:"request_id,omitempty"`
	File      string   `json:"file"`
	Name      string   `json:"name"`
	Scope     []string `json:"scope,omitempty"`
}

// Validate checks the request fields.
func (r *ResolveRequest) Validate() error {
	if r.File == "" {
		return fmt.Errorf("file is required")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// SymbolInfo describes one resolved declaration.
type SymbolInfo struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// ResolveResponse carries the candidate declarations in lookup order.
type ResolveResponse struct {
	RequestID string       `json:"request_id"`
	Symbols   []SymbolInfo `json:"symbols"`
	Error     string       `json:"error,omitempty"`
}

// StatusRequest asks for the state of the index.
type StatusRequest struct {
	RequestID string `json:"request_id,omitempty"`
}

// StatusResponse reports the indexed documents.
type StatusResponse struct {
	RequestID string   `json:"request_id"`
	Documents int      `json:"documents"`
	Files     []string `json:"files,omitempty"`
}
