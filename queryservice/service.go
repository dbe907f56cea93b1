package queryservice

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/c360studio/cppmodel/cplusplus"
	"github.com/c360studio/cppmodel/frontend"
)

// Config configures the query service.
type Config struct {
	// SubjectPrefix is prepended to the operation subjects, e.g. "cppmodel"
	// serves cppmodel.complete, cppmodel.resolve and cppmodel.status.
	SubjectPrefix string

	// QueueGroup is the NATS queue group name; instances sharing it split
	// the request load.
	QueueGroup string

	// Logger for logging events.
	Logger *slog.Logger

	// Metrics records request counters; nil disables collection.
	Metrics *Metrics
}

// Service answers index queries over NATS request/reply.
//
// Queries share the indexer's Control and bindings, which are not safe for
// concurrent mutation, and the watcher re-indexes on the same structures.
// Every query therefore runs through Indexer.Query, which holds the
// indexer's mutex for the duration.
type Service struct {
	nc      *nats.Conn
	indexer *frontend.Indexer
	config  Config
	logger  *slog.Logger

	subs []*nats.Subscription
}

// NewService creates a query service over the given connection and indexer.
func NewService(nc *nats.Conn, indexer *frontend.Indexer, config Config) *Service {
	if config.QueueGroup == "" {
		config.QueueGroup = "cppmodel"
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		nc:      nc,
		indexer: indexer,
		config:  config,
		logger:  logger,
	}
}

// Start subscribes to the operation subjects.
func (s *Service) Start() error {
	type operation struct {
		name    string
		handler nats.MsgHandler
	}

	operations := []operation{
		{"complete", s.onComplete},
		{"resolve", s.onResolve},
		{"status", s.onStatus},
	}

	for _, op := range operations {
		subject := fmt.Sprintf("%s.%s", s.config.SubjectPrefix, op.name)
		sub, err := s.nc.QueueSubscribe(subject, s.config.QueueGroup, op.handler)
		if err != nil {
			s.Stop()
			return fmt.Errorf("subscribe to %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
		s.logger.Debug("Subscribed", "subject", subject, "queue", s.config.QueueGroup)
	}

	s.logger.Info("Query service started",
		"prefix", s.config.SubjectPrefix,
		"operations", len(operations))
	return nil
}

// Stop unsubscribes from all subjects.
func (s *Service) Stop() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn("Unsubscribe failed", "error", err)
		}
	}
	s.subs = nil
}

func (s *Service) onComplete(msg *nats.Msg) {
	started := time.Now()

	var req CompleteRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.respond(msg, CompleteResponse{Error: "malformed request: " + err.Error()})
		s.config.Metrics.Observe("complete", time.Since(started), true)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	resp := s.HandleComplete(req)
	s.respond(msg, resp)
	s.config.Metrics.Observe("complete", time.Since(started), resp.Error != "")
}

func (s *Service) onResolve(msg *nats.Msg) {
	started := time.Now()

	var req ResolveRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.respond(msg, ResolveResponse{Error: "malformed request: " + err.Error()})
		s.config.Metrics.Observe("resolve", time.Since(started), true)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	resp := s.HandleResolve(req)
	s.respond(msg, resp)
	s.config.Metrics.Observe("resolve", time.Since(started), resp.Error != "")
}

func (s *Service) onStatus(msg *nats.Msg) {
	started := time.Now()

	var req StatusRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		req = StatusRequest{}
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	s.respond(msg, s.HandleStatus(req))
	s.config.Metrics.Observe("status", time.Since(started), false)
}

func (s *Service) respond(msg *nats.Msg, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		s.logger.Warn("Failed to respond", "subject", msg.Subject, "error", err)
	}
}

// HandleComplete computes the names visible in the requested scope.
func (s *Service) HandleComplete(req CompleteRequest) CompleteResponse {
	resp := CompleteResponse{RequestID: req.RequestID}

	if err := req.Validate(); err != nil {
		resp.Error = err.Error()
		return resp
	}

	err := s.indexer.Query(req.File, func(lc *cplusplus.LookupContext, control *cplusplus.Control) error {
		binding, err := scopeBinding(lc, control, req.Scope)
		if err != nil {
			return err
		}
		resp.Names = visibleNames(binding)
		return nil
	})
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// HandleResolve looks a spelled name up from the requested scope.
func (s *Service) HandleResolve(req ResolveRequest) ResolveResponse {
	resp := ResolveResponse{RequestID: req.RequestID}

	if err := req.Validate(); err != nil {
		resp.Error = err.Error()
		return resp
	}

	err := s.indexer.Query(req.File, func(lc *cplusplus.LookupContext, control *cplusplus.Control) error {
		binding, err := scopeBinding(lc, control, req.Scope)
		if err != nil {
			return err
		}

		name, err := parseName(control, req.Name)
		if err != nil {
			return err
		}

		o := &cplusplus.Overview{}
		for _, item := range binding.Lookup(name) {
			decl := item.Declaration()
			if decl == nil {
				continue
			}
			resp.Symbols = append(resp.Symbols, SymbolInfo{
				Name:   o.Name(decl.Name()),
				Type:   o.Type(item.Type()),
				File:   decl.FileName(),
				Line:   decl.Line(),
				Column: decl.Column(),
			})
		}
		return nil
	})
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// HandleStatus reports the indexed documents.
func (s *Service) HandleStatus(req StatusRequest) StatusResponse {
	files := s.indexer.FileNames()
	sort.Strings(files)
	return StatusResponse{
		RequestID: req.RequestID,
		Documents: s.indexer.DocumentCount(),
		Files:     files,
	}
}

// scopeBinding walks the qualification path down from the file's global
// namespace binding.
func scopeBinding(lc *cplusplus.LookupContext, control *cplusplus.Control, scope []string) (*cplusplus.ClassOrNamespace, error) {
	binding := lc.GlobalNamespace()
	for _, component := range scope {
		next := binding.FindType(control.NameID(control.Identifier(component)))
		if next == nil {
			return nil, fmt.Errorf("scope not found: %s", strings.Join(scope, "::"))
		}
		binding = next
	}
	return binding, nil
}

// parseName interns a spelled name such as "x", "A::B::x" or "::x".
// Template-ids are not accepted here.
func parseName(control *cplusplus.Control, spelled string) (cplusplus.Name, error) {
	global := strings.HasPrefix(spelled, "::")
	spelled = strings.TrimPrefix(spelled, "::")

	components := strings.Split(spelled, "::")
	var name cplusplus.Name
	for i, component := range components {
		component = strings.TrimSpace(component)
		if component == "" || strings.ContainsAny(component, "<>") {
			return nil, fmt.Errorf("cannot parse name %q", spelled)
		}
		part := cplusplus.Name(control.NameID(control.Identifier(component)))
		switch {
		case i == 0 && global:
			name = control.QualifiedNameID(nil, part)
		case i == 0:
			name = part
		default:
			name = control.QualifiedNameID(name, part)
		}
	}
	if name == nil {
		return nil, fmt.Errorf("cannot parse name %q", spelled)
	}
	return name, nil
}

// visibleNames collects the names reachable in a binding: the members of its
// contributing symbols, unscoped enumerators, and everything brought in by
// using-directives and inline namespaces.
func visibleNames(binding *cplusplus.ClassOrNamespace) []string {
	seen := make(map[string]bool)
	collectNames(binding, seen, make(map[*cplusplus.ClassOrNamespace]bool))

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectNames(binding *cplusplus.ClassOrNamespace, seen map[string]bool, processed map[*cplusplus.ClassOrNamespace]bool) {
	if binding == nil || processed[binding] {
		return
	}
	processed[binding] = true

	o := &cplusplus.Overview{}
	for _, symbol := range binding.Symbols() {
		scope, ok := symbol.(cplusplus.Scope)
		if !ok {
			continue
		}
		for _, member := range scope.Members() {
			if member.IsFriend() {
				continue
			}
			switch member.(type) {
			case *cplusplus.UsingNamespaceDirective, *cplusplus.Block, *cplusplus.Argument:
				continue
			}
			if spelled := o.Name(member.Name()); spelled != "" {
				seen[spelled] = true
			}
		}
	}

	for _, e := range binding.Enums() {
		for _, enumerator := range e.Members() {
			if spelled := o.Name(enumerator.Name()); spelled != "" {
				seen[spelled] = true
			}
		}
	}

	for _, using := range binding.Usings() {
		collectNames(using, seen, processed)
	}
}
