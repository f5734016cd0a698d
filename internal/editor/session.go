// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package editor ties the draft ledger, graph builder and payload builder to
// the lookup and persistence collaborators for one editing session.
package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/tejzpr/xref-mcp/internal/draft"
	"github.com/tejzpr/xref-mcp/internal/graph"
	"github.com/tejzpr/xref-mcp/internal/legal"
	"github.com/tejzpr/xref-mcp/internal/logger"
	"github.com/tejzpr/xref-mcp/internal/xref"
)

// ErrEmptyDraft is returned when saving a ledger with no entries
var ErrEmptyDraft = errors.New("editor: draft is empty")

// MaxLookupLimit caps any lookup limit
const MaxLookupLimit = 200

// Lookup finds documents and provisions. Results are read-only.
type Lookup interface {
	FindDocuments(ctx context.Context, q legal.DocumentQuery) ([]legal.Document, error)
	FindProvisions(ctx context.Context, q legal.ProvisionQuery) ([]legal.Provision, error)
	GetProvision(ctx context.Context, provisionID string) (*legal.Provision, *legal.Document, error)
}

// Persister stores a batch of payloads atomically
type Persister interface {
	InsertCrossReferences(ctx context.Context, payloads []xref.Payload) (int, error)
}

// Renderer receives the rebuilt graph after every ledger mutation
type Renderer interface {
	Render(g *graph.Graph)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(g *graph.Graph)

// Render calls f
func (f RendererFunc) Render(g *graph.Graph) {
	f(g)
}

// Options configures a Session
type Options struct {
	Lookup    Lookup
	Persister Persister
	Resolver  xref.Resolver
	Renderer  Renderer // optional
	Identity  graph.IdentityMode
	// LookupLimit is used when a lookup asks for no limit
	LookupLimit int
}

// Selection is one picked provision together with its document
type Selection struct {
	Document  *legal.Document  `json:"document"`
	Provision *legal.Provision `json:"provision"`
}

// Kind classifies the selection
func (s Selection) Kind() legal.SourceKind {
	return legal.ClassifyProvision(s.Document, s.Provision)
}

// Session owns one draft ledger. Methods are safe for concurrent use; ledger
// mutations are serialized.
type Session struct {
	mu      sync.Mutex
	ledger  *draft.Ledger
	builder *graph.Builder
	opts    Options
}

// NewSession creates a session with an empty ledger
func NewSession(opts Options) *Session {
	if opts.LookupLimit <= 0 {
		opts.LookupLimit = 20
	}
	return &Session{
		ledger:  draft.NewLedger(),
		builder: graph.NewBuilder(opts.Identity),
		opts:    opts,
	}
}

func (s *Session) limit(requested int) int {
	if requested <= 0 {
		return s.opts.LookupLimit
	}
	if requested > MaxLookupLimit {
		return MaxLookupLimit
	}
	return requested
}

// FindDocuments searches documents. Lookup errors are returned unchanged.
func (s *Session) FindDocuments(ctx context.Context, kind *legal.SourceKind, text string, limit int) ([]legal.Document, error) {
	return s.opts.Lookup.FindDocuments(ctx, legal.DocumentQuery{Kind: kind, Text: text, Limit: s.limit(limit)})
}

// FindProvisions lists provisions of a document. Lookup errors are returned unchanged.
func (s *Session) FindProvisions(ctx context.Context, documentID, text string, limit int) ([]legal.Provision, error) {
	return s.opts.Lookup.FindProvisions(ctx, legal.ProvisionQuery{DocumentID: documentID, Text: text, Limit: s.limit(limit)})
}

// Select fetches a provision and its document by provision id
func (s *Session) Select(ctx context.Context, provisionID string) (Selection, error) {
	prov, doc, err := s.opts.Lookup.GetProvision(ctx, provisionID)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Document: doc, Provision: prov}, nil
}

// Suggest proposes a relation for a pick of from and to.
// The editor's "from" side is the provision being referred to, so the
// suggester is asked with the referring side (to) first.
func (s *Session) Suggest(from, to Selection) legal.RelationKind {
	return legal.Suggest(to.Kind(), from.Kind())
}

// Add appends a relation to the draft. A zero Kind is replaced by the suggestion.
func (s *Session) Add(from, to Selection, kind legal.RelationKind, note string) (string, error) {
	if kind == 0 {
		kind = s.Suggest(from, to)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ledger.Add(draft.Input{
		FromProvision: from.Provision,
		ToProvision:   to.Provision,
		FromDocument:  from.Document,
		ToDocument:    to.Document,
		Kind:          kind,
		Note:          note,
	})
	if err != nil {
		return "", err
	}
	s.render()
	return id, nil
}

// Remove drops a draft entry; unknown ids are ignored
func (s *Session) Remove(tempID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.ledger.Remove(tempID)
	if removed {
		s.render()
	}
	return removed
}

// Clear discards the draft
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.Clear()
	s.render()
}

// Drafts returns a snapshot of the ledger
func (s *Session) Drafts() []draft.Relation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.List()
}

// Len returns the number of draft entries
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Len()
}

// Graph builds the graph for the current draft
func (s *Session) Graph() *graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.Build(s.ledger.List())
}

// Save builds a payload for every draft entry and stores them as one batch.
// The ledger is cleared only when the batch was stored; any failure leaves it
// exactly as it was.
func (s *Session) Save(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.ledger.List()
	if len(snapshot) == 0 {
		return 0, ErrEmptyDraft
	}

	payloads, err := xref.BuildBatch(ctx, snapshot, s.opts.Resolver)
	if err != nil {
		return 0, err
	}

	inserted, err := s.opts.Persister.InsertCrossReferences(ctx, payloads)
	if err != nil {
		logger.Warn("Saving draft failed, keeping ledger", "entries", len(snapshot), "err", err)
		return 0, err
	}
	// The batch is committed once the persister returns, so a short count
	// still clears the ledger; keeping it would store the rows twice on retry.
	if inserted != len(payloads) {
		logger.Warn("Persister stored fewer rows than drafted", "stored", inserted, "entries", len(payloads))
	}

	s.ledger.Clear()
	s.render()
	logger.Info("Draft saved", "references", inserted)
	return inserted, nil
}

// render must be called with mu held
func (s *Session) render() {
	if s.opts.Renderer == nil {
		return
	}
	s.opts.Renderer.Render(s.builder.Build(s.ledger.List()))
}
