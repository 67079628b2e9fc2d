// Package session owns the last-copied payload and composes the
// index, match and apply stages into copy and paste operations.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/signadot/graft/apply"
	"github.com/signadot/graft/index"
	"github.com/signadot/graft/ir"
	"github.com/signadot/graft/match"
	"github.com/signadot/graft/patch"
	"github.com/signadot/graft/report"
	"github.com/signadot/graft/store"
)

// Session holds the single payload slot.  The in-memory copy is
// always kept for same-session reuse; the persistent store is
// best-effort on copy.  A Session may be shared by concurrent
// connections; the slot is last-writer-wins.
type Session struct {
	store store.Store
	key   string
	log   *slog.Logger

	mu  sync.Mutex
	mem *store.Payload
}

type Option func(*Session)

func WithKey(key string) Option {
	return func(s *Session) { s.key = key }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// New creates a session over st, which may be nil for in-memory-only
// retention.
func New(st store.Store, opts ...Option) *Session {
	s := &Session{store: st, key: store.DefaultKey}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

type CopyResult struct {
	Payload *store.Payload
	// Caveat notes a store failure the copy survived.
	Caveat string
}

// Copy indexes the selected subtree of doc and retains the snapshot
// as the current payload.  A store failure degrades to in-memory
// retention and is reported as a caveat, not an error.
func (s *Session) Copy(doc *ir.Node, sel Selector) (*CopyResult, error) {
	root, err := sel.Select(doc)
	if err != nil {
		return nil, err
	}
	snap := index.Build(root)
	if snap.Stats.Leaves == 0 {
		return nil, fmt.Errorf("%w: no text under %s", ErrWrongKind, root.IndexPath())
	}
	payload := store.FromSnapshot(snap, doc.Name)
	s.mu.Lock()
	s.mem = payload
	s.mu.Unlock()
	res := &CopyResult{Payload: payload}
	if s.store == nil {
		return res, nil
	}
	if err := s.store.Put(s.key, payload); err != nil {
		s.log.Warn("payload store unavailable, keeping copy in memory", "error", err)
		res.Caveat = fmt.Sprintf("payload store unavailable: %v", err)
	}
	return res, nil
}

type PasteConfig struct {
	// Filter excludes candidate pairs; see match.WithFilter.
	Filter string
	// DryRun emits a merge patch instead of mutating the target.
	DryRun bool

	Fonts  apply.FontLoader
	Sink   apply.ProgressSink
	Writer apply.Writer
}

type PasteResult struct {
	Report *report.Report
	// Patch is the merge-patch document, set on dry runs only.
	Patch []byte
}

// Paste matches the current payload against the selected subtree of
// doc and transfers content along the assignment.
func (s *Session) Paste(ctx context.Context, doc *ir.Node, sel Selector, cfg *PasteConfig) (*PasteResult, error) {
	if cfg == nil {
		cfg = &PasteConfig{}
	}
	payload, err := s.Last()
	if err != nil {
		return nil, err
	}
	root, err := sel.Select(doc)
	if err != nil {
		return nil, err
	}
	srcSnap := payload.Snapshot()
	dstSnap := index.Build(root)
	if dstSnap.Stats.Leaves == 0 {
		return nil, fmt.Errorf("%w: no text under %s", ErrWrongKind, root.IndexPath())
	}
	var mOpts []match.Option
	if cfg.Filter != "" {
		mOpts = append(mOpts, match.WithFilter(cfg.Filter))
	}
	matcher, err := match.New(mOpts...)
	if err != nil {
		return nil, err
	}
	asn, err := matcher.Assign(srcSnap, dstSnap)
	if err != nil {
		return nil, err
	}
	if cfg.DryRun {
		d, err := patch.Make(srcSnap, asn, dstSnap)
		if err != nil {
			return nil, err
		}
		return &PasteResult{Patch: d}, nil
	}
	var aOpts []apply.Option
	if cfg.Fonts != nil {
		aOpts = append(aOpts, apply.WithFontLoader(cfg.Fonts))
	}
	if cfg.Sink != nil {
		aOpts = append(aOpts, apply.WithProgress(cfg.Sink))
	}
	if cfg.Writer != nil {
		aOpts = append(aOpts, apply.WithWriter(cfg.Writer))
	}
	rep := apply.New(aOpts...).Apply(ctx, srcSnap, asn, dstSnap)
	return &PasteResult{Report: rep}, nil
}

// Last returns the current payload, preferring the in-memory slot
// over the store.
func (s *Session) Last() (*store.Payload, error) {
	s.mu.Lock()
	mem := s.mem
	s.mu.Unlock()
	if mem != nil {
		return mem, nil
	}
	if s.store == nil {
		return nil, ErrNoPayload
	}
	p, err := s.store.Get(s.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoPayload
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return p, nil
}

// Clear drops the payload from memory and from the store.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.mem = nil
	s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.store.Clear(s.key)
}
