// Package server exposes copy and paste to a host plugin over
// jsonrpc2.  The host sends documents in their YAML form and gets a
// report (and, on paste, the mutated document) back.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	"go.lsp.dev/jsonrpc2"

	"github.com/signadot/graft/apply"
	"github.com/signadot/graft/ir"
	"github.com/signadot/graft/report"
	"github.com/signadot/graft/session"
	"github.com/signadot/graft/store"
)

const (
	MethodCopy     = "graft/copy"
	MethodPaste    = "graft/paste"
	MethodClear    = "graft/clear"
	MethodStatus   = "graft/status"
	MethodProgress = "graft/progress"
)

// Spec holds the runtime specification for the server.
type Spec struct {
	Addr  string
	Store store.Store
	Log   *slog.Logger
}

type Server struct {
	spec    *Spec
	session *session.Session
}

func New(spec *Spec) *Server {
	if spec.Log == nil {
		spec.Log = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &Server{
		spec:    spec,
		session: session.New(spec.Store, session.WithLogger(spec.Log)),
	}
}

type CopyParams struct {
	// Document is the YAML form of the host document.
	Document  string `json:"document"`
	Selection string `json:"selection"`
}

type CopyResult struct {
	ID        string    `json:"id"`
	Document  string    `json:"document,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Leaves    int       `json:"leaves"`
	Caveat    string    `json:"caveat,omitempty"`
}

type PasteParams struct {
	Document  string `json:"document"`
	Selection string `json:"selection"`
	Filter    string `json:"filter,omitempty"`
	DryRun    bool   `json:"dryRun,omitempty"`
}

type PasteResult struct {
	Report *report.Report `json:"report,omitempty"`
	// Patch is set on dry runs.
	Patch json.RawMessage `json:"patch,omitempty"`
	// Document is the mutated document's YAML form.
	Document string `json:"document,omitempty"`
}

type StatusResult struct {
	HasPayload bool      `json:"hasPayload"`
	ID         string    `json:"id,omitempty"`
	Document   string    `json:"document,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	Leaves     int       `json:"leaves,omitempty"`
}

type ProgressParams struct {
	Percent int `json:"percent"`
}

// Handler dispatches one connection's requests.  Progress during a
// paste is pushed back over the same connection, fire-and-forget.
func (s *Server) Handler(conn jsonrpc2.Conn) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		s.spec.Log.Debug("request", "method", req.Method())
		switch req.Method() {
		case MethodCopy:
			params := &CopyParams{}
			if err := json.Unmarshal(req.Params(), params); err != nil {
				return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
			}
			res, err := s.copy(params)
			return reply(ctx, res, err)
		case MethodPaste:
			params := &PasteParams{}
			if err := json.Unmarshal(req.Params(), params); err != nil {
				return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
			}
			res, err := s.paste(ctx, conn, params)
			return reply(ctx, res, err)
		case MethodClear:
			return reply(ctx, struct{}{}, s.session.Clear())
		case MethodStatus:
			res, err := s.status()
			return reply(ctx, res, err)
		default:
			return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
		}
	}
}

func (s *Server) copy(params *CopyParams) (*CopyResult, error) {
	doc, err := ir.Parse([]byte(params.Document))
	if err != nil {
		return nil, err
	}
	res, err := s.session.Copy(doc, session.PathSelector(params.Selection))
	if err != nil {
		return nil, err
	}
	s.spec.Log.Info("copied payload",
		"id", res.Payload.ID, "document", res.Payload.Document,
		"leaves", res.Payload.Stats.Leaves)
	return &CopyResult{
		ID:        res.Payload.ID,
		Document:  res.Payload.Document,
		CreatedAt: res.Payload.CreatedAt,
		Leaves:    res.Payload.Stats.Leaves,
		Caveat:    res.Caveat,
	}, nil
}

func (s *Server) paste(ctx context.Context, conn jsonrpc2.Conn, params *PasteParams) (*PasteResult, error) {
	doc, err := ir.Parse([]byte(params.Document))
	if err != nil {
		return nil, err
	}
	cfg := &session.PasteConfig{
		Filter: params.Filter,
		DryRun: params.DryRun,
		Sink: apply.ProgressFunc(func(percent int) {
			conn.Notify(ctx, MethodProgress, &ProgressParams{Percent: percent})
		}),
	}
	res, err := s.session.Paste(ctx, doc, session.PathSelector(params.Selection), cfg)
	if err != nil {
		return nil, err
	}
	out := &PasteResult{Patch: res.Patch}
	if res.Report != nil {
		out.Report = res.Report
		s.spec.Log.Info("paste complete",
			"transferred", res.Report.Transferred, "skipped", res.Report.Skipped)
		buf := bytes.NewBuffer(nil)
		if err := ir.Dump(doc, buf); err != nil {
			return nil, err
		}
		out.Document = buf.String()
	}
	return out, nil
}

func (s *Server) status() (*StatusResult, error) {
	p, err := s.session.Last()
	if errors.Is(err, session.ErrNoPayload) {
		return &StatusResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &StatusResult{
		HasPayload: true,
		ID:         p.ID,
		Document:   p.Document,
		CreatedAt:  p.CreatedAt,
		Leaves:     p.Stats.Leaves,
	}, nil
}
