// Package lsp implements a diagnostics-only language server over the
// .rvir textual frontend: it parses and lowers a document on every
// open/change and republishes whatever malformed-input or
// unsupported-construct diagnostics (§7) result. It does not run the
// optimization pipeline — there is nothing to optimize until the
// editor has a function worth constructing, and re-running passes on
// every keystroke would make the server feel laggy for no benefit.
package lsp

import (
	stderrors "errors"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/segmentio/ksuid"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"rvsdgc/internal/errors"
	"rvsdgc/internal/frontend"
	"rvsdgc/internal/frontend/grammar"
	"rvsdgc/internal/stats"
)

// Handler implements the glsp protocol.Handler callbacks for .rvir
// documents.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	stats   *stats.Collector
}

// NewHandler creates a handler whose statistics (one record per
// document diagnosed, stamped with a fresh per-request ksuid trace ID)
// are appended to collector.
func NewHandler(collector *stats.Collector) *Handler {
	return &Handler{content: make(map[string]string), stats: collector}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("rvsdgc-lsp: initialize")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("rvsdgc-lsp: initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("rvsdgc-lsp: shutdown")
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.diagnose(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	full, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	return h.diagnose(ctx, params.TextDocument.URI, full.Text)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	return nil
}

// diagnose parses and lowers text, publishing either an empty
// diagnostics list (clean) or the one compiler error found. Only the
// first error is reported per document, matching the pipeline's own
// stop-on-first-error contract (§7 errors are not accumulated across
// passes).
func (h *Handler) diagnose(ctx *glsp.Context, uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	traceID := ksuid.New().String()
	collector := h.stats.WithTraceID(traceID)

	var diagnostics []protocol.Diagnostic
	collector.Time("lsp", "diagnose", func() {
		prog, err := grammar.ParseString(path, text)
		if err == nil {
			_, err = frontend.BuildProgram(prog)
		}
		if err != nil {
			var ce *errors.CompilerError
			if stderrors.As(err, &ce) {
				diagnostics = []protocol.Diagnostic{diagnosticFromCompilerError(ce)}
			} else {
				diagnostics = []protocol.Diagnostic{{
					Range:    protocol.Range{},
					Severity: ptrSeverity(protocol.DiagnosticSeverityError),
					Source:   ptrString("rvsdgc"),
					Message:  err.Error(),
				}}
			}
		}
	})

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

func uriToPath(raw protocol.DocumentUri) (string, error) {
	u, err := url.Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", raw, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
