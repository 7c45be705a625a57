// Command rvsdgc-lsp runs a diagnostics-only language server over
// .rvir documents, publishing the same malformed-input/unsupported-
// construct diagnostics (§7) the rvsdgc CLI would report, as the editor
// types.
package main

import (
	"io"
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"rvsdgc/internal/lsp"
	"rvsdgc/internal/stats"
)

const lsName = "rvsdgc"

var version = "0.0.1"

func main() {
	commonlog.Configure(1, nil)

	statsPath := os.Getenv("RVSDGC_LSP_STATS")
	var statsWriter io.Writer = io.Discard
	if statsPath != "" {
		f, err := os.Create(statsPath)
		if err != nil {
			log.Fatalf("rvsdgc-lsp: opening stats file: %v", err)
		}
		defer f.Close()
		statsWriter = f
	}

	h := lsp.NewHandler(stats.NewCollector(statsWriter))
	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, lsName, false)

	if addr := wsAddress(os.Args[1:]); addr != "" {
		log.Printf("rvsdgc-lsp: starting (websocket %s)", addr)
		if err := s.RunWebSocket(addr); err != nil {
			log.Println("rvsdgc-lsp:", err)
			os.Exit(1)
		}
		return
	}

	log.Println("rvsdgc-lsp: starting (stdio)")
	if err := s.RunStdio(); err != nil {
		log.Println("rvsdgc-lsp:", err)
		os.Exit(1)
	}
}

// wsAddress scans for "-ws <address>" and returns address, or "" to
// fall back to the default stdio transport.
func wsAddress(args []string) string {
	for i, a := range args {
		if a == "-ws" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
