package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jward/rubydex"
)

var flagHostPID int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a stdio JSON-RPC 2.0 server for an editor to drive",
	Long: "Speaks a minimal Content-Length-framed JSON-RPC 2.0 transport over stdin/stdout, dispatching to the core engine. Transport is deliberately hand-rolled rather than pulled from a protocol library: the wire format itself is explicitly out of scope for the core engine, and the only framing this needs is the single Content-Length header line (and blank line) LSP actually uses.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&flagHostPID, "host-pid", 0, "host editor process ID to monitor for liveness (0 disables the check)")
}

// rpcRequest is a JSON-RPC 2.0 request or notification.
type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// rpcResponse is a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInternalError  = -32603
)

func runServe(cmd *cobra.Command, args []string) error {
	workspace, err := resolveWorkspace()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(workspace)
	if err != nil {
		return err
	}

	e, err := rubydex.New(workspace, cfg)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := e.Crawl(ctx); err != nil {
		return fmt.Errorf("initial crawl: %w", err)
	}

	go e.RunPeriodicCrawl(ctx)
	go func() {
		if err := e.Watch(ctx); err != nil {
			log.Printf("serve: filesystem watcher: %v", err)
		}
	}()
	if flagHostPID != 0 {
		go e.WatchHostProcess(ctx, flagHostPID)
	}

	return serveLoop(ctx, e, os.Stdin, os.Stdout)
}

// serveLoop reads Content-Length-framed JSON-RPC messages from r and writes
// responses to w until r is exhausted or a "shutdown" request is handled.
func serveLoop(ctx context.Context, e *rubydex.Engine, r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	for {
		req, err := readMessage(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("serve: read message: %w", err)
		}

		if req.ID == nil {
			handleNotification(ctx, e, req)
			continue
		}

		resp := dispatch(ctx, e, req)
		if err := writeMessage(w, resp); err != nil {
			return fmt.Errorf("serve: write message: %w", err)
		}
		if req.Method == "shutdown" {
			return nil
		}
	}
}

// readMessage reads one Content-Length-framed JSON-RPC message.
func readMessage(br *bufio.Reader) (rpcRequest, error) {
	var contentLength int
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return rpcRequest{}, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break // blank line ends the header block
		}
		if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return rpcRequest{}, fmt.Errorf("invalid Content-Length %q: %w", value, err)
			}
			contentLength = n
		}
	}
	if contentLength <= 0 {
		return rpcRequest{}, fmt.Errorf("missing or invalid Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(br, body); err != nil {
		return rpcRequest{}, err
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return rpcRequest{}, fmt.Errorf("parse error: %w", err)
	}
	return req, nil
}

// writeMessage writes a Content-Length-framed JSON-RPC message.
func writeMessage(w io.Writer, resp rpcResponse) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

func handleNotification(ctx context.Context, e *rubydex.Engine, req rpcRequest) {
	switch req.Method {
	case "textDocument/didOpen", "textDocument/didChange", "textDocument/didSave":
		var params struct {
			TextDocument struct {
				URI  string `json:"uri"`
				Text string `json:"text"`
			} `json:"textDocument"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			log.Printf("serve: %s: bad params: %v", req.Method, err)
			return
		}
		relPath := uriToRelPath(params.TextDocument.URI)
		if _, err := e.ReindexFile(ctx, relPath, []byte(params.TextDocument.Text)); err != nil {
			log.Printf("serve: %s: reindex %s: %v", req.Method, relPath, err)
		}
	case "textDocument/didClose":
		// occurrences for the file remain indexed; the next crawl reconciles
		// deletions, and didClose carries no content to reindex from.
	case "exit":
		os.Exit(0)
	}
}

func dispatch(ctx context.Context, e *rubydex.Engine, req rpcRequest) rpcResponse {
	result, err := handleRequest(ctx, e, req)
	if err != nil {
		code := codeInternalError
		if req.Method != "" {
			if _, known := knownMethods[req.Method]; !known {
				code = codeMethodNotFound
			}
		}
		return rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: code, Message: err.Error()}}
	}
	return rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result}
}

var knownMethods = map[string]bool{
	"initialize":                     true,
	"shutdown":                       true,
	"textDocument/definition":        true,
	"textDocument/documentHighlight": true,
	"textDocument/references":        true,
	"textDocument/rename":            true,
	"workspace/symbol":               true,
}

type position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type textDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position position `json:"position"`
}

func handleRequest(ctx context.Context, e *rubydex.Engine, req rpcRequest) (any, error) {
	switch req.Method {
	case "initialize":
		return initializeResult(), nil

	case "shutdown":
		return nil, nil

	case "textDocument/definition":
		p, err := parsePositionParams(req.Params)
		if err != nil {
			return nil, err
		}
		return e.Query().DefinitionAt(uriToRelPath(p.TextDocument.URI), p.Position.Line, p.Position.Character)

	case "textDocument/documentHighlight":
		p, err := parsePositionParams(req.Params)
		if err != nil {
			return nil, err
		}
		return e.Query().HighlightAt(uriToRelPath(p.TextDocument.URI), p.Position.Line, p.Position.Character)

	case "textDocument/references":
		p, err := parsePositionParams(req.Params)
		if err != nil {
			return nil, err
		}
		return e.Query().ReferencesAt(uriToRelPath(p.TextDocument.URI), p.Position.Line, p.Position.Character)

	case "textDocument/rename":
		var params struct {
			textDocumentPositionParams
			NewName string `json:"newName"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, fmt.Errorf("bad params: %w", err)
		}
		return e.Query().RenameAt(uriToRelPath(params.TextDocument.URI), params.Position.Line, params.Position.Character, params.NewName)

	case "workspace/symbol":
		var params struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, fmt.Errorf("bad params: %w", err)
		}
		return e.Query().WorkspaceSymbols(params.Query)

	default:
		return nil, fmt.Errorf("method not found: %s", req.Method)
	}
}

func parsePositionParams(raw json.RawMessage) (textDocumentPositionParams, error) {
	var p textDocumentPositionParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("bad params: %w", err)
	}
	return p, nil
}

// initializeResult advertises the capabilities spec.md §6 names: full-text
// sync, save-with-text, definition, highlight, references, rename,
// workspace-symbol.
func initializeResult() map[string]any {
	return map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync": map[string]any{
				"openClose": true,
				"change":    1, // full document sync, not incremental
				"save":      map[string]any{"includeText": true},
			},
			"definitionProvider":        true,
			"documentHighlightProvider": true,
			"referencesProvider":        true,
			"renameProvider":            true,
			"workspaceSymbolProvider":   true,
		},
	}
}

// uriToRelPath strips a file:// scheme down to a workspace-relative path.
// The engine re-derives the absolute path internally via its stored
// workspace root; callers always pass paths relative to it.
func uriToRelPath(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	if workspace, err := resolveWorkspace(); err == nil {
		if rel, ok := strings.CutPrefix(path, strings.TrimSuffix(workspace, "/")+"/"); ok {
			return rel
		}
	}
	return path
}
