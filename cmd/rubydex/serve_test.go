package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jward/rubydex"
	"github.com/jward/rubydex/internal/config"
)

func writeRPCMessage(t *testing.T, buf *bytes.Buffer, method string, id, params any) {
	t.Helper()
	req := map[string]any{"jsonrpc": "2.0", "method": method}
	if id != nil {
		req["id"] = id
	}
	if params != nil {
		req["params"] = params
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)
	fmt.Fprintf(buf, "Content-Length: %d\r\n\r\n", len(body))
	buf.Write(body)
}

func newServeTestEngine(t *testing.T, workspace string) *rubydex.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.IndexGems = false
	e, err := rubydex.New(workspace, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	require.NoError(t, e.Crawl(context.Background()))
	return e
}

func writeWorkspaceFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestServeLoop_Initialize(t *testing.T) {
	dir := t.TempDir()
	writeWorkspaceFile(t, dir, "a.rb", "x = 1\n")
	e := newServeTestEngine(t, dir)

	var in bytes.Buffer
	writeRPCMessage(t, &in, "initialize", float64(1), nil)
	writeRPCMessage(t, &in, "shutdown", float64(2), nil)

	var out bytes.Buffer
	require.NoError(t, serveLoop(context.Background(), e, &in, &out))

	br := bufio.NewReader(&out)
	var results []map[string]any
	for {
		raw, err := readRawMessage(br)
		if err != nil {
			break
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		results = append(results, m)
	}
	require.Len(t, results, 2)
	require.Nil(t, results[0]["error"])
	caps, ok := results[0]["result"].(map[string]any)["capabilities"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, caps["definitionProvider"])
}

// readRawMessage reads one Content-Length-framed message body as raw bytes,
// for asserting on response shapes readMessage's rpcRequest can't represent
// (result/error fields).
func readRawMessage(br *bufio.Reader) ([]byte, error) {
	var contentLength int
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, err
			}
			contentLength = n
		}
	}
	body := make([]byte, contentLength)
	if _, err := io.ReadFull(br, body); err != nil {
		return nil, err
	}
	return body, nil
}

func TestServeLoop_DefinitionQuery(t *testing.T) {
	dir := t.TempDir()
	writeWorkspaceFile(t, dir, "a.rb", "x = 1\nputs x\n")
	e := newServeTestEngine(t, dir)

	var in bytes.Buffer
	writeRPCMessage(t, &in, "textDocument/definition", float64(1), map[string]any{
		"textDocument": map[string]any{"uri": "a.rb"},
		"position":     map[string]any{"line": 1, "character": 5},
	})
	writeRPCMessage(t, &in, "shutdown", float64(2), nil)

	var out bytes.Buffer
	require.NoError(t, serveLoop(context.Background(), e, &in, &out))

	br := bufio.NewReader(&out)
	raw, err := readRawMessage(br)
	require.NoError(t, err)
	var resp struct {
		Result []rubydex.Location `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Len(t, resp.Result, 1)
	require.Equal(t, 0, resp.Result[0].Range.Start.Line)
}

func TestServeLoop_UnknownMethod_ReturnsMethodNotFound(t *testing.T) {
	dir := t.TempDir()
	writeWorkspaceFile(t, dir, "a.rb", "x = 1\n")
	e := newServeTestEngine(t, dir)

	var in bytes.Buffer
	writeRPCMessage(t, &in, "textDocument/bogus", float64(1), map[string]any{})

	var out bytes.Buffer
	require.NoError(t, serveLoop(context.Background(), e, &in, &out))

	br := bufio.NewReader(&out)
	raw, err := readRawMessage(br)
	require.NoError(t, err)
	var resp rpcResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestServeLoop_DidOpenNotification_ReindexesFile(t *testing.T) {
	dir := t.TempDir()
	writeWorkspaceFile(t, dir, "a.rb", "x = 1\n")
	e := newServeTestEngine(t, dir)

	var in bytes.Buffer
	writeRPCMessage(t, &in, "textDocument/didOpen", nil, map[string]any{
		"textDocument": map[string]any{"uri": "a.rb", "text": "y = 2\nputs y\n"},
	})
	writeRPCMessage(t, &in, "textDocument/definition", float64(1), map[string]any{
		"textDocument": map[string]any{"uri": "a.rb"},
		"position":     map[string]any{"line": 1, "character": 5},
	})

	var out bytes.Buffer
	require.NoError(t, serveLoop(context.Background(), e, &in, &out))

	br := bufio.NewReader(&out)
	raw, err := readRawMessage(br)
	require.NoError(t, err)
	var resp struct {
		Result []rubydex.Location `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Len(t, resp.Result, 1)
}
