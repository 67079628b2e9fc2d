package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"

	"github.com/signadot/graft/store"
)

const srcDocYAML = `
type: Document
name: draft
children:
  - type: Frame
    name: hero
    children:
      - type: Text
        name: Title
        text: Launch Week
      - type: Text
        name: Body
        text: Seven days of releases
`

const dstDocYAML = `
type: Document
name: final
children:
  - type: Frame
    name: hero
    children:
      - type: Text
        name: Title
        text: Placeholder
      - type: Text
        name: Body
        text: Lorem ipsum
`

// testClient records progress notifications pushed by the server.
type testClient struct {
	conn jsonrpc2.Conn

	mu       sync.Mutex
	percents []int
}

func (c *testClient) handler(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if req.Method() == MethodProgress {
		params := &ProgressParams{}
		if err := json.Unmarshal(req.Params(), params); err != nil {
			return reply(ctx, nil, err)
		}
		c.mu.Lock()
		c.percents = append(c.percents, params.Percent)
		c.mu.Unlock()
		return reply(ctx, nil, nil)
	}
	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

func (c *testClient) progress() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.percents...)
}

func startServer(t *testing.T) *testClient {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(&Spec{
		Addr:  "127.0.0.1:0",
		Store: store.NewMemory(),
		Log:   log,
	})
	l, err := NewTCPListener(srv)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Serve(ctx)
	t.Cleanup(func() {
		cancel()
		l.Close()
	})

	netConn, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	client := &testClient{}
	client.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(netConn))
	client.conn.Go(ctx, client.handler)
	t.Cleanup(func() { client.conn.Close() })
	return client
}

func TestServerRoundTrip(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	status := &StatusResult{}
	_, err := client.conn.Call(ctx, MethodStatus, nil, status)
	require.NoError(t, err)
	require.False(t, status.HasPayload)

	copied := &CopyResult{}
	_, err = client.conn.Call(ctx, MethodCopy, &CopyParams{
		Document:  srcDocYAML,
		Selection: "$",
	}, copied)
	require.NoError(t, err)
	require.NotEmpty(t, copied.ID)
	require.Equal(t, "draft", copied.Document)
	require.Equal(t, 2, copied.Leaves)

	status = &StatusResult{}
	_, err = client.conn.Call(ctx, MethodStatus, nil, status)
	require.NoError(t, err)
	require.True(t, status.HasPayload)
	require.Equal(t, copied.ID, status.ID)
	require.Equal(t, 2, status.Leaves)

	pasted := &PasteResult{}
	_, err = client.conn.Call(ctx, MethodPaste, &PasteParams{
		Document:  dstDocYAML,
		Selection: "$",
	}, pasted)
	require.NoError(t, err)
	require.NotNil(t, pasted.Report)
	require.Equal(t, 2, pasted.Report.Transferred)
	require.Contains(t, pasted.Document, "Launch Week")
	require.Contains(t, pasted.Document, "Seven days of releases")
	require.NotContains(t, pasted.Document, "Placeholder")

	// notifications may still be in flight after the call returns
	require.Eventually(t, func() bool {
		got := client.progress()
		return len(got) > 0 && got[len(got)-1] == 100
	}, 2*time.Second, 10*time.Millisecond)

	_, err = client.conn.Call(ctx, MethodClear, nil, &struct{}{})
	require.NoError(t, err)
	status = &StatusResult{}
	_, err = client.conn.Call(ctx, MethodStatus, nil, status)
	require.NoError(t, err)
	require.False(t, status.HasPayload)
}

func TestServerDryRun(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	_, err := client.conn.Call(ctx, MethodCopy, &CopyParams{
		Document:  srcDocYAML,
		Selection: "$",
	}, &CopyResult{})
	require.NoError(t, err)

	pasted := &PasteResult{}
	_, err = client.conn.Call(ctx, MethodPaste, &PasteParams{
		Document:  dstDocYAML,
		Selection: "$",
		DryRun:    true,
	}, pasted)
	require.NoError(t, err)
	require.Nil(t, pasted.Report)
	require.Empty(t, pasted.Document)

	patch := map[string]string{}
	require.NoError(t, json.Unmarshal(pasted.Patch, &patch))
	require.Equal(t, "Launch Week", patch["$[0][0]"])
	require.Equal(t, "Seven days of releases", patch["$[0][1]"])
}

func TestServerErrors(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	// paste with no payload
	_, err := client.conn.Call(ctx, MethodPaste, &PasteParams{
		Document:  dstDocYAML,
		Selection: "$",
	}, &PasteResult{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "nothing has been copied")

	// malformed document
	_, err = client.conn.Call(ctx, MethodCopy, &CopyParams{
		Document:  "type: Frame\nchildren: [{type: Frame, text: nope}]",
		Selection: "$",
	}, &CopyResult{})
	require.Error(t, err)

	// unknown method
	_, err = client.conn.Call(ctx, "graft/teleport", nil, nil)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "not supported"))
}

func TestServerStdio(t *testing.T) {
	srvIn, clientOut := io.Pipe()
	clientIn, srvOut := io.Pipe()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(&Spec{Store: store.NewMemory(), Log: log})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.ServeStdio(ctx, srvIn, srvOut) }()

	client := &testClient{}
	client.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(&stdioReadWriteCloser{read: clientIn, write: clientOut}))
	client.conn.Go(ctx, client.handler)

	copied := &CopyResult{}
	_, err := client.conn.Call(ctx, MethodCopy, &CopyParams{
		Document:  srcDocYAML,
		Selection: "$",
	}, copied)
	require.NoError(t, err)
	require.Equal(t, 2, copied.Leaves)

	client.conn.Close()
	clientOut.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stdio server did not shut down")
	}
}
