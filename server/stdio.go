package server

import (
	"context"
	"io"

	"go.lsp.dev/jsonrpc2"
)

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}

// ServeStdio runs a single jsonrpc2 conn over r/w, for hosts that
// spawn the bridge as a subprocess.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{read: r, write: w})
	conn := jsonrpc2.NewConn(stream)
	conn.Go(ctx, s.Handler(conn))
	<-conn.Done()
	return conn.Err()
}
