package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"go.lsp.dev/jsonrpc2"
)

// TCPListener accepts host connections and runs one jsonrpc2 conn per
// connection.  All connections share the server's session.
type TCPListener struct {
	listener net.Listener
	server   *Server

	connSeq atomic.Int64
	wg      sync.WaitGroup
	closed  atomic.Bool
}

func NewTCPListener(server *Server) (*TCPListener, error) {
	listener, err := net.Listen("tcp", server.spec.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", server.spec.Addr, err)
	}
	return &TCPListener{listener: listener, server: server}, nil
}

func (l *TCPListener) Addr() net.Addr {
	return l.listener.Addr()
}

// Serve blocks accepting connections until Close is called.
func (l *TCPListener) Serve(ctx context.Context) error {
	l.server.spec.Log.Info("listening", "addr", l.listener.Addr().String())
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if l.closed.Load() {
				return nil
			}
			l.server.spec.Log.Error("accept error", "error", err)
			continue
		}
		l.wg.Add(1)
		go l.handleConn(ctx, conn)
	}
}

func (l *TCPListener) handleConn(ctx context.Context, netConn net.Conn) {
	defer l.wg.Done()
	seq := l.connSeq.Add(1)
	log := l.server.spec.Log.With("conn", seq)
	log.Debug("new connection", "remote", netConn.RemoteAddr().String())
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(netConn))
	conn.Go(ctx, l.server.Handler(conn))
	<-conn.Done()
	if err := conn.Err(); err != nil {
		log.Debug("connection ended", "error", err)
		return
	}
	log.Debug("connection ended")
}

func (l *TCPListener) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	err := l.listener.Close()
	l.wg.Wait()
	return err
}
