package arrival

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
)

// readBufferSize is the largest chunk taken from a connection in one read.
const readBufferSize = 100

// A Listener accepts traffic generator connections and pushes every decoded
// lane into a Feed. Each connection is served by its own goroutine. A
// connection that breaks only stops the arrivals coming from it.
type Listener struct {
	addr    string
	feed    *Feed
	framing Framing

	lock   sync.Mutex
	ln     net.Listener
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewListener creates a listener that will bind to addr.
func NewListener(addr string, feed *Feed, framing Framing) *Listener {
	return &Listener{
		addr:    addr,
		feed:    feed,
		framing: framing,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Listen binds the address. It is called by Serve if it has not been called
// yet.
func (l *Listener) Listen() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.ln != nil {
		return nil
	}

	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", l.addr, err)
	}

	l.ln = ln

	return nil
}

// Addr returns the bound address, or nil before Listen.
func (l *Listener) Addr() net.Addr {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.ln == nil {
		return nil
	}

	return l.ln.Addr()
}

// Serve accepts connections until ctx is done. It closes every open
// connection and waits for their goroutines before returning.
func (l *Listener) Serve(ctx context.Context) error {
	if err := l.Listen(); err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}

		l.shutdown()
	}()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			l.shutdown()
			l.wg.Wait()

			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}

			return fmt.Errorf("accept on %s: %w", l.addr, err)
		}

		l.track(conn)
		l.wg.Add(1)

		go l.serveConn(conn)
	}
}

func (l *Listener) track(conn net.Conn) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.closed {
		conn.Close()
		return
	}

	l.conns[conn] = struct{}{}
}

func (l *Listener) untrack(conn net.Conn) {
	l.lock.Lock()
	delete(l.conns, conn)
	l.lock.Unlock()
}

func (l *Listener) shutdown() {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.closed = true

	if l.ln != nil {
		l.ln.Close()
	}

	for conn := range l.conns {
		conn.Close()
	}
}

func (l *Listener) serveConn(conn net.Conn) {
	defer l.wg.Done()
	defer l.untrack(conn)
	defer conn.Close()

	log.Printf("traffic source connected from %s", conn.RemoteAddr())

	decoder := NewDecoder(l.framing)
	buf := make([]byte, readBufferSize)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			for _, lane := range decoder.Decode(buf[:n]) {
				l.feed.Push(lane)
			}
		}

		if err != nil {
			log.Printf("traffic source %s disconnected: %v",
				conn.RemoteAddr(), err)
			return
		}
	}
}
