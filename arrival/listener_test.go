package arrival

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/crossroads/topology"
)

var _ = Describe("Listener", func() {
	var (
		feed     *Feed
		listener *Listener
		cancel   context.CancelFunc
		served   chan error
	)

	start := func(framing Framing) {
		feed = NewFeed("Feed")
		listener = NewListener("127.0.0.1:0", feed, framing)
		Expect(listener.Listen()).To(Succeed())

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		served = make(chan error, 1)

		go func() { served <- listener.Serve(ctx) }()
	}

	AfterEach(func() {
		cancel()
		Eventually(served, time.Second).Should(Receive(BeNil()))
	})

	It("should push lines from a connection", func() {
		start(FramingLine)

		conn, err := net.Dial("tcp", listener.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("2\n3\n11\n"))
		Expect(err).ToNot(HaveOccurred())

		Eventually(feed.Size, time.Second).Should(Equal(3))

		for _, want := range []topology.LaneID{2, 3, 11} {
			lane, _ := feed.TryPop()
			Expect(lane).To(Equal(want))
		}
	})

	It("should keep serving after a connection breaks", func() {
		start(FramingLine)

		first, err := net.Dial("tcp", listener.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		first.Close()

		second, err := net.Dial("tcp", listener.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer second.Close()

		_, err = second.Write([]byte("6\n"))
		Expect(err).ToNot(HaveOccurred())

		Eventually(feed.Size, time.Second).Should(Equal(1))
	})

	It("should close open connections on shutdown", func() {
		start(FramingRead)

		conn, err := net.Dial("tcp", listener.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("5"))
		Expect(err).ToNot(HaveOccurred())
		Eventually(feed.Size, time.Second).Should(Equal(1))

		cancel()
		Eventually(served, time.Second).Should(Receive(BeNil()))

		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, err = conn.Read(make([]byte, 1))
		Expect(err).To(HaveOccurred())

		served <- nil
	})

	It("should receive requests from a generator", func() {
		start(FramingLine)

		gen := NewGenerator(
			listener.Addr().String(),
			time.Millisecond,
			FramingLine,
			[]topology.LaneID{2, 5},
			20,
			rand.New(rand.NewSource(1)),
		)

		Expect(gen.Run(context.Background())).To(Succeed())
		Eventually(feed.Size, time.Second).Should(Equal(20))

		for feed.Size() > 0 {
			lane, _ := feed.TryPop()
			Expect(lane).To(BeElementOf(topology.LaneID(2), topology.LaneID(5)))
		}
	})

	It("should fail to generate without a simulator", func() {
		start(FramingLine)

		gen := NewGenerator("127.0.0.1:1", time.Millisecond, FramingLine,
			[]topology.LaneID{2}, 1, rand.New(rand.NewSource(1)))

		Expect(gen.Run(context.Background())).ToNot(Succeed())
	})
})

type failingListener struct {
	conns chan net.Conn
	err   error
}

func (l *failingListener) Accept() (net.Conn, error) {
	conn, ok := <-l.conns
	if !ok {
		return nil, l.err
	}

	return conn, nil
}

func (l *failingListener) Close() error { return nil }

func (l *failingListener) Addr() net.Addr { return &net.TCPAddr{} }

var _ = Describe("Listener with a failing accept", func() {
	It("should close connections and return the accept error", func() {
		server, client := net.Pipe()
		defer client.Close()

		failure := errors.New("too many open files")
		ln := &failingListener{conns: make(chan net.Conn, 1), err: failure}
		ln.conns <- server
		close(ln.conns)

		listener := NewListener("127.0.0.1:0", NewFeed("Feed"), FramingRead)
		listener.ln = ln

		served := make(chan error, 1)
		go func() { served <- listener.Serve(context.Background()) }()

		Eventually(served, time.Second).Should(Receive(MatchError(failure)))

		_, err := client.Read(make([]byte, 1))
		Expect(err).To(HaveOccurred())
	})
})
