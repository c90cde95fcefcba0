package arrival

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/sarchlab/crossroads/topology"
)

// A Generator connects to a simulator and requests a vehicle in a random
// lane at a fixed interval.
type Generator struct {
	addr     string
	interval time.Duration
	framing  Framing
	lanes    []topology.LaneID
	count    int
	rng      *rand.Rand

	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewGenerator creates a generator that picks among lanes. A count of 0
// sends until the context is done.
func NewGenerator(
	addr string,
	interval time.Duration,
	framing Framing,
	lanes []topology.LaneID,
	count int,
	rng *rand.Rand,
) *Generator {
	var d net.Dialer

	return &Generator{
		addr:     addr,
		interval: interval,
		framing:  framing,
		lanes:    lanes,
		count:    count,
		rng:      rng,
		dial:     d.DialContext,
	}
}

// Run dials the simulator and sends requests. It returns nil once count
// requests are sent or ctx is done.
func (g *Generator) Run(ctx context.Context) error {
	if len(g.lanes) == 0 {
		return errors.New("no lanes to generate traffic for")
	}

	conn, err := g.dial(ctx, "tcp", g.addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", g.addr, err)
	}
	defer conn.Close()

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for sent := 0; g.count == 0 || sent < g.count; sent++ {
		lane := g.lanes[g.rng.Intn(len(g.lanes))]

		if _, err := conn.Write(g.framing.Encode(lane)); err != nil {
			return fmt.Errorf("send lane %d: %w", lane, err)
		}

		if g.count != 0 && sent+1 == g.count {
			break
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}

	return nil
}
