package arrival

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/crossroads/topology"
)

// Framing tells how lane identifiers are separated on the wire.
type Framing int

// Framings.
const (
	// FramingRead treats every transport read as one identifier. Senders
	// that write faster than the receiver reads may have their identifiers
	// merged.
	FramingRead Framing = iota

	// FramingLine expects one identifier per line.
	FramingLine
)

func (f Framing) String() string {
	switch f {
	case FramingRead:
		return "read"
	case FramingLine:
		return "line"
	}

	return fmt.Sprintf("Framing(%d)", int(f))
}

// ParseFraming converts a framing name into a Framing.
func ParseFraming(s string) (Framing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read", "":
		return FramingRead, nil
	case "line":
		return FramingLine, nil
	}

	return 0, fmt.Errorf("unknown framing %q", s)
}

// Encode returns the wire form of a lane identifier.
func (f Framing) Encode(lane topology.LaneID) []byte {
	s := strconv.Itoa(int(lane))
	if f == FramingLine {
		s += "\n"
	}

	return []byte(s)
}

// A Decoder turns chunks read from a connection into lane identifiers.
// Chunks that do not hold a number are dropped.
type Decoder struct {
	framing Framing
	pending []byte
}

// NewDecoder creates a decoder for one connection.
func NewDecoder(framing Framing) *Decoder {
	return &Decoder{framing: framing}
}

// Decode consumes one chunk.
func (d *Decoder) Decode(chunk []byte) []topology.LaneID {
	if d.framing == FramingRead {
		if n, ok := leadingInt(chunk); ok {
			return []topology.LaneID{topology.LaneID(n)}
		}

		return nil
	}

	d.pending = append(d.pending, chunk...)

	var lanes []topology.LaneID
	for {
		i := bytes.IndexByte(d.pending, '\n')
		if i < 0 {
			break
		}

		line := bytes.TrimSpace(d.pending[:i])
		d.pending = d.pending[i+1:]

		n, err := strconv.Atoi(string(line))
		if err != nil {
			continue
		}

		lanes = append(lanes, topology.LaneID(n))
	}

	if len(d.pending) == 0 {
		d.pending = nil
	}

	return lanes
}

// leadingInt parses the optional sign and the digits at the start of b,
// after any white space. Anything after the digits is ignored.
func leadingInt(b []byte) (int, bool) {
	b = bytes.TrimLeft(b, " \t\r\n")

	end := 0
	if end < len(b) && (b[end] == '+' || b[end] == '-') {
		end++
	}

	start := end
	for end < len(b) && b[end] >= '0' && b[end] <= '9' {
		end++
	}

	if end == start {
		return 0, false
	}

	n, err := strconv.Atoi(string(b[:end]))
	if err != nil {
		return 0, false
	}

	return n, true
}
