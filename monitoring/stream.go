package monitoring

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sarchlab/crossroads/junction"
	"github.com/sarchlab/crossroads/sim"
)

// streamInterval is the shortest wall time between two streamed snapshots.
const streamInterval = 50 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamHub is a hook that pushes junction snapshots to websocket clients.
// A slow client only misses snapshots; it never slows down the simulation.
type streamHub struct {
	interval time.Duration

	lock     sync.Mutex
	clients  map[*websocket.Conn]chan []byte
	lastSent time.Time
}

func newStreamHub(interval time.Duration) *streamHub {
	return &streamHub{
		interval: interval,
		clients:  make(map[*websocket.Conn]chan []byte),
	}
}

// Func publishes the snapshot carried by a junction tick.
func (h *streamHub) Func(ctx sim.HookCtx) {
	if ctx.Pos != junction.HookPosTick {
		return
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	if len(h.clients) == 0 || time.Since(h.lastSent) < h.interval {
		return
	}

	msg, err := json.Marshal(ctx.Item)
	if err != nil {
		log.Printf("cannot encode snapshot: %v", err)
		return
	}

	h.lastSent = time.Now()

	for _, out := range h.clients {
		select {
		case out <- msg:
		default:
		}
	}
}

func (h *streamHub) numClients() int {
	h.lock.Lock()
	defer h.lock.Unlock()

	return len(h.clients)
}

func (h *streamHub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("cannot upgrade stream connection: %v", err)
		return
	}

	out := make(chan []byte, 1)

	h.lock.Lock()
	h.clients[conn] = out
	h.lock.Unlock()

	go h.write(conn, out)
	go h.read(conn)
}

func (h *streamHub) write(conn *websocket.Conn, out chan []byte) {
	for msg := range out {
		err := conn.WriteMessage(websocket.TextMessage, msg)
		if err != nil {
			h.drop(conn)
			return
		}
	}
}

// read discards client messages until the connection closes.
func (h *streamHub) read(conn *websocket.Conn) {
	defer h.drop(conn)

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("stream client error: %v", err)
			}

			return
		}
	}
}

func (h *streamHub) drop(conn *websocket.Conn) {
	h.lock.Lock()
	defer h.lock.Unlock()

	out, ok := h.clients[conn]
	if !ok {
		return
	}

	delete(h.clients, conn)
	close(out)
	conn.Close()
}

func (h *streamHub) closeAll() {
	h.lock.Lock()
	defer h.lock.Unlock()

	for conn, out := range h.clients {
		delete(h.clients, conn)
		close(out)
		conn.Close()
	}
}
