package progress

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	fractal "github.com/marben/fractal_gif"
)

const writeTimeout = time.Second

// Update is the JSON message pushed to every websocket client.
type Update struct {
	Step  int `json:"step"`
	Total int `json:"total"`
}

// Hub broadcasts progress updates to connected websocket clients.
// Clients that fail a write are dropped.
type Hub struct {
	m       sync.Mutex
	clients map[*websocket.Conn]struct{}
	last    Update
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

// Report implements fractal.Reporter.
func (h *Hub) Report(step, total int) {
	u := Update{Step: step, Total: total}

	h.m.Lock()
	h.last = u
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.m.Unlock()

	for _, c := range conns {
		if err := h.send(c, u); err != nil {
			log.Printf("progress: dropping client: %v", err)
			h.remove(c)
			c.Close(websocket.StatusGoingAway, "write failed")
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.m.Lock()
	defer h.m.Unlock()
	return len(h.clients)
}

func (h *Hub) send(c *websocket.Conn, u Update) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, u)
}

func (h *Hub) remove(c *websocket.Conn) {
	h.m.Lock()
	delete(h.clients, c)
	h.m.Unlock()
}

// Handler upgrades the request to a websocket, sends the latest update and keeps the
// client registered until it disconnects.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			log.Println(err)
			return
		}
		defer c.CloseNow()

		h.m.Lock()
		h.clients[c] = struct{}{}
		last := h.last
		h.m.Unlock()
		defer h.remove(c)

		if err := h.send(c, last); err != nil {
			return
		}

		// CloseRead discards incoming messages; its context ends when the client goes away.
		ctx := c.CloseRead(r.Context())
		<-ctx.Done()
	}
}

// Server serves the hub at /ws and the files in dir (the rendered frames) at /.
// addr is a listen address such as ":8080".
func Server(addr string, dir string, h *Hub) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.Handler())
	mux.Handle("/", http.FileServer(http.Dir(dir)))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("progress listening on %s", addr)
	return srv
}

var _ fractal.Reporter = (*Hub)(nil)
