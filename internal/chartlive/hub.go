// Package chartlive pushes chart changes to connected viewers over
// WebSocket so two clinicians looking at the same patient stay in sync.
package chartlive

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/dentalworks/dental-clinic-platform/internal/chart"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// sender abstracts the JSON push to one connected client.
type sender interface {
	SendJSON(v any) error
}

type wsSender struct {
	conn *websocket.Conn
}

func (s wsSender) SendJSON(v any) error {
	return websocket.JSON.Send(s.conn, v)
}

// Hub tracks viewers per patient and fans chart events out to them.
type Hub struct {
	logger *logging.Logger

	mu      sync.RWMutex
	viewers map[string]map[string]sender // patientID -> connID -> conn
}

func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger:  logger,
		viewers: make(map[string]map[string]sender),
	}
}

// Broadcast pushes an event to every viewer of the patient. Dead
// connections are dropped on send failure.
func (h *Hub) Broadcast(patientID string, event chart.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.viewers[patientID]
	for id, conn := range conns {
		if err := conn.SendJSON(event); err != nil {
			h.logger.Debug("dropping dead chart viewer", "patient_id", patientID, "conn_id", id)
			delete(conns, id)
		}
	}
	if len(conns) == 0 {
		delete(h.viewers, patientID)
	}
}

// ViewerCount reports how many clients watch the patient's chart.
func (h *Hub) ViewerCount(patientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers[patientID])
}

func (h *Hub) register(patientID string, conn sender) string {
	id := uuid.NewString()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.viewers[patientID] == nil {
		h.viewers[patientID] = make(map[string]sender)
	}
	h.viewers[patientID][id] = conn
	return id
}

func (h *Hub) unregister(patientID, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.viewers[patientID]; ok {
		delete(conns, id)
		if len(conns) == 0 {
			delete(h.viewers, patientID)
		}
	}
}

// HandleWebSocket upgrades the request and keeps the viewer subscribed
// until the connection closes.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patient")
	if patientID == "" {
		http.Error(w, "missing patient parameter", http.StatusBadRequest)
		return
	}

	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, patientID)
	}).ServeHTTP(w, r)
}

func (h *Hub) serveWS(conn *websocket.Conn, patientID string) {
	id := h.register(patientID, wsSender{conn: conn})
	defer h.unregister(patientID, id)

	h.logger.Info("chart viewer connected", "patient_id", patientID, "conn_id", id)

	// Viewers are read-only; drain until the client goes away so chi keeps
	// the connection open.
	for {
		var discard map[string]any
		if err := websocket.JSON.Receive(conn, &discard); err != nil {
			h.logger.Debug("chart viewer disconnected", "patient_id", patientID, "conn_id", id)
			return
		}
	}
}

// Ensure the hub satisfies the chart service's broadcast contract.
var _ chart.Broadcaster = (*Hub)(nil)
