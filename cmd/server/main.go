package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/trafficlab/tunnelsim/tunnel"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		return true
	},
}

// Client message types
type ClientMessage struct {
	Type   string                 `json:"type"`
	Config *tunnel.ScenarioConfig `json:"config,omitempty"`
}

// Server message types
type ServerMessage struct {
	Type    string                 `json:"type"`
	RunID   string                 `json:"runId,omitempty"`
	Running *bool                  `json:"running,omitempty"`
	Config  *tunnel.ScenarioConfig `json:"config,omitempty"`
	Stats   *tunnel.Stats          `json:"stats,omitempty"`
	Event   *tunnel.Event          `json:"event,omitempty"`
}

// runState manages the scenario lifecycle for a single client connection.
// Unlike a steppable simulation, a scenario run is a set of goroutines that
// drive themselves; the server starts a run, streams its events, and cancels
// it on reset or disconnect.
type runState struct {
	mu       sync.Mutex
	config   tunnel.ScenarioConfig
	scenario *tunnel.Scenario
	runID    string
	running  bool
	cancel   context.CancelFunc
	stopCh   chan struct{}
}

func newRunState() *runState {
	return &runState{
		config: tunnel.DefaultConfig(),
		stopCh: make(chan struct{}),
	}
}

// start launches a fresh run of the current config. Events are delivered to
// onEvent as they are logged, and onDone fires once when every vehicle has
// terminated.
func (s *runState) start(onEvent func(tunnel.Event), onDone func(*tunnel.Stats)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	scenario, err := tunnel.NewScenario(s.config)
	if err != nil {
		return err
	}
	scenario.Log().OnEvent = onEvent

	ctx, cancel := context.WithCancel(context.Background())
	s.scenario = scenario
	s.runID = uuid.NewString()
	s.running = true
	s.cancel = cancel

	go func() {
		stats := scenario.Run(ctx)
		cancel()
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		onDone(stats)
	}()
	return nil
}

// reset cancels any in-flight run.
func (s *runState) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.running = false
	s.scenario = nil
}

// updateConfig replaces the config used by the next run.
func (s *runState) updateConfig(config tunnel.ScenarioConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = config
	return nil
}

func (s *runState) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *runState) getConfig() tunnel.ScenarioConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

func (s *runState) getRunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// stats returns a snapshot of the current run, or nil before the first run.
func (s *runState) stats() *tunnel.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scenario == nil {
		return nil
	}
	return s.scenario.Stats()
}

// stop signals the stats loop to stop and cancels any in-flight run.
func (s *runState) stop() {
	s.reset()
	close(s.stopCh)
}

// statsUpdateLoop periodically sends stats snapshots while a run is live.
// This runs in its own goroutine and controls UI pacing.
func statsUpdateLoop(conn *safeConn, state *runState) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-state.stopCh:
			log.Println("Stats update loop stopping")
			return

		case <-ticker.C:
			if !state.isRunning() {
				continue
			}
			stats := state.stats()
			if stats == nil {
				continue
			}
			updatePrometheusMetrics(stats)
			statsMsg := ServerMessage{
				Type:  "stats",
				RunID: state.getRunID(),
				Stats: stats,
			}
			if err := conn.WriteJSON(statsMsg); err != nil {
				log.Printf("Error sending stats: %v", err)
				return
			}
		}
	}
}

// safeConn wraps a WebSocket connection with a mutex to prevent concurrent writes
type safeConn struct {
	*websocket.Conn
	writeMu sync.Mutex
}

func (sc *safeConn) WriteJSON(v interface{}) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	return sc.Conn.WriteJSON(v)
}

func sendStatus(conn *safeConn, state *runState) {
	running := state.isRunning()
	cfg := state.getConfig()
	statusMsg := ServerMessage{
		Type:    "status",
		RunID:   state.getRunID(),
		Running: &running,
		Config:  &cfg,
	}
	if err := conn.WriteJSON(statusMsg); err != nil {
		log.Printf("Error sending status: %v", err)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}
	defer conn.Close()

	// Wrap connection with mutex for safe concurrent writes
	safeConn := &safeConn{Conn: conn}

	sessionID := uuid.NewString()
	log.Printf("Client connected (session %s)", sessionID)

	state := newRunState()

	// Send initial status
	sendStatus(safeConn, state)

	// Start stats update loop
	go statsUpdateLoop(safeConn, state)

	onEvent := func(e tunnel.Event) {
		recordEvent(e)
		eventMsg := ServerMessage{
			Type:  "event",
			RunID: state.getRunID(),
			Event: &e,
		}
		if err := safeConn.WriteJSON(eventMsg); err != nil {
			log.Printf("Error sending event: %v", err)
		}
	}
	onDone := func(stats *tunnel.Stats) {
		updatePrometheusMetrics(stats)
		doneMsg := ServerMessage{
			Type:  "done",
			RunID: state.getRunID(),
			Stats: stats,
		}
		if err := safeConn.WriteJSON(doneMsg); err != nil {
			log.Printf("Error sending final stats: %v", err)
		}
	}

	// Handle messages from client
	for {
		var msg ClientMessage
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error reading message: %v", err)
			}
			break
		}

		log.Printf("Received command: %s", msg.Type)

		switch msg.Type {
		case "start":
			if err := state.start(onEvent, onDone); err != nil {
				log.Printf("Error starting run: %v", err)
				break
			}
			log.Printf("Run %s started", state.getRunID())
			sendStatus(safeConn, state)

		case "reset":
			state.reset()
			log.Println("Run reset")
			sendStatus(safeConn, state)

		case "config_update":
			if msg.Config != nil {
				if err := state.updateConfig(*msg.Config); err != nil {
					log.Printf("Error updating config: %v", err)
				} else {
					log.Printf("Config updated: %+v", msg.Config)
					sendStatus(safeConn, state)
				}
			}
		}
	}

	// Clean up
	state.stop()
	log.Printf("Client disconnected (session %s)", sessionID)
}

const homePage = `<!DOCTYPE html>
<html>
<head><title>tunnelsim</title></head>
<body>
<h1>tunnelsim</h1>
<p>WebSocket endpoint: <code>/ws</code> &mdash; commands: start, reset, config_update.</p>
<p>Prometheus metrics: <a href="/metrics">/metrics</a></p>
</body>
</html>
`

func serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, homePage)
}

func quitHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Shutdown requested via /quitquitquit")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Server shutting down...")

	go func() {
		time.Sleep(100 * time.Millisecond)
		log.Println("Server stopped")
		os.Exit(0)
	}()
}

func main() {
	initPrometheusMetrics()

	http.HandleFunc("/", serveHome)
	http.HandleFunc("/ws", handleWebSocket)
	http.HandleFunc("/quitquitquit", quitHandler)
	http.Handle("/metrics", promhttp.Handler())

	addr := ":8080"
	log.Printf("Server starting on http://localhost%s", addr)
	log.Printf("WebSocket endpoint: ws://localhost%s/ws", addr)
	log.Printf("Metrics endpoint: http://localhost%s/metrics", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
