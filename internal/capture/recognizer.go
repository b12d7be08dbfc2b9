package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSRecognizer streams recognition results from a websocket speech backend.
// The backend receives a config frame on connect and pushes result frames
// until the connection closes
type WSRecognizer struct {
	url    string
	cfg    RecognizerConfig
	dialer *websocket.Dialer

	mu      sync.Mutex
	conn    *websocket.Conn
	stopped bool
}

type recognizerFrame struct {
	Type     string `json:"type,omitempty"`
	Language string `json:"language,omitempty"`

	Continuous     bool `json:"continuous,omitempty"`
	InterimResults bool `json:"interim_results,omitempty"`
}

type resultFrame struct {
	Final   string `json:"final"`
	Interim string `json:"interim"`
	Error   string `json:"error,omitempty"`
}

// NewWSRecognizer creates a recognizer client for the given backend URL
func NewWSRecognizer(url string, cfg RecognizerConfig) *WSRecognizer {
	return &WSRecognizer{
		url: url,
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 30 * time.Second,
		},
	}
}

// Start dials the backend, sends the configuration frame and begins the
// read loop. Results are delivered sequentially on a single goroutine
func (r *WSRecognizer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil {
		return fmt.Errorf("recognizer already started")
	}

	conn, _, err := r.dialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}

	start := recognizerFrame{
		Type:           "config",
		Language:       r.cfg.Language,
		Continuous:     r.cfg.Continuous,
		InterimResults: r.cfg.InterimResults,
	}
	if err := conn.WriteJSON(start); err != nil {
		conn.Close()
		return fmt.Errorf("failed to send recognizer config: %w", err)
	}

	r.conn = conn
	r.stopped = false
	go r.readLoop(conn)

	return nil
}

// readLoop decodes result frames until the connection closes. Frames are
// handled one at a time, so no two OnResult calls interleave
func (r *WSRecognizer) readLoop(conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			r.mu.Lock()
			stopped := r.stopped
			r.mu.Unlock()

			if !stopped && r.cfg.OnEnd != nil {
				r.cfg.OnEnd(err)
			}
			return
		}

		var frame resultFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			log.Printf("[CAPTURE]: dropping malformed recognizer frame: %v", err)
			continue
		}
		if frame.Error != "" {
			log.Printf("[CAPTURE]: recognizer backend error: %s", frame.Error)
			continue
		}

		if r.cfg.OnResult != nil {
			r.cfg.OnResult(Result{Final: frame.Final, Interim: frame.Interim})
		}
	}
}

// SetLanguage switches the recognition language on the live connection
func (r *WSRecognizer) SetLanguage(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return fmt.Errorf("recognizer not started")
	}

	return r.conn.WriteJSON(recognizerFrame{Type: "set_language", Language: code})
}

// Stop closes the connection. The read loop treats the resulting read
// error as an expected shutdown
func (r *WSRecognizer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return nil
	}
	r.stopped = true

	deadline := time.Now().Add(time.Second)
	r.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)

	err := r.conn.Close()
	r.conn = nil
	return err
}
