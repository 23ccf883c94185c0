package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Preset string `json:"preset,omitempty"`
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
	RunID  string `json:"run_id,omitempty"`
}

// handleWS runs each "transform" message as its own pipeline run and answers
// with an "output" message carrying the same id. Runs are concurrent, so
// replies may arrive out of order. Closing the socket cancels every run it
// started. At most wsMaxInFlight runs execute at once per connection; further
// messages wait for a free slot. A message over wsMaxMessage bytes closes the
// connection.
func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.wsMaxMessage)

	// gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeMsg := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	var wg sync.WaitGroup
	sem := make(chan struct{}, h.wsMaxInFlight)
	defer func() {
		cancel()
		wg.Wait()
	}()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "transform":
			sem <- struct{}{}
			wg.Add(1)
			go func(msg wsMessage) {
				defer wg.Done()
				defer func() { <-sem }()
				res := h.svc.Transform(ctx, msg.Input, msg.Preset)
				if ctx.Err() != nil {
					return
				}
				reply := wsMessage{Type: "output", ID: msg.ID, Output: res.Output, RunID: res.RunID}
				if err := writeMsg(reply); err != nil {
					h.log.Debug().Err(err).Msg("ws write")
				}
			}(msg)
		default:
			h.log.Debug().Str("type", msg.Type).Msg("ws message ignored")
		}
	}
}
