package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) onlineDriversHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(s.logger, w, http.StatusOK, map[string]int{"online": s.factory.OnlineDriverCount()})
	}
}

type deliveryWindowResponse struct {
	models.DeliveryTimeEstimate
	DepartureLabel string `json:"departure_label"`
	ArrivalLabel   string `json:"arrival_label"`
}

func (s *Server) deliveryWindowHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		minutes, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("minutes")))
		if err != nil || minutes < 0 {
			writeError(s.logger, w, http.StatusBadRequest, "minutes must be a non-negative integer")
			return
		}
		if minutes > models.MaxDeliveryMinutes {
			writeError(s.logger, w, http.StatusBadRequest,
				fmt.Sprintf("minutes must not exceed %d", models.MaxDeliveryMinutes))
			return
		}
		estimate := s.factory.EstimateDeliveryWindow(minutes)
		writeJSON(s.logger, w, http.StatusOK, deliveryWindowResponse{
			DeliveryTimeEstimate: estimate,
			DepartureLabel:       estimate.DepartureLabel(),
			ArrivalLabel:         estimate.ArrivalLabel(),
		})
	}
}

func (s *Server) region(r *http.Request) string {
	if region := strings.TrimSpace(r.URL.Query().Get("region")); region != "" {
		return region
	}
	return s.defaultRegion
}

// searchStreamHandler runs one session and streams its events as
// newline-delimited JSON. A disconnecting client cancels the session.
func (s *Server) searchStreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(s.logger, w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		enc := json.NewEncoder(w)
		_, err := s.sequencer.Run(r.Context(), s.region(r), func(ev models.SessionEvent) {
			if err := enc.Encode(ev); err != nil {
				return
			}
			flusher.Flush()
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("search stream ended early", "error", err)
		}
	}
}

// searchSocketHandler runs one session per WebSocket connection and sends
// each event as a JSON text message. The session stops when the client
// goes away.
func (s *Server) searchSocketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		events := make(chan models.SessionEvent, 64)
		done := make(chan error, 1)
		go func() {
			defer close(events)
			_, err := s.sequencer.Run(ctx, s.region(r), func(ev models.SessionEvent) {
				select {
				case events <- ev:
				case <-ctx.Done():
				}
			})
			done <- err
		}()

		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
						s.logger.Warn("search socket ended early", "error", err)
					}
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session complete"),
						time.Now().Add(wsWriteWait))
					return
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(ev); err != nil {
					cancel()
					for range events {
					}
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					cancel()
					for range events {
					}
					return
				}
			}
		}
	}
}
