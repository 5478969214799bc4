package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"InkBoard/internal/board"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
	"InkBoard/internal/tool"

	"github.com/gorilla/websocket"
)

// Message is one client request on /input. Pointer messages follow the DOM
// PointerEvent fields; the rest drive the board directly.
type Message struct {
	Type        string   `json:"type"`
	ID          int64    `json:"id,omitempty"`
	X           float64  `json:"x,omitempty"`
	Y           float64  `json:"y,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	PointerType string   `json:"pointerType,omitempty"`
	Button      int      `json:"button,omitempty"`
	Buttons     int      `json:"buttons,omitempty"`

	Steps float64 `json:"steps,omitempty"`
	Tool  string  `json:"tool,omitempty"`
	Shape string  `json:"shape,omitempty"`
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Reply is sent back on /input when a message fails.
type Reply struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

// DocumentMessage is what viewers receive after every redraw.
type DocumentMessage struct {
	Type     string          `json:"type"`
	Revision uint64          `json:"revision"`
	Document json.RawMessage `json:"document"`
}

var ErrUnknownMessage = errors.New("unknown message type")

// Server exposes one board over WebSockets: remote pointers on /input and
// read-only viewers on /view.
type Server struct {
	board    *board.Board
	viewers  *ConnectionManager
	upgrader websocket.Upgrader
	notify   chan struct{}
	sources  atomic.Int64
	log      *slog.Logger
}

func NewServer(b *board.Board) *Server {
	return &Server{
		board:   b,
		viewers: NewConnectionManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		notify: make(chan struct{}, 1),
		log:    logging.For("net"),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/input", s.serveInput)
	mux.HandleFunc("/view", s.serveView)
	mux.HandleFunc("GET /state", s.serveState)
	return mux
}

// Viewers returns the number of connected viewers.
func (s *Server) Viewers() int { return s.viewers.Len() }

// Notify schedules a broadcast. It never blocks; bursts collapse into one
// send.
func (s *Server) Notify() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Run broadcasts the document after each Notify until ctx ends.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.viewers.CloseAll()
			return
		case <-s.notify:
			data, err := s.documentMessage()
			if err != nil {
				s.log.Error("snapshot failed", "err", err)
				continue
			}
			s.viewers.Broadcast(data, nil)
		}
	}
}

// ListenAndServe serves on addr until ctx ends. ready, if non-nil, receives
// the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go s.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", "addr", ln.Addr().String())
	if ready != nil {
		ready(ln.Addr())
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) documentMessage() ([]byte, error) {
	doc := s.board.Document()
	snap, err := doc.ExportState()
	if err != nil {
		return nil, err
	}
	return json.Marshal(DocumentMessage{Type: "document", Revision: doc.Revision(), Document: snap})
}

func (s *Server) serveState(w http.ResponseWriter, r *http.Request) {
	data, err := s.documentMessage()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) serveView(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("view upgrade failed", "err", err)
		return
	}
	s.viewers.Add(conn)
	defer s.viewers.Remove(conn)

	data, err := s.documentMessage()
	if err == nil {
		err = s.viewers.Send(conn, data)
	}
	if err != nil {
		s.log.Warn("initial snapshot failed", "remote", conn.RemoteAddr().String(), "err", err)
		return
	}
	// Viewers are read-only; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) serveInput(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("input upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	src := newSource(s.sources.Add(1))
	s.log.Info("input connected", "remote", remote)

	defer func() {
		for _, c := range src.drain() {
			s.board.Handle(board.Event{Kind: board.Cancel, Contact: c})
		}
		s.log.Info("input disconnected", "remote", remote)
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			var syntax *json.SyntaxError
			if errors.As(err, &syntax) {
				conn.WriteJSON(Reply{Type: "error", Error: err.Error()})
				continue
			}
			return
		}
		if err := s.apply(src, msg); err != nil {
			s.log.Debug("message rejected", "remote", remote, "type", msg.Type, "err", err)
			if werr := conn.WriteJSON(Reply{Type: "error", Error: err.Error()}); werr != nil {
				return
			}
		}
	}
}

func (s *Server) apply(src *source, msg Message) error {
	switch msg.Type {
	case "down", "move", "up", "cancel":
		ev := src.event(msg)
		return s.board.Handle(ev)
	case "wheel":
		s.board.Wheel(msg.Steps, geom.Pt(msg.X, msg.Y))
		return nil
	case "undo":
		_, err := s.board.Undo()
		return err
	case "redo":
		_, err := s.board.Redo()
		return err
	case "clear":
		return s.board.Clear()
	case "tool":
		name, err := tool.ParseName(msg.Tool)
		if err != nil {
			return err
		}
		shape, err := tool.ParseShapeKind(msg.Shape)
		if err != nil {
			return err
		}
		return s.board.ActivateTool(name, tool.Options{Shape: shape})
	case "style":
		return s.board.SetStyle(msg.Color, msg.Width)
	default:
		return fmt.Errorf("%w %q", ErrUnknownMessage, msg.Type)
	}
}

// source is one input socket. Client pointer ids are scoped to it so two
// sockets never share a contact.
type source struct {
	base int64
	live map[int64]state.Contact
}

func newSource(n int64) *source {
	return &source{base: n << 32, live: make(map[int64]state.Contact)}
}

func (s *source) event(msg Message) board.Event {
	c := state.Contact{
		ID:       state.ContactID(s.base | (msg.ID & 0xffffffff)),
		Position: geom.Pt(msg.X, msg.Y),
		Kind:     state.ParseInputKind(msg.PointerType),
		Button:   state.Button(msg.Button),
	}
	if msg.Pressure != nil {
		c.Pressure = geom.Clamp(*msg.Pressure, 0, 1)
		c.HasPressure = true
	}

	var kind board.EventKind
	switch msg.Type {
	case "down":
		kind = board.Begin
		c.Pressed = true
		s.live[msg.ID] = c
	case "move":
		kind = board.Move
		c.Pressed = msg.Buttons != 0 || c.Kind != state.InputMouse
	case "up":
		kind = board.End
		delete(s.live, msg.ID)
	default:
		kind = board.Cancel
		delete(s.live, msg.ID)
	}
	if _, ok := s.live[msg.ID]; ok && kind == board.Move {
		s.live[msg.ID] = c
	}
	return board.Event{Kind: kind, Contact: c}
}

// drain returns the contacts still down, for cancelling on disconnect.
func (s *source) drain() []state.Contact {
	out := make([]state.Contact, 0, len(s.live))
	for id, c := range s.live {
		out = append(out, c)
		delete(s.live, id)
	}
	return out
}
