package net

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"InkBoard/internal/board"
	"InkBoard/internal/config"
	"InkBoard/internal/state"
	"InkBoard/internal/tool"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	board *board.Board
	srv   *Server
	http  *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b, err := board.New(config.Default())
	require.NoError(t, err)
	require.NoError(t, b.ActivateTool(tool.Pencil, tool.Options{}))

	srv := NewServer(b)
	b.OnRedraw(srv.Notify)
	ctx, cancel := context.WithCancel(context.Background())
	go srv.Run(ctx)

	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		cancel()
		hs.Close()
	})
	return &harness{board: b, srv: srv, http: hs}
}

func (h *harness) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.http.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type docView struct {
	Version int          `json:"version"`
	Items   []state.Item `json:"items"`
}

func readDocument(t *testing.T, conn *websocket.Conn) (DocumentMessage, docView) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg DocumentMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "document", msg.Type)
	var doc docView
	require.NoError(t, json.Unmarshal(msg.Document, &doc))
	return msg, doc
}

// waitItems reads viewer updates until the document holds n items.
func waitItems(t *testing.T, conn *websocket.Conn, n int) docView {
	t.Helper()
	for {
		_, doc := readDocument(t, conn)
		if len(doc.Items) == n {
			return doc
		}
	}
}

func pointer(typ string, id int64, x, y float64) Message {
	return Message{Type: typ, ID: id, X: x, Y: y, PointerType: "touch"}
}

func TestViewerReceivesInitialDocument(t *testing.T) {
	h := newHarness(t)
	viewer := h.dial(t, "/view")

	_, doc := readDocument(t, viewer)
	assert.Equal(t, 1, doc.Version)
	assert.Empty(t, doc.Items)
	assert.Eventually(t, func() bool { return h.srv.Viewers() == 1 }, time.Second, 10*time.Millisecond)
}

func TestInputStrokeReachesViewer(t *testing.T) {
	h := newHarness(t)
	viewer := h.dial(t, "/view")
	readDocument(t, viewer)

	input := h.dial(t, "/input")
	for _, m := range []Message{
		pointer("down", 1, 10, 10),
		pointer("move", 1, 30, 12),
		pointer("move", 1, 60, 30),
		pointer("up", 1, 60, 30),
	} {
		require.NoError(t, input.WriteJSON(m))
	}

	doc := waitItems(t, viewer, 1)
	assert.Equal(t, state.KindOutline, doc.Items[0].Kind)
	assert.Eventually(t, func() bool { return h.board.History().Len() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, input.WriteJSON(Message{Type: "undo"}))
	waitItems(t, viewer, 0)
}

func TestInputRejectsUnknownMessages(t *testing.T) {
	h := newHarness(t)
	input := h.dial(t, "/input")

	require.NoError(t, input.WriteJSON(Message{Type: "teleport"}))
	input.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply Reply
	require.NoError(t, input.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Error, "teleport")

	require.NoError(t, input.WriteJSON(Message{Type: "tool", Tool: "crayon"}))
	require.NoError(t, input.ReadJSON(&reply))
	assert.Contains(t, reply.Error, "crayon")

	require.NoError(t, input.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, input.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)
}

func TestInputSwitchesToolAndStyle(t *testing.T) {
	h := newHarness(t)
	input := h.dial(t, "/input")

	require.NoError(t, input.WriteJSON(Message{Type: "tool", Tool: "shape", Shape: "ellipse"}))
	require.NoError(t, input.WriteJSON(Message{Type: "style", Color: "red", Width: 4}))
	assert.Eventually(t, func() bool {
		return h.board.ActiveTool() == tool.Shape && h.board.Paint() == tool.Paint{Color: "red", Width: 4}
	}, time.Second, 10*time.Millisecond)
}

func TestDisconnectCancelsLiveContacts(t *testing.T) {
	h := newHarness(t)
	input := h.dial(t, "/input")

	require.NoError(t, input.WriteJSON(pointer("down", 7, 10, 10)))
	require.NoError(t, input.WriteJSON(pointer("move", 7, 40, 40)))
	assert.Eventually(t, func() bool { return h.board.Document().Len() == 1 }, time.Second, 10*time.Millisecond)

	input.Close()
	assert.Eventually(t, func() bool { return h.board.Document().Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, h.board.History().Len())
}

func TestStateEndpoint(t *testing.T) {
	h := newHarness(t)
	resp, err := http.Get(h.http.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var msg DocumentMessage
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, "document", msg.Type)
}

func TestSourceScopesContactIDs(t *testing.T) {
	a, b := newSource(1), newSource(2)
	ea := a.event(pointer("down", 1, 0, 0))
	eb := b.event(pointer("down", 1, 0, 0))
	assert.NotEqual(t, ea.Contact.ID, eb.Contact.ID)
	assert.Equal(t, board.Begin, ea.Kind)
	assert.True(t, ea.Contact.Pressed)

	hover := a.event(Message{Type: "move", ID: 9, PointerType: "mouse"})
	assert.False(t, hover.Contact.Pressed)
	assert.Len(t, a.drain(), 1)
	assert.Empty(t, a.drain())
}
