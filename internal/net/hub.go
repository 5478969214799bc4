package net

import (
	"sync"
	"time"

	"InkBoard/internal/logging"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// ConnectionManager tracks the viewer sockets and fans document snapshots out
// to them.
type ConnectionManager struct {
	connections map[*websocket.Conn]bool
	mu          sync.Mutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[*websocket.Conn]bool),
	}
}

func (cm *ConnectionManager) Add(conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[conn] = true
	logging.For("net").Info("viewer added", "remote", conn.RemoteAddr().String())
}

func (cm *ConnectionManager) Remove(conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if !cm.connections[conn] {
		return
	}
	delete(cm.connections, conn)
	conn.Close()
	logging.For("net").Info("viewer removed", "remote", conn.RemoteAddr().String())
}

func (cm *ConnectionManager) Len() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return len(cm.connections)
}

// Send writes data to one viewer.
func (cm *ConnectionManager) Send(conn *websocket.Conn, data []byte) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Broadcast writes data to every viewer except exclude. Viewers that fail are
// dropped.
func (cm *ConnectionManager) Broadcast(data []byte, exclude *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for conn := range cm.connections {
		if conn == exclude {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logging.For("net").Warn("send failed", "remote", conn.RemoteAddr().String(), "err", err)
			delete(cm.connections, conn)
			conn.Close()
		}
	}
}

// CloseAll disconnects every viewer.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for conn := range cm.connections {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
		conn.Close()
		delete(cm.connections, conn)
	}
}
