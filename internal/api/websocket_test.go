package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanUpdate(taskID, status string) map[string]interface{} {
	return map[string]interface{}{
		"task_id":  taskID,
		"status":   status,
		"progress": 0,
	}
}

func TestWSHubTracksRunningScans(t *testing.T) {
	hub := NewWSHub()

	hub.Broadcast("task:update", scanUpdate("detect:a", "running"))
	hub.Broadcast("task:update", scanUpdate("detect:b", "running"))

	hub.scansMu.RLock()
	assert.Len(t, hub.activeScans, 2)
	hub.scansMu.RUnlock()

	hub.Broadcast("task:update", scanUpdate("detect:a", "complete"))
	hub.Broadcast("task:update", scanUpdate("detect:b", "failed"))

	hub.scansMu.RLock()
	assert.Empty(t, hub.activeScans)
	hub.scansMu.RUnlock()
}

func TestWSHubIgnoresNonTaskEvents(t *testing.T) {
	hub := NewWSHub()

	hub.Broadcast("video:deleted", map[string]interface{}{"task_id": "detect:a", "status": "running"})

	hub.scansMu.RLock()
	assert.Empty(t, hub.activeScans)
	hub.scansMu.RUnlock()
}

func TestWSHubReplaysActiveScansToNewClient(t *testing.T) {
	hub := NewWSHub()
	hub.Broadcast("task:update", scanUpdate("detect:a", "running"))

	client := &WSClient{send: make(chan []byte, 4)}
	hub.addClient(client)
	hub.sendActiveScans(client)

	require.Len(t, client.send, 1)
	var msg WSMessage
	require.NoError(t, json.Unmarshal(<-client.send, &msg))
	assert.Equal(t, "task:update", msg.Event)

	hub.removeClient(client)
	assert.Zero(t, hub.ClientCount())
}

func TestWSHubDropsMessagesForSlowClients(t *testing.T) {
	hub := NewWSHub()
	client := &WSClient{send: make(chan []byte, 1)}
	hub.addClient(client)

	hub.Broadcast("task:update", scanUpdate("detect:a", "running"))
	hub.Broadcast("task:update", scanUpdate("detect:a", "running"))

	// Second message is dropped rather than blocking the broadcaster.
	assert.Len(t, client.send, 1)
}
