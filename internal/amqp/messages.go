package amqp

import (
	"encoding/json"
	"time"
)

// WeekSyncMessage asks the export worker to re-publish one week's summary.
// It carries only identifiers; the worker fetches the week from storage so
// the export always reflects the latest state, not the state at publish
// time.
type WeekSyncMessage struct {
	WeekID    string    `json:"week_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewWeekSyncMessage(weekID, userID string) *WeekSyncMessage {
	return &WeekSyncMessage{
		WeekID:    weekID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *WeekSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// WeekSyncMessageFromJSON creates a message from JSON bytes
func WeekSyncMessageFromJSON(data []byte) (*WeekSyncMessage, error) {
	var msg WeekSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
