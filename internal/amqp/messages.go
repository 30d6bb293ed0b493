package amqp

import (
	"encoding/json"
	"time"
)

// PeriodDirtyMessage tells the worker that a period's inputs changed and
// its settlement must be recomputed. It carries only the period key and
// the mutation that caused it; the worker re-reads everything else from
// the record store.
type PeriodDirtyMessage struct {
	PeriodKey string    `json:"period_key"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPeriodDirtyMessage creates a dirty notification for a period.
func NewPeriodDirtyMessage(periodKey, reason string) *PeriodDirtyMessage {
	return &PeriodDirtyMessage{
		PeriodKey: periodKey,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PeriodDirtyMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PeriodDirtyMessageFromJSON creates a message from JSON bytes
func PeriodDirtyMessageFromJSON(data []byte) (*PeriodDirtyMessage, error) {
	var msg PeriodDirtyMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
