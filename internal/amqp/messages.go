package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RateRefreshMessage asks the worker to fetch the exchange rate for
// one currency code. Only the code travels on the wire; the worker
// reads and writes the stored currency itself.
type RateRefreshMessage struct {
	MessageID string    `json:"message_id"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRateRefreshMessage(code string) *RateRefreshMessage {
	return &RateRefreshMessage{
		MessageID: uuid.NewString(),
		Code:      code,
		Timestamp: time.Now(),
	}
}

func (m *RateRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RateRefreshMessageFromJSON(data []byte) (*RateRefreshMessage, error) {
	var msg RateRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MirrorMessage asks the worker to append one stored transaction to
// the configured sheet. The worker fetches the full row by ID.
type MirrorMessage struct {
	MessageID     string    `json:"message_id"`
	TransactionID int64     `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewMirrorMessage(transactionID int64) *MirrorMessage {
	return &MirrorMessage{
		MessageID:     uuid.NewString(),
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

func (m *MirrorMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MirrorMessageFromJSON(data []byte) (*MirrorMessage, error) {
	var msg MirrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
