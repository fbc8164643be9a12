package amqp

import (
	"encoding/json"
	"time"
)

// Ledger operations carried by LedgerChangedMessage.
const (
	OpInitialize   = "initialize"
	OpSaveRecord   = "save_record"
	OpDeleteRecord = "delete_record"
	OpImport       = "import"
	OpReset        = "reset"
	OpGoals        = "goals"
)

// LedgerChangedMessage announces that the stored ledger changed. Records is
// the number of monthly records the operation touched. The message carries no
// ledger data; consumers read the current snapshot themselves.
type LedgerChangedMessage struct {
	Operation string    `json:"operation"`
	Records   int       `json:"records"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(operation string, records int) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Operation: operation,
		Records:   records,
		Timestamp: time.Now(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
