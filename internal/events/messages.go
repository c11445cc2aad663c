package events

import (
	"encoding/json"
	"time"

	"github.com/mmynk/finboard/internal/models"
)

// RoutingKeyRecordCreated is the routing key of RecordCreated messages.
const RoutingKeyRecordCreated = "record.created"

// RecordCreated announces a record written through the dashboard API.
// It carries the record itself so consumers need no store access.
type RecordCreated struct {
	Record    models.Record `json:"record"`
	CreatedBy string        `json:"created_by"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewRecordCreated stamps a message for record created by subject.
func NewRecordCreated(record models.Record, subject string, at time.Time) *RecordCreated {
	return &RecordCreated{
		Record:    record,
		CreatedBy: subject,
		Timestamp: at,
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordCreated) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordCreatedFromJSON decodes a message produced by ToJSON.
func RecordCreatedFromJSON(data []byte) (*RecordCreated, error) {
	var msg RecordCreated
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
