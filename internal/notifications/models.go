package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeBookingConfirmed Type = "booking_confirmed"
	TypeUnsavedReminder  Type = "unsaved_reminder"
	TypeOTP              Type = "otp"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeBookingConfirmed, TypeUnsavedReminder, TypeOTP:
		return true
	}
	return false
}

// Notification is the message carried by every producer. Data holds the
// template fields of its Type.
type Notification struct {
	ID             uuid.UUID         `json:"id"`
	Type           Type              `json:"type"`
	RecipientEmail string            `json:"recipient_email"`
	RecipientName  string            `json:"recipient_name,omitempty"`
	Data           map[string]string `json:"data"`
	CreatedAt      time.Time         `json:"created_at"`
}

func New(t Type, email, name string, data map[string]string) *Notification {
	if data == nil {
		data = map[string]string{}
	}
	return &Notification{
		ID:             uuid.New(),
		Type:           t,
		RecipientEmail: email,
		RecipientName:  name,
		Data:           data,
		CreatedAt:      time.Now().UTC(),
	}
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// Decode parses and checks a message body.
func Decode(body []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	if !n.Type.IsValid() {
		return nil, fmt.Errorf("unknown notification type %q", n.Type)
	}
	if n.RecipientEmail == "" {
		return nil, fmt.Errorf("notification %s has no recipient", n.ID)
	}
	return &n, nil
}

// PartitionKey keeps messages for one recipient on one partition.
func (n *Notification) PartitionKey() string {
	return n.RecipientEmail
}
