package domain

import "time"

// Message is a direct message between two accounts
type Message struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

// Participant is the contact card embedded in message listings
type Participant struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// MessageDetail is a message with both parties expanded
type MessageDetail struct {
	ID       int64       `json:"id"`
	FromUser Participant `json:"from_user"`
	ToUser   Participant `json:"to_user"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
}

// OutgoingMessage is a row of a sender's outbox
type OutgoingMessage struct {
	ID     int64       `json:"id"`
	ToUser Participant `json:"to_user"`
	Body   string      `json:"body"`
	SentAt time.Time   `json:"sent_at"`
	ReadAt *time.Time  `json:"read_at"`
}

// IncomingMessage is a row of a recipient's inbox
type IncomingMessage struct {
	ID       int64       `json:"id"`
	FromUser Participant `json:"from_user"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
}

// ReadReceipt is returned after marking a message read
type ReadReceipt struct {
	ID     int64     `json:"id"`
	ReadAt time.Time `json:"read_at"`
}

// IsParticipant reports whether username sent or received the message
func (m *MessageDetail) IsParticipant(username string) bool {
	return m.FromUser.Username == username || m.ToUser.Username == username
}
