// Package models defines the entities persisted by the wallet store.
package models

// MessageType tags the direction of a private message.
type MessageType string

const (
	MessageSent     MessageType = "sent"
	MessageReceived MessageType = "received"
)

// Message is one entry of a private conversation. Timestamp is the dedup
// key: two messages with the same timestamp collapse to one.
type Message struct {
	// Conversation is the peer's address.
	Conversation string      `json:"conversation"`
	Type         MessageType `json:"type"`
	Body         string      `json:"body"`
	// Timestamp must sort lexically in chronological order.
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

// OutgoingMessage is the sender's own echo of a message it just sent.
type OutgoingMessage struct {
	To        string `json:"to"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
}

// BoardMessage is a public board post. Hash is the dedup key.
type BoardMessage struct {
	Body      string `json:"body"`
	Address   string `json:"address"`
	Signature string `json:"signature"`
	Board     string `json:"board"`
	Timestamp string `json:"timestamp"`
	Nickname  string `json:"nickname"`
	Reply     string `json:"reply"`
	Hash      string `json:"hash"`
	Sent      bool   `json:"sent"`
	Read      bool   `json:"read"`
}

// Payee is an address book entry. The LastMessage fields are not stored:
// they are filled at read time from the newest message of the payee's
// conversation.
type Payee struct {
	Nickname  string `json:"nickname"`
	Address   string `json:"address"`
	PaymentID string `json:"paymentId"`

	LastMessage          string `json:"lastMessage"`
	LastMessageTimestamp string `json:"lastMessageTimestamp"`
	// Read is true when there is no message or the newest one is read.
	Read bool `json:"read"`
}

// TransactionDetail maps a transaction hash to what the user attached to it.
type TransactionDetail struct {
	Hash      string `json:"hash"`
	Memo      string `json:"memo"`
	Address   string `json:"address"`
	PayeeName string `json:"payeeName"`
}

// UnreadCounts summarises unread journal rows.
type UnreadCounts struct {
	Boards   int `json:"boards"`
	Messages int `json:"messages"`
}
