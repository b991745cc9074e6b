// Package email delivers outbound messages such as shared weekly reviews.
package email

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("no email recipients configured")

// Message is one outbound email.
type Message struct {
	To      []string
	From    string // overrides the sender default, e.g. "EagleKidz <reviews@example.org>"
	ReplyTo string
	Subject string
	HTML    string
}

// Receipt is the provider's acknowledgement.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
