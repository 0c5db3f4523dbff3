// Package transport defines the chat-transport boundary: the normalized
// inbound event shape the engine consumes, and the minimal interface the
// engine needs to reply and to pull attachment bytes. The Telegram adapter
// lives in telegram.go; tests substitute fakes.
package transport

import (
	"context"
	"time"
)

// Kind discriminates the content of an inbound event.
type Kind int

const (
	KindCommand Kind = iota
	KindText
	KindPhoto
	// KindOther covers shapes the engine never handles (stickers, polls,
	// channel posts). The dispatcher drops them silently.
	KindOther
)

// Sender identifies the user behind an event.
type Sender struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Lang      string
}

// PhotoSize is one resolution variant of a submitted photo. FileID is the
// reusable download reference; FileUniqueID is stable and globally unique,
// which makes it suitable for derived storage keys.
type PhotoSize struct {
	Width        int
	Height       int
	FileID       string
	FileUniqueID string
}

// Event is a normalized inbound message.
type Event struct {
	Sender     Sender
	OccurredAt time.Time
	Kind       Kind
	Command    string // without the leading slash, set when Kind == KindCommand
	Text       string
	Photos     []PhotoSize // set when Kind == KindPhoto
	Private    bool        // true for one-on-one chats
}

// LargestPhoto returns the variant with the greatest width, or false when
// the event carries no photos. Ties keep the earliest variant, matching the
// order the transport delivered them in.
func (e *Event) LargestPhoto() (PhotoSize, bool) {
	if len(e.Photos) == 0 {
		return PhotoSize{}, false
	}
	largest := e.Photos[0]
	for _, p := range e.Photos[1:] {
		if p.Width > largest.Width {
			largest = p
		}
	}
	return largest, true
}

// Transport is the outbound half of the chat boundary.
type Transport interface {
	// SendMessage delivers a plain-text reply to the user.
	SendMessage(ctx context.Context, userID int64, text string) error

	// DownloadAttachment fetches the attachment bytes for a file reference
	// into memory.
	DownloadAttachment(ctx context.Context, fileID string) ([]byte, error)
}
