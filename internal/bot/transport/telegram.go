package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram adapts the Bot API long-poll to the Transport interface and the
// normalized Event shape.
type Telegram struct {
	api        *tgbotapi.BotAPI
	httpClient *http.Client
}

func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init error: %w", err)
	}
	return &Telegram{
		api:        api,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Events starts long polling and returns a channel of normalized events.
// The channel closes when ctx is cancelled.
func (t *Telegram) Events(ctx context.Context) <-chan Event {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	updates := t.api.GetUpdatesChan(cfg)
	out := make(chan Event)

	go func() {
		defer close(out)
		defer t.api.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				ev, ok := mapUpdate(upd)
				if !ok {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (t *Telegram) SendMessage(ctx context.Context, userID int64, text string) error {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send error: %w", err)
	}
	return nil
}

// DownloadAttachment resolves the file path for fileID and fetches the bytes
// into memory.
func (t *Telegram) DownloadAttachment(ctx context.Context, fileID string) ([]byte, error) {
	file, err := t.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("telegram get file error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(t.api.Token), nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram download error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram download error: unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// mapUpdate converts a raw update into an Event. Updates without a message
// (edits, polls, channel posts) are dropped here rather than in the engine.
func mapUpdate(upd tgbotapi.Update) (Event, bool) {
	msg := upd.Message
	if msg == nil || msg.From == nil {
		return Event{}, false
	}

	ev := Event{
		Sender: Sender{
			ID:        msg.From.ID,
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
			Lang:      msg.From.LanguageCode,
		},
		OccurredAt: time.Unix(int64(msg.Date), 0).UTC(),
		Private:    msg.Chat != nil && msg.Chat.IsPrivate(),
	}

	switch {
	case msg.IsCommand():
		ev.Kind = KindCommand
		ev.Command = strings.ToLower(msg.Command())
		ev.Text = msg.Text
	case len(msg.Photo) > 0:
		ev.Kind = KindPhoto
		for _, p := range msg.Photo {
			ev.Photos = append(ev.Photos, PhotoSize{
				Width:        p.Width,
				Height:       p.Height,
				FileID:       p.FileID,
				FileUniqueID: p.FileUniqueID,
			})
		}
	case msg.Text != "":
		ev.Kind = KindText
		ev.Text = msg.Text
	default:
		ev.Kind = KindOther
	}

	return ev, true
}
