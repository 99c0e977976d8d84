package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/do"

	"lichbot/app/config"
)

const updateTimeout = 30 // seconds, long-poll

// Message is one inbound chat message, text or voice.
type Message struct {
	UserID      string
	ChatID      int64
	Text        string
	VoiceFileID string
}

// Listener receives inbound messages from the long-poll loop.
type Listener func(msg Message)

// Client wraps the Telegram Bot API: long-polling for updates, sending
// replies and downloading voice files.
type Client struct {
	cfg      *config.Config
	api      *tgbotapi.BotAPI
	listener Listener
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}

	return &Client{cfg: cfg, api: api}, nil
}

// SetListener must be called before Run.
func (c *Client) SetListener(listener Listener) {
	c.listener = listener
}

// Run long-polls for updates until the context is cancelled.
func (c *Client) Run(ctx context.Context) error {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = updateTimeout

	updates := c.api.GetUpdatesChan(updateCfg)
	defer c.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram updates channel closed")
			}

			if update.Message == nil || c.listener == nil {
				continue
			}

			msg := Message{
				UserID: strconv.FormatInt(update.Message.Chat.ID, 10),
				ChatID: update.Message.Chat.ID,
				Text:   update.Message.Text,
			}
			if update.Message.Voice != nil {
				msg.VoiceFileID = update.Message.Voice.FileID
			}

			c.listener(msg)
		}
	}
}

// SendMessage delivers a reply to a chat.
func (c *Client) SendMessage(chatID int64, text string) error {
	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// SendToUser delivers a message using the string user key the rest of the
// system works with.
func (c *Client) SendToUser(userID, text string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	return c.SendMessage(chatID, text)
}

// DownloadVoice fetches the raw bytes of a voice message.
func (c *Client) DownloadVoice(ctx context.Context, fileID string) ([]byte, error) {
	url, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download voice file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d downloading voice file", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read voice file: %w", err)
	}

	return data, nil
}
