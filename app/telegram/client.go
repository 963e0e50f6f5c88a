package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
)

// DeliveryError reports a message that was not confirmed by the Bot API.
// The bot token is never part of the message.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("telegram delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// redactedError hides the bot token, which the Bot API carries in the
// request path and therefore in transport errors.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string {
	return e.msg
}

func (e *redactedError) Unwrap() error {
	return e.err
}

type Client struct {
	api    *bot.Bot
	token  string
	chatID string
}

func NewClient(baseURL, token, chatID string, timeout time.Duration) (*Client, error) {
	api, err := bot.New(token,
		bot.WithServerURL(strings.TrimRight(baseURL, "/")),
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(timeout, &http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", redact(err, token))
	}

	return &Client{
		api:    api,
		token:  token,
		chatID: chatID,
	}, nil
}

// Send posts text to the configured chat and returns the message id.
func (c *Client) Send(ctx context.Context, text string) (string, error) {
	msg, err := c.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: c.chatID,
		Text:   text,
	})
	if err != nil {
		return "", &DeliveryError{Err: redact(err, c.token)}
	}
	if msg == nil || msg.ID == 0 {
		return "", &DeliveryError{Err: errors.New("response has no message id")}
	}

	return strconv.Itoa(msg.ID), nil
}

func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<token>"), err: err}
}
