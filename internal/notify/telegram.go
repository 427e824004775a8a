package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	tgbot "github.com/go-telegram/bot"
)

// telegramSender handles telegram://BOT_TOKEN@CHAT_ID destinations. Bot
// tokens contain a colon, so url parsing splits them into user:password.
type telegramSender struct{}

func (t *telegramSender) send(ctx context.Context, msg Message, target *url.URL) error {
	token := target.User.Username()
	if password, ok := target.User.Password(); ok {
		token = token + ":" + password
	}
	chatID := target.Host

	if token == "" || chatID == "" {
		return errors.New("telegram urls need telegram://botToken@chatID")
	}

	client, err := tgbot.New(token, tgbot.WithSkipGetMe())
	if err != nil {
		return fmt.Errorf("init telegram bot: %w", err)
	}

	text := msg.Title
	if msg.Body != "" {
		text += "\n" + msg.Body
	}

	_, err = client.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
