package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/slack-go/slack"
)

// slackSender handles slack://API_TOKEN@CHANNEL_ID destinations.
type slackSender struct{}

func (s *slackSender) send(ctx context.Context, msg Message, target *url.URL) error {
	token := target.User.Username()
	channelID := target.Host

	if token == "" || channelID == "" {
		return errors.New("slack urls need slack://token@channelID")
	}

	text := msg.Title
	if msg.Body != "" {
		text += "\n" + msg.Body
	}

	client := slack.New(token)
	_, _, err := client.PostMessageContext(ctx, channelID,
		slack.MsgOptionUsername("farecheck"),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return fmt.Errorf("posting to %s: %w", channelID, err)
	}
	return nil
}
