package notify

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/adamdecaf/farecheck/internal/policy"

	"github.com/moov-io/base/log"
)

// sender delivers one message to one destination URL.
type sender interface {
	send(ctx context.Context, msg Message, target *url.URL) error
}

// Notifier fans one classified message out to an entity's destination URLs.
// Delivery is fire-and-forget: transport failures are logged, never escalated
// back into the scheduling core.
type Notifier struct {
	logger  log.Logger
	senders map[string]sender
}

func NewNotifier(logger log.Logger) *Notifier {
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	webhook := &webhookSender{client: httpClient}

	return &Notifier{
		logger: logger,
		senders: map[string]sender{
			"slack":     &slackSender{},
			"pagerduty": &pagerdutySender{},
			"telegram":  &telegramSender{},
			"http":      webhook,
			"https":     webhook,
		},
	}
}

// Deliver makes exactly one delivery decision for the message and sends it
// to each destination when the entity's configured level includes the
// message's class. The decision is logged either way.
func (n *Notifier) Deliver(ctx context.Context, identity string, configured policy.NotificationLevel, msg Message, urls []string) {
	logger := n.logger.With(log.Fields{
		"entity":        log.String(identity),
		"message_level": log.Int(int(msg.Level)),
	})

	if !Delivers(configured, msg.Level) {
		logger.Logf("suppressed notification at configured level %d: %s", configured, msg.Title)
		return
	}
	if len(urls) == 0 {
		logger.Logf("no notification destinations configured: %s", msg.Title)
		return
	}

	logger.Logf("delivering notification to %d destinations: %s", len(urls), msg.Title)

	for _, raw := range urls {
		target, err := url.Parse(raw)
		if err != nil {
			logger.Warn().Logf("skipping unparseable notification url: %v", err)
			continue
		}

		s, ok := n.senders[target.Scheme]
		if !ok {
			logger.Warn().Logf("skipping notification url with unknown scheme %q", target.Scheme)
			continue
		}

		if err := s.send(ctx, msg, target); err != nil {
			logger.Warn().Logf("sending %s notification failed: %v", target.Scheme, err)
		}
	}
}
