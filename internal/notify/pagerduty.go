package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/adamdecaf/farecheck/internal/policy"

	"github.com/PagerDuty/go-pagerduty"
)

// pagerdutySender handles pagerduty://ROUTING_KEY destinations through the
// Events V2 API.
type pagerdutySender struct{}

func (p *pagerdutySender) send(ctx context.Context, msg Message, target *url.URL) error {
	routingKey := target.Host
	if routingKey == "" {
		return errors.New("pagerduty urls need pagerduty://routingKey")
	}

	event := pagerduty.V2Event{
		RoutingKey: routingKey,
		Action:     "trigger",
		Payload: &pagerduty.V2Payload{
			Summary:   msg.Title,
			Source:    "farecheck",
			Severity:  severityFor(msg.Level),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Details: map[string]interface{}{
				"body": msg.Body,
			},
		},
	}

	resp, err := pagerduty.ManageEventWithContext(ctx, event)
	if err != nil {
		return fmt.Errorf("triggering event: %w", err)
	}
	if !strings.EqualFold(resp.Status, "success") {
		return fmt.Errorf("unexpected status creating event: %#v", resp)
	}
	return nil
}

func severityFor(level policy.NotificationLevel) string {
	switch level {
	case policy.LevelError:
		return "error"
	case policy.LevelNotice:
		return "warning"
	default:
		return "info"
	}
}
