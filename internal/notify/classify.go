package notify

import (
	"fmt"
	"time"

	"github.com/adamdecaf/farecheck/internal/browser"
	"github.com/adamdecaf/farecheck/internal/policy"
)

// Message is one classified notification ready for delivery.
type Message struct {
	Level policy.NotificationLevel
	Title string
	Body  string
}

// Formatting holds display-only settings. They never influence which
// messages are produced or delivered.
type Formatting struct {
	TwentyFourHourFormat bool
}

// Classify maps one job outcome onto a notification level and renders the
// message text. Every outcome maps to exactly one message.
func Classify(identity string, outcome browser.Outcome, format Formatting) Message {
	var msg Message

	switch outcome.Kind {
	case browser.OutcomeSkippedTimeout, browser.OutcomeSkippedRateLimit:
		msg.Level = policy.LevelNotice
	case browser.OutcomeScheduled, browser.OutcomeCheckedIn, browser.OutcomeLowerFareFound:
		msg.Level = policy.LevelInfo
	default:
		// Unknown kinds are treated as errors so they're never silently dropped
		msg.Level = policy.LevelError
	}

	switch outcome.Kind {
	case browser.OutcomeScheduled:
		msg.Title = fmt.Sprintf("Check-in scheduled for %s", identity)
		if !outcome.FlightTime.IsZero() {
			msg.Body = fmt.Sprintf("Flight departs %s", formatTime(outcome.FlightTime, format))
		}

	case browser.OutcomeCheckedIn:
		msg.Title = fmt.Sprintf("Successfully checked in %s", identity)
		msg.Body = outcome.Detail

	case browser.OutcomeLowerFareFound:
		msg.Title = fmt.Sprintf("Lower fare found for %s", identity)
		msg.Body = outcome.PriceDrop
		if outcome.Detail != "" {
			msg.Body = fmt.Sprintf("%s (%s)", outcome.PriceDrop, outcome.Detail)
		}

	case browser.OutcomeSkippedTimeout:
		msg.Title = fmt.Sprintf("Skipped check for %s: timed out", identity)
		msg.Body = outcome.Detail

	case browser.OutcomeSkippedRateLimit:
		msg.Title = fmt.Sprintf("Skipped check for %s: rate limited", identity)
		msg.Body = outcome.Detail

	default:
		msg.Title = fmt.Sprintf("Error monitoring %s", identity)
		msg.Body = outcome.Detail
	}

	return msg
}

// Delivers decides whether an entity configured at the given level receives
// a message. Each configured level has an inclusion set: level 1 receives
// every class, level 2 receives lifecycle and error classes, level 3 only
// errors.
func Delivers(configured policy.NotificationLevel, message policy.NotificationLevel) bool {
	included, ok := inclusionSets[configured]
	if !ok {
		return false
	}
	return included[message]
}

var inclusionSets = map[policy.NotificationLevel]map[policy.NotificationLevel]bool{
	policy.LevelNotice: {
		policy.LevelNotice: true,
		policy.LevelInfo:   true,
		policy.LevelError:  true,
	},
	policy.LevelInfo: {
		policy.LevelInfo:  true,
		policy.LevelError: true,
	},
	policy.LevelError: {
		policy.LevelError: true,
	},
}

func formatTime(when time.Time, format Formatting) string {
	if format.TwentyFourHourFormat {
		return when.Format("Mon, Jan 2 at 15:04")
	}
	return when.Format("Mon, Jan 2 at 3:04 PM")
}
