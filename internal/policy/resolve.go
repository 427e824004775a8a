package policy

import (
	"cmp"
	"slices"
)

// Layer is one source of configuration. Every field is optional, a nil field
// means the layer doesn't override that setting.
type Layer struct {
	CheckFares        *FareCheckMode
	NotificationURLs  []string
	NotificationLevel *NotificationLevel
	RetrievalInterval *RetrievalInterval
	HealthchecksURL   *string
}

// Effective is the fully resolved, default-filled policy driving one
// monitored entity. It is produced only by Resolve and never mutated.
type Effective struct {
	CheckFares        FareCheckMode
	NotificationURLs  []string
	NotificationLevel NotificationLevel
	RetrievalInterval RetrievalInterval

	// HealthchecksURL has no global fallback. Empty means no pings are sent.
	HealthchecksURL string

	// Display/pass-through settings carried from the global config.
	BrowserPath          string
	TwentyFourHourFormat bool
}

// Resolve merges the global layer with an account or reservation layer.
// For each field the owner's value wins when present, then the global's,
// then the documented default. Resolution is pure: identical inputs always
// produce an identical Effective.
func Resolve(global Layer, owner Layer) Effective {
	var out Effective

	out.CheckFares = DefaultFareCheckMode
	if mode := cmp.Or(owner.CheckFares, global.CheckFares); mode != nil {
		out.CheckFares = *mode
	}

	out.NotificationLevel = DefaultNotificationLevel
	if level := cmp.Or(owner.NotificationLevel, global.NotificationLevel); level != nil {
		out.NotificationLevel = *level
	}

	out.RetrievalInterval = DefaultRetrievalInterval
	if interval := cmp.Or(owner.RetrievalInterval, global.RetrievalInterval); interval != nil {
		out.RetrievalInterval = *interval
	}

	urls := owner.NotificationURLs
	if urls == nil {
		urls = global.NotificationURLs
	}
	out.NotificationURLs = slices.Clone(urls)

	// healthchecks_url never falls back to the global layer
	if owner.HealthchecksURL != nil {
		out.HealthchecksURL = *owner.HealthchecksURL
	}

	return out
}
