package config

import (
	"fmt"

	"github.com/adamdecaf/farecheck/internal/policy"
)

// Validated is a fully checked config tree with every layer normalized into
// policy values. Nothing is constructed when any field anywhere is invalid.
type Validated struct {
	Global               policy.Layer
	BrowserPath          string
	TwentyFourHourFormat bool

	Accounts     []ValidatedAccount
	Reservations []ValidatedReservation
}

type ValidatedAccount struct {
	Username string
	Password string

	Layer policy.Layer
}

type ValidatedReservation struct {
	ConfirmationNumber string
	FirstName          string
	LastName           string

	Layer policy.Layer
}

// Validate normalizes every layer of the tree, fail-fast. The first invalid
// value rejects the whole tree so a load never partially applies.
func Validate(tree *Tree) (*Validated, error) {
	if tree == nil {
		return nil, fmt.Errorf("no config tree")
	}

	out := &Validated{}

	global, err := normalizeLayer(Overrides{
		CheckFares:        tree.CheckFares,
		NotificationURLs:  tree.NotificationURLs,
		NotificationLevel: tree.NotificationLevel,
		RetrievalInterval: tree.RetrievalInterval,
	})
	if err != nil {
		return nil, err
	}
	out.Global = global

	if tree.BrowserPath != nil {
		path, ok := tree.BrowserPath.(string)
		if !ok {
			return nil, &policy.ValidationError{
				Field:  "browser_path",
				Kind:   policy.InvalidType,
				Reason: "must be a string",
			}
		}
		out.BrowserPath = path
	}

	if tree.Notification24HourTime != nil {
		use24, ok := tree.Notification24HourTime.(bool)
		if !ok {
			return nil, &policy.ValidationError{
				Field:  "notification_24_hour_time",
				Kind:   policy.InvalidType,
				Reason: "must be a boolean",
			}
		}
		out.TwentyFourHourFormat = use24
	}

	seenAccounts := make(map[string]bool)
	for idx, account := range tree.Accounts {
		if account.Username == "" {
			return nil, missingField(fmt.Sprintf("accounts[%d].username", idx))
		}
		if account.Password == "" {
			return nil, missingField(fmt.Sprintf("accounts[%d].password", idx))
		}
		if seenAccounts[account.Username] {
			return nil, &policy.ValidationError{
				Field:  "accounts",
				Kind:   policy.DuplicateIdentity,
				Reason: fmt.Sprintf("username %q appears more than once", account.Username),
			}
		}
		seenAccounts[account.Username] = true

		layer, err := normalizeLayer(account.Overrides)
		if err != nil {
			return nil, fmt.Errorf("accounts[%d]: %w", idx, err)
		}

		out.Accounts = append(out.Accounts, ValidatedAccount{
			Username: account.Username,
			Password: account.Password,
			Layer:    layer,
		})
	}

	seenReservations := make(map[string]bool)
	for idx, reservation := range tree.Reservations {
		if reservation.ConfirmationNumber == "" {
			return nil, missingField(fmt.Sprintf("reservations[%d].confirmationNumber", idx))
		}
		if reservation.FirstName == "" {
			return nil, missingField(fmt.Sprintf("reservations[%d].firstName", idx))
		}
		if reservation.LastName == "" {
			return nil, missingField(fmt.Sprintf("reservations[%d].lastName", idx))
		}

		key := reservation.ConfirmationNumber + "+" + reservation.LastName
		if seenReservations[key] {
			return nil, &policy.ValidationError{
				Field:  "reservations",
				Kind:   policy.DuplicateIdentity,
				Reason: fmt.Sprintf("reservation %q appears more than once", key),
			}
		}
		seenReservations[key] = true

		layer, err := normalizeLayer(reservation.Overrides)
		if err != nil {
			return nil, fmt.Errorf("reservations[%d]: %w", idx, err)
		}

		out.Reservations = append(out.Reservations, ValidatedReservation{
			ConfirmationNumber: reservation.ConfirmationNumber,
			FirstName:          reservation.FirstName,
			LastName:           reservation.LastName,
			Layer:              layer,
		})
	}

	return out, nil
}

func normalizeLayer(o Overrides) (policy.Layer, error) {
	var layer policy.Layer

	if o.CheckFares != nil {
		mode, err := policy.NormalizeFareCheckMode(o.CheckFares)
		if err != nil {
			return policy.Layer{}, err
		}
		layer.CheckFares = &mode
	}

	if o.NotificationLevel != nil {
		level, err := policy.NormalizeNotificationLevel(o.NotificationLevel)
		if err != nil {
			return policy.Layer{}, err
		}
		layer.NotificationLevel = &level
	}

	if o.RetrievalInterval != nil {
		interval, err := policy.NormalizeRetrievalInterval(o.RetrievalInterval)
		if err != nil {
			return policy.Layer{}, err
		}
		layer.RetrievalInterval = &interval
	}

	if o.NotificationURLs != nil {
		urls, err := policy.NormalizeNotificationURLs(o.NotificationURLs)
		if err != nil {
			return policy.Layer{}, err
		}
		if urls == nil {
			urls = []string{}
		}
		layer.NotificationURLs = urls
	}

	if o.HealthchecksURL != nil {
		url, ok := o.HealthchecksURL.(string)
		if !ok {
			return policy.Layer{}, &policy.ValidationError{
				Field:  "healthchecks_url",
				Kind:   policy.InvalidType,
				Reason: "must be a string",
			}
		}
		layer.HealthchecksURL = &url
	}

	return layer, nil
}

func missingField(field string) *policy.ValidationError {
	return &policy.ValidationError{
		Field:  field,
		Kind:   policy.MissingRequiredField,
		Reason: "required and must be a non-empty string",
	}
}
