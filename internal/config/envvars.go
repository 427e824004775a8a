package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables overlay the configuration file before validation so
// container deployments can run without writing one.
const (
	envCheckFares         = "FARECHECK_CHECK_FARES"
	envBrowserPath        = "FARECHECK_BROWSER_PATH"
	envRetrievalInterval  = "FARECHECK_RETRIEVAL_INTERVAL"
	envNotificationLevel  = "FARECHECK_NOTIFICATION_LEVEL"
	envNotificationURL    = "FARECHECK_NOTIFICATION_URL"
	envNotification24Hour = "FARECHECK_NOTIFICATION_24_HOUR_TIME"
	envUsername           = "FARECHECK_USERNAME"
	envPassword           = "FARECHECK_PASSWORD"
	envConfirmationNumber = "FARECHECK_CONFIRMATION_NUMBER"
	envFirstName          = "FARECHECK_FIRST_NAME"
	envLastName           = "FARECHECK_LAST_NAME"
	envHealthchecksURL    = "FARECHECK_HEALTHCHECKS_URL"
)

// ApplyEnv merges FARECHECK_* environment variables into the tree. Values set
// through the environment go through the same validation as file values.
func (t *Tree) ApplyEnv() error {
	if v := os.Getenv(envCheckFares); v != "" {
		// check_fares can be a boolean or a specific string
		if parsed, err := strconv.ParseBool(v); err == nil {
			t.CheckFares = parsed
		} else {
			t.CheckFares = v
		}
	}

	if v := os.Getenv(envBrowserPath); v != "" {
		t.BrowserPath = v
	}

	if v := os.Getenv(envRetrievalInterval); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("'%s' must be an integer: %v", envRetrievalInterval, err)
		}
		t.RetrievalInterval = n
	}

	if v := os.Getenv(envNotificationLevel); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("'%s' must be an integer: %v", envNotificationLevel, err)
		}
		t.NotificationLevel = n
	}

	if v := os.Getenv(envNotification24Hour); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("'%s' must be a boolean: %v", envNotification24Hour, err)
		}
		t.Notification24HourTime = parsed
	}

	if v := os.Getenv(envNotificationURL); v != "" {
		urls, err := appendURL(t.NotificationURLs, v)
		if err != nil {
			return err
		}
		t.NotificationURLs = urls
	}

	username, password := os.Getenv(envUsername), os.Getenv(envPassword)
	if username != "" && password != "" {
		account := Account{Username: username, Password: password}
		if v := os.Getenv(envHealthchecksURL); v != "" {
			account.HealthchecksURL = v
		}
		t.Accounts = append(t.Accounts, account)
	}

	confirmation := os.Getenv(envConfirmationNumber)
	firstName, lastName := os.Getenv(envFirstName), os.Getenv(envLastName)
	if confirmation != "" && firstName != "" && lastName != "" {
		t.Reservations = append(t.Reservations, Reservation{
			ConfirmationNumber: confirmation,
			FirstName:          firstName,
			LastName:           lastName,
		})
	}

	return nil
}

func appendURL(existing any, url string) (any, error) {
	switch v := existing.(type) {
	case nil:
		return []any{url}, nil

	case string:
		if v == url {
			return v, nil
		}
		return []any{v, url}, nil

	case []any:
		for _, elm := range v {
			if elm == url {
				return v, nil
			}
		}
		return append(v, url), nil
	}
	return nil, fmt.Errorf("'notification_urls' must be a string or a list")
}
