// Licensed to Adam Shannon under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. The Moov Authors licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the JSON configuration file at path. Unknown fields anywhere in
// the document reject the load. Values are kept in their raw surface form
// here, Validate normalizes them into policy values.
func Load(path string) (*Tree, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("no path specified")
	}

	fullpath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("path %s expansion failed: %v", path, err)
	}

	var tree Tree

	fd, err := os.Open(fullpath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	reader := viper.New()
	reader.SetConfigType("json")
	if err := reader.ReadConfig(fd); err != nil {
		return nil, err
	}
	if err := reader.UnmarshalExact(&tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

// Tree is the parsed three-layer configuration: process-wide settings plus
// per-account and per-reservation overrides.
type Tree struct {
	CheckFares             any `mapstructure:"check_fares"`
	NotificationURLs       any `mapstructure:"notification_urls"`
	NotificationLevel      any `mapstructure:"notification_level"`
	Notification24HourTime any `mapstructure:"notification_24_hour_time"`
	BrowserPath            any `mapstructure:"browser_path"`
	RetrievalInterval      any `mapstructure:"retrieval_interval"`

	Accounts     []Account     `mapstructure:"accounts"`
	Reservations []Reservation `mapstructure:"reservations"`
}

// Overrides are the optional policy fields an account or reservation may set
// on top of the global configuration.
type Overrides struct {
	CheckFares        any `mapstructure:"check_fares"`
	NotificationURLs  any `mapstructure:"notification_urls"`
	NotificationLevel any `mapstructure:"notification_level"`
	RetrievalInterval any `mapstructure:"retrieval_interval"`
	HealthchecksURL   any `mapstructure:"healthchecks_url"`
}

type Account struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	Overrides `mapstructure:",squash"`
}

type Reservation struct {
	ConfirmationNumber string `mapstructure:"confirmationNumber"`
	FirstName          string `mapstructure:"firstName"`
	LastName           string `mapstructure:"lastName"`

	Overrides `mapstructure:",squash"`
}
