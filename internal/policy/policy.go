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

package policy

import (
	"time"
)

// FareCheckMode controls which flights are compared when looking for lower fares.
//
// Config files may specify the mode as a bool (true means "same_flight",
// false means "no") or as one of the enumerated strings. Normalization
// collapses both encodings onto the same four values.
type FareCheckMode string

const (
	FareCheckDisabled       FareCheckMode = "no"
	FareCheckSameFlight     FareCheckMode = "same_flight"
	FareCheckSameDayNonstop FareCheckMode = "same_day_nonstop"
	FareCheckSameDay        FareCheckMode = "same_day"
)

const DefaultFareCheckMode = FareCheckSameFlight

func (m FareCheckMode) Valid() bool {
	switch m {
	case FareCheckDisabled, FareCheckSameFlight, FareCheckSameDayNonstop, FareCheckSameDay:
		return true
	}
	return false
}

func NormalizeFareCheckMode(raw any) (FareCheckMode, error) {
	switch v := raw.(type) {
	case bool:
		if v {
			return FareCheckSameFlight, nil
		}
		return FareCheckDisabled, nil

	case string:
		mode := FareCheckMode(v)
		if mode.Valid() {
			return mode, nil
		}

	case FareCheckMode:
		if v.Valid() {
			return v, nil
		}
	}
	return "", newError("check_fares", InvalidEnum, "'%v' is not a valid check fares option", raw)
}

// NotificationLevel is the configured verbosity for an entity. Lower levels
// include every higher level's messages: level 1 sees everything, level 2
// sees lifecycle and error messages, level 3 sees only errors.
type NotificationLevel int

const (
	LevelNotice NotificationLevel = 1
	LevelInfo   NotificationLevel = 2
	LevelError  NotificationLevel = 3
)

const DefaultNotificationLevel = LevelInfo

func (l NotificationLevel) Valid() bool {
	return l >= LevelNotice && l <= LevelError
}

func NormalizeNotificationLevel(raw any) (NotificationLevel, error) {
	if lvl, ok := raw.(NotificationLevel); ok {
		if lvl.Valid() {
			return lvl, nil
		}
		return 0, newError("notification_level", InvalidEnum, "'%d' is not a valid notification level", int(lvl))
	}

	n, ok := intValue(raw)
	if !ok {
		return 0, newError("notification_level", InvalidEnum, "'%v' is not a valid notification level", raw)
	}

	lvl := NotificationLevel(n)
	if !lvl.Valid() {
		return 0, newError("notification_level", InvalidEnum, "'%d' is not a valid notification level", n)
	}
	return lvl, nil
}

// RetrievalInterval is how often an entity is rechecked, in hours. Zero
// disables recurring monitoring for the entity.
type RetrievalInterval int

const DefaultRetrievalInterval RetrievalInterval = 24

func (i RetrievalInterval) Disabled() bool {
	return i == 0
}

func (i RetrievalInterval) Duration() time.Duration {
	return time.Duration(i) * time.Hour
}

func NormalizeRetrievalInterval(raw any) (RetrievalInterval, error) {
	if iv, ok := raw.(RetrievalInterval); ok {
		raw = int64(iv)
	}

	n, ok := intValue(raw)
	if !ok {
		return 0, newError("retrieval_interval", InvalidRange, "'%v' must be an integer", raw)
	}
	if n < 0 {
		return 0, newError("retrieval_interval", InvalidRange, "'%d' hours is below zero", n)
	}
	return RetrievalInterval(n), nil
}

// NormalizeNotificationURLs accepts a single URL or a list of URLs. The URLs
// themselves are opaque here, transport validation happens at send time.
func NormalizeNotificationURLs(raw any) ([]string, error) {
	switch v := raw.(type) {
	case string:
		// Don't keep empty strings around as destinations
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil

	case []string:
		var out []string
		for _, u := range v {
			if u != "" {
				out = append(out, u)
			}
		}
		return out, nil

	case []any:
		var out []string
		for _, elm := range v {
			u, ok := elm.(string)
			if !ok {
				return nil, newError("notification_urls", InvalidType, "'%v' is not a string", elm)
			}
			if u != "" {
				out = append(out, u)
			}
		}
		return out, nil
	}
	return nil, newError("notification_urls", InvalidType, "must be a list or string")
}

func intValue(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		// JSON numbers decode as float64
		if v == float64(int64(v)) {
			return int64(v), true
		}
	case float32:
		if v == float32(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}
