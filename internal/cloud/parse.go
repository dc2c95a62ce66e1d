// Copyright 2025 Education-Music Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Shared decoding helpers for the generator adapters. Each adapter binds
// its vendor's responses to typed structs (see veo.go, speech.go,
// music.go); this file holds the pieces common to all of them.
package cloud

import (
	"encoding/json"
	"strings"
)

// flexID is a job identifier that vendors send either as a JSON string or
// as a bare number.
type flexID string

func (f *flexID) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// normalizeJobState maps the vendors' assorted terminal status strings onto
// the shared JobState values. Unrecognized statuses stay pending so the
// poll loop keeps waiting instead of failing on a new intermediate state.
func normalizeJobState(status string) JobState {
	switch strings.ToLower(status) {
	case "completed", "success", "succeeded", "done":
		return JobSucceeded
	case "failed", "error":
		return JobFailed
	default:
		return JobPending
	}
}

// firstNonEmpty returns the first non-empty string, used to fold the key
// aliases a vendor spreads one value across.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
