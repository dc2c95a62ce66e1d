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

// This file defines the shared contract for the hosted generation services
// the pipeline calls. Video, speech, and music generation all follow the
// same shape: submit a job, poll its status until it reaches a terminal
// state, then download the produced artifact. AwaitJob implements that
// loop once so each adapter only supplies the vendor-specific wire format.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/datdonq/Education-Music/internal/core/model"
)

// JobState is the normalized lifecycle state of a remote generation job.
type JobState string

const (
	JobPending   JobState = "pending"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// JobStatus is one poll observation of a remote job.
type JobStatus struct {
	State     JobState // Normalized lifecycle state.
	ResultURL string   // Download URL of the artifact, set once succeeded.
	Reason    string   // Vendor failure detail, set once failed.
}

// Job is a submitted remote generation request that can be polled.
type Job interface {
	// Poll fetches the job's current status. Transport errors are returned
	// as-is; AwaitJob treats them as fatal for the job.
	Poll(ctx context.Context) (JobStatus, error)
}

// AwaitJob polls a job at the given interval until it succeeds, fails, or
// the timeout elapses, and returns the artifact URL. A timeout yields a
// *model.TimeoutError for the given stage so callers can distinguish a slow
// vendor from a rejected request.
func AwaitJob(ctx context.Context, job Job, stage model.Stage, interval time.Duration, timeout time.Duration) (string, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := job.Poll(ctx)
		if err != nil {
			return "", &model.AssetGenerationError{Stage: stage, Reason: "poll failed", Err: err}
		}
		switch status.State {
		case JobSucceeded:
			if status.ResultURL == "" {
				return "", &model.AssetGenerationError{Stage: stage, Reason: "job succeeded without a result url"}
			}
			return status.ResultURL, nil
		case JobFailed:
			return "", &model.AssetGenerationError{Stage: stage, Reason: status.Reason}
		}

		if time.Now().After(deadline) {
			return "", &model.TimeoutError{Stage: stage, Timeout: timeout}
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

// DownloadFile streams the artifact at url to dest. An empty download is an
// error: vendors occasionally report success while serving a zero-byte
// file, and a zero-byte clip would poison the later concat step.
func DownloadFile(ctx context.Context, client *http.Client, url string, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s returned status %d", url, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	written, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if written == 0 {
		_ = os.Remove(dest)
		return fmt.Errorf("download of %s produced an empty file", url)
	}
	slog.Debug("downloaded artifact", "url", url, "dest", dest, "bytes", written)
	return nil
}

// postJSON sends an authenticated JSON request and decodes the response
// body into out. Non-2xx responses are returned as errors with the body
// included for vendor diagnostics.
func postJSON(ctx context.Context, client *http.Client, apiKey string, url string, payload interface{}, out interface{}) error {
	return doJSON(ctx, client, apiKey, http.MethodPost, url, payload, out)
}

// getJSON sends an authenticated GET request and decodes the JSON response.
func getJSON(ctx context.Context, client *http.Client, apiKey string, url string, out interface{}) error {
	return doJSON(ctx, client, apiKey, http.MethodGet, url, nil, out)
}

func doJSON(ctx context.Context, client *http.Client, apiKey string, method string, url string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s returned status %d: %s", method, url, resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
