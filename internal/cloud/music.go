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

// Adapter for the hosted Suno music generation API, used to produce the
// background track mixed under the finished video.
package cloud

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/datdonq/Education-Music/internal/core/model"
)

// MusicGenerator submits background music jobs to the Suno endpoint.
type MusicGenerator struct {
	Client   *http.Client
	Endpoint GeneratorEndpoint
	APIKey   string
}

// NewMusicGenerator builds a MusicGenerator, resolving its API key from
// the environment variable named in the endpoint config.
func NewMusicGenerator(client *http.Client, endpoint GeneratorEndpoint) (*MusicGenerator, error) {
	key, err := ResolveAPIKey(endpoint)
	if err != nil {
		return nil, err
	}
	return &MusicGenerator{Client: client, Endpoint: endpoint, APIKey: key}, nil
}

// musicSubmitResponse is the submission reply; the task id is a bare
// string (or number) in "data".
type musicSubmitResponse struct {
	Code string `json:"code"`
	Data flexID `json:"data"`
}

// musicPollResponse is the fetch reply: the task lives under "data" and the
// generated tracks under "data.data".
type musicPollResponse struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Tracks  []struct {
			AudioURL string `json:"audio_url"`
		} `json:"data"`
	} `json:"data"`
}

type musicJob struct {
	gen    *MusicGenerator
	taskID string
}

func (j *musicJob) Poll(ctx context.Context) (JobStatus, error) {
	url := fmt.Sprintf("%s/suno/fetch/%s", j.gen.Endpoint.BaseURL, j.taskID)
	var decoded musicPollResponse
	if err := getJSON(ctx, j.gen.Client, j.gen.APIKey, url, &decoded); err != nil {
		return JobStatus{}, err
	}

	state := normalizeJobState(decoded.Data.Status)
	status := JobStatus{State: state}
	switch state {
	case JobSucceeded:
		if len(decoded.Data.Tracks) > 0 {
			status.ResultURL = decoded.Data.Tracks[0].AudioURL
		}
		if status.ResultURL == "" {
			status.State = JobFailed
			status.Reason = "no audio url in completed response"
		}
	case JobFailed:
		status.Reason = firstNonEmpty(decoded.Data.Message, "unknown reason")
	}
	return status, nil
}

// Generate produces a background music track from the script's music
// prompt and writes it to dest.
func (g *MusicGenerator) Generate(ctx context.Context, prompt string, dest string) error {
	payload := map[string]interface{}{
		"prompt": prompt,
		"mv":     g.Endpoint.Model,
		"title":  "Background Track",
	}
	if g.Endpoint.Tags != "" {
		payload["tags"] = g.Endpoint.Tags
	}

	var submitResp musicSubmitResponse
	submitURL := g.Endpoint.BaseURL + "/suno/submit/music"
	if err := postJSON(ctx, g.Client, g.APIKey, submitURL, payload, &submitResp); err != nil {
		return &model.AssetGenerationError{Stage: model.StageMusic, Reason: "submit failed", Err: err}
	}
	taskID := string(submitResp.Data)
	if taskID == "" {
		return &model.AssetGenerationError{Stage: model.StageMusic, Reason: "no task id in submit response"}
	}

	job := &musicJob{gen: g, taskID: taskID}
	resultURL, err := AwaitJob(ctx, job, model.StageMusic,
		time.Duration(g.Endpoint.PollIntervalInSeconds)*time.Second,
		time.Duration(g.Endpoint.TimeoutInSeconds)*time.Second)
	if err != nil {
		return err
	}

	if err := DownloadFile(ctx, g.Client, resultURL, dest); err != nil {
		return &model.AssetGenerationError{Stage: model.StageMusic, Reason: "download failed", Err: err}
	}
	return nil
}
