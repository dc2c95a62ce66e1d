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

// Adapter for the hosted Minimax speech synthesis API, used to narrate
// scene dialogue. Follows the same submit-poll-download contract as the
// other generators.
package cloud

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/datdonq/Education-Music/internal/core/model"
)

// SpeechGenerator submits text-to-speech jobs for scene narration.
type SpeechGenerator struct {
	Client   *http.Client
	Endpoint GeneratorEndpoint
	APIKey   string
}

// NewSpeechGenerator builds a SpeechGenerator, resolving its API key from
// the environment variable named in the endpoint config.
func NewSpeechGenerator(client *http.Client, endpoint GeneratorEndpoint) (*SpeechGenerator, error) {
	key, err := ResolveAPIKey(endpoint)
	if err != nil {
		return nil, err
	}
	return &SpeechGenerator{Client: client, Endpoint: endpoint, APIKey: key}, nil
}

// speechSubmitResponse is the submission reply; the task id key differs by
// API revision.
type speechSubmitResponse struct {
	TaskID    flexID `json:"task_id"`
	RequestID flexID `json:"request_id"`
	ID        flexID `json:"id"`
}

func (r speechSubmitResponse) taskID() string {
	return firstNonEmpty(string(r.TaskID), string(r.RequestID), string(r.ID))
}

// speechPollResponse is the task status reply. The audio URL and the error
// detail appear either at the top level or inside a "response" block.
type speechPollResponse struct {
	Status     string `json:"status"`
	TaskStatus string `json:"task_status"`
	State      string `json:"state"`
	AudioURL   string `json:"audio_url"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	Response   struct {
		AudioURL string `json:"audio_url"`
		Error    string `json:"error"`
	} `json:"response"`
}

type speechJob struct {
	gen    *SpeechGenerator
	taskID string
}

func (j *speechJob) Poll(ctx context.Context) (JobStatus, error) {
	url := fmt.Sprintf("%s/task/%s", j.gen.Endpoint.BaseURL, j.taskID)
	var decoded speechPollResponse
	if err := getJSON(ctx, j.gen.Client, j.gen.APIKey, url, &decoded); err != nil {
		return JobStatus{}, err
	}

	state := normalizeJobState(firstNonEmpty(decoded.Status, decoded.TaskStatus, decoded.State))
	status := JobStatus{State: state}
	switch state {
	case JobSucceeded:
		status.ResultURL = firstNonEmpty(decoded.Response.AudioURL, decoded.AudioURL)
		if status.ResultURL == "" {
			status.State = JobFailed
			status.Reason = "no audio url in completed response"
		}
	case JobFailed:
		status.Reason = firstNonEmpty(decoded.Error, decoded.Message, decoded.Response.Error, "unknown reason")
	}
	return status, nil
}

// Generate synthesizes narration audio for text and writes it to dest.
// The voice, speaking rate, and model come from the endpoint config.
func (g *SpeechGenerator) Generate(ctx context.Context, text string, dest string) error {
	speed := g.Endpoint.Speed
	if speed <= 0 {
		speed = 1
	}
	payload := map[string]interface{}{
		"text": text,
		"voice_setting": map[string]interface{}{
			"voice_id":              g.Endpoint.Voice,
			"speed":                 speed,
			"vol":                   1,
			"pitch":                 0,
			"english_normalization": false,
		},
		"language_boost": "auto",
		"output_format":  "url",
	}

	var submitResp speechSubmitResponse
	submitURL := fmt.Sprintf("%s/%s", g.Endpoint.BaseURL, g.Endpoint.Model)
	if err := postJSON(ctx, g.Client, g.APIKey, submitURL, payload, &submitResp); err != nil {
		return &model.AssetGenerationError{Stage: model.StageAudio, Reason: "submit failed", Err: err}
	}
	taskID := submitResp.taskID()
	if taskID == "" {
		return &model.AssetGenerationError{Stage: model.StageAudio, Reason: "no task id in submit response"}
	}

	job := &speechJob{gen: g, taskID: taskID}
	resultURL, err := AwaitJob(ctx, job, model.StageAudio,
		time.Duration(g.Endpoint.PollIntervalInSeconds)*time.Second,
		time.Duration(g.Endpoint.TimeoutInSeconds)*time.Second)
	if err != nil {
		return err
	}

	if err := DownloadFile(ctx, g.Client, resultURL, dest); err != nil {
		return &model.AssetGenerationError{Stage: model.StageAudio, Reason: "download failed", Err: err}
	}
	return nil
}
