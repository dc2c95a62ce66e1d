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

// Adapter for the hosted VEO video generation API. A request animates a
// seed image into a short clip described by a motion prompt. Jobs are
// asynchronous: submission returns a task id, which is polled through the
// shared AwaitJob loop until the clip is ready to download.
package cloud

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/datdonq/Education-Music/internal/core/model"
	"github.com/h2non/filetype"
)

// VideoGenerator submits image-to-video jobs to the VEO endpoint.
type VideoGenerator struct {
	Client   *http.Client
	Endpoint GeneratorEndpoint
	APIKey   string
}

// NewVideoGenerator builds a VideoGenerator, resolving its API key from the
// environment variable named in the endpoint config.
func NewVideoGenerator(client *http.Client, endpoint GeneratorEndpoint) (*VideoGenerator, error) {
	key, err := ResolveAPIKey(endpoint)
	if err != nil {
		return nil, err
	}
	return &VideoGenerator{Client: client, Endpoint: endpoint, APIKey: key}, nil
}

// veoSubmitResponse is the VEO submission reply. The task id arrives as
// either "task_id" or "id".
type veoSubmitResponse struct {
	TaskID flexID `json:"task_id"`
	ID     flexID `json:"id"`
}

func (r veoSubmitResponse) taskID() string {
	return firstNonEmpty(string(r.TaskID), string(r.ID))
}

// veoPollResponse is the VEO task status reply. Current API versions wrap
// the task state in a "data" block; older ones report it at the top level,
// so both bindings are kept.
type veoPollResponse struct {
	Status   string `json:"status"`
	VideoURL string `json:"video_url"`
	Error    string `json:"error"`
	Data     struct {
		Status   string `json:"status"`
		VideoURL string `json:"video_url"`
		Message  string `json:"message"`
	} `json:"data"`
}

// videoJob is a submitted VEO task; Poll satisfies the Job interface.
type videoJob struct {
	gen    *VideoGenerator
	taskID string
}

func (j *videoJob) Poll(ctx context.Context) (JobStatus, error) {
	url := fmt.Sprintf("%s/veo/generations/%s", j.gen.Endpoint.BaseURL, j.taskID)
	var decoded veoPollResponse
	if err := getJSON(ctx, j.gen.Client, j.gen.APIKey, url, &decoded); err != nil {
		return JobStatus{}, err
	}

	state := normalizeJobState(firstNonEmpty(decoded.Data.Status, decoded.Status))
	status := JobStatus{State: state}
	switch state {
	case JobSucceeded:
		status.ResultURL = firstNonEmpty(decoded.Data.VideoURL, decoded.VideoURL)
		if status.ResultURL == "" {
			status.State = JobFailed
			status.Reason = "no video url in completed response"
		}
	case JobFailed:
		status.Reason = firstNonEmpty(decoded.Data.Message, decoded.Error, "unknown reason")
	}
	return status, nil
}

// Generate animates the seed image at imagePath per the motion prompt and
// writes the resulting clip to dest. It blocks until the remote job
// finishes or the configured timeout elapses.
func (g *VideoGenerator) Generate(ctx context.Context, prompt string, imagePath string, dest string) error {
	payload := map[string]interface{}{
		"prompt":         prompt,
		"model":          g.Endpoint.Model,
		"enhance_prompt": true,
		"aspect_ratio":   g.Endpoint.AspectRatio,
	}
	if g.Endpoint.DurationSeconds > 0 {
		payload["duration_seconds"] = g.Endpoint.DurationSeconds
	}
	if imagePath != "" {
		encoded, err := encodeImageDataURI(imagePath)
		if err != nil {
			return &model.AssetGenerationError{Stage: model.StageVideo, Reason: "could not read seed image", Err: err}
		}
		payload["images"] = []string{encoded}
	}

	var submitResp veoSubmitResponse
	submitURL := g.Endpoint.BaseURL + "/veo/generations"
	if err := postJSON(ctx, g.Client, g.APIKey, submitURL, payload, &submitResp); err != nil {
		return &model.AssetGenerationError{Stage: model.StageVideo, Reason: "submit failed", Err: err}
	}
	taskID := submitResp.taskID()
	if taskID == "" {
		return &model.AssetGenerationError{Stage: model.StageVideo, Reason: "no task id in submit response"}
	}

	job := &videoJob{gen: g, taskID: taskID}
	resultURL, err := AwaitJob(ctx, job, model.StageVideo,
		time.Duration(g.Endpoint.PollIntervalInSeconds)*time.Second,
		time.Duration(g.Endpoint.TimeoutInSeconds)*time.Second)
	if err != nil {
		return err
	}

	if err := DownloadFile(ctx, g.Client, resultURL, dest); err != nil {
		return &model.AssetGenerationError{Stage: model.StageVideo, Reason: "download failed", Err: err}
	}
	return nil
}

// encodeImageDataURI inlines a local image file as a base64 data URI, the
// form the VEO endpoint accepts for reference frames.
func encodeImageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := "image/png"
	if kind, err := filetype.Match(data); err == nil && kind.MIME.Value != "" {
		mime = kind.MIME.Value
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}
