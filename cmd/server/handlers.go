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

package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GenerateHandler runs one full video generation synchronously. The
// request supplies the lesson summary, the narration language, and an
// optional character reference image.
func GenerateHandler(c *gin.Context) {
	summary := c.PostForm("summary")
	language := c.PostForm("language")
	if summary == "" || language == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "summary and language are required"})
		return
	}

	refImage := ""
	if file, err := c.FormFile("image"); err == nil {
		staged, err := state.videoService.StageUpload(file)
		if err != nil {
			slog.Error("failed to stage upload", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "could not stage uploaded image: " + err.Error()})
			return
		}
		refImage = staged
	}

	runID := state.videoService.NewRunID()
	workDir, err := state.videoService.WorkDirFor(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	outputPath := state.videoService.FinalVideoPath(runID)

	// Bound the whole run so a stuck vendor job cannot pin the request
	// forever.
	runCtx := c.Request.Context()
	if timeout := state.config.Application.RunTimeoutInSeconds; timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	slog.Info("starting pipeline run", "run_id", runID, "language", language)
	videoPath, err := state.pipeline.Run(runCtx, summary, language, refImage, workDir, outputPath)
	if err != nil {
		slog.Error("pipeline run failed", "run_id", runID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"video_path": videoPath,
		"video_url":  state.videoService.StaticURL(videoPath),
	})
}
