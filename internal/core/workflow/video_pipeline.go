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

// This file defines the VideoPipeline orchestrator: it owns one run end to
// end. A run requests the scene script once, fans the scenes out to a
// bounded worker pool, joins the results in original script order,
// concatenates the surviving clips, generates the background track, and
// mixes it under the draft to produce the final video.
//
// Concurrency model: scene completion order is unconstrained. Each worker
// writes its result into a slot array at the scene's index, so the join
// reads results in script order no matter when they finished. The slot
// writes are disjoint per index; the WaitGroup join is the only barrier.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/datdonq/Education-Music/internal/core/model"
)

// DefaultBackgroundVolume attenuates the background track relative to the
// narration audio.
const DefaultBackgroundVolume = 0.5

// ScriptService produces a validated scene script for a lesson.
type ScriptService interface {
	GenerateScript(ctx context.Context, summary string, language string, refImage string) (*model.ScriptDocument, error)
}

// SceneRunner renders one scene into a finished clip.
type SceneRunner interface {
	Run(ctx context.Context, index int, spec *model.SceneSpec, refImage string, workDir string) model.SceneResult
}

// MusicService generates the background music track.
type MusicService interface {
	Generate(ctx context.Context, prompt string, dest string) error
}

// Assembler is the slice of the media assembler the orchestrator uses for
// run-level assembly.
type Assembler interface {
	Concat(ctx context.Context, clipPaths []string, outputPath string) error
	MixBackground(ctx context.Context, videoPath string, bgAudioPath string, bgVolume float64, outputPath string) error
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// VideoPipeline orchestrates one video generation run.
type VideoPipeline struct {
	scripts   ScriptService
	scenes    SceneRunner
	music     MusicService
	assembler Assembler

	workers                int
	continueOnSceneFailure bool
	backgroundVolume       float64
}

// NewVideoPipeline creates the orchestrator. workers caps how many scenes
// render simultaneously; it bounds load on the downstream generators and is
// independent of scene count. When continueOnSceneFailure is set, failed
// scenes are dropped from the final cut instead of aborting the run.
func NewVideoPipeline(
	scripts ScriptService,
	scenes SceneRunner,
	music MusicService,
	assembler Assembler,
	workers int,
	continueOnSceneFailure bool,
) *VideoPipeline {
	if workers <= 0 {
		workers = 2
	}
	return &VideoPipeline{
		scripts:                scripts,
		scenes:                 scenes,
		music:                  music,
		assembler:              assembler,
		workers:                workers,
		continueOnSceneFailure: continueOnSceneFailure,
		backgroundVolume:       DefaultBackgroundVolume,
	}
}

// Run executes one full pipeline run and returns the final video path.
// workDir receives all intermediate artifacts; the final video is written
// to outputPath. The caller's context bounds the whole run: cancelling it
// stops scene dispatch and every in-flight remote call.
func (p *VideoPipeline) Run(ctx context.Context, summary string, language string, refImage string, workDir string, outputPath string) (string, error) {
	script, err := p.scripts.GenerateScript(ctx, summary, language, refImage)
	if err != nil {
		return "", fmt.Errorf("script generation failed: %w", err)
	}
	slog.Info("script generated", "scenes", len(script.Scenes))

	results := p.runScenes(ctx, script, refImage, workDir)

	clips := make([]string, 0, len(results))
	for _, result := range results {
		if result.Failed() {
			slog.Warn("scene failed", "scene", result.Index, "error", result.Err)
			if !p.continueOnSceneFailure {
				return "", fmt.Errorf("scene %d failed: %w", result.Index, result.Err)
			}
			continue
		}
		clips = append(clips, result.ClipPath)
	}

	draftPath := filepath.Join(workDir, "draft.mp4")
	if err := p.assembler.Concat(ctx, clips, draftPath); err != nil {
		return "", err
	}

	musicPath := filepath.Join(workDir, "background.mp3")
	if err := p.music.Generate(ctx, script.MusicPrompt, musicPath); err != nil {
		return "", err
	}

	if err := p.assembler.MixBackground(ctx, draftPath, musicPath, p.backgroundVolume, outputPath); err != nil {
		return "", err
	}

	if duration, err := p.assembler.ProbeDuration(ctx, outputPath); err != nil {
		slog.Warn("could not probe final video duration", "error", err)
	} else {
		slog.Info("pipeline run complete", "video", outputPath, "duration_seconds", duration, "clips", len(clips))
	}
	return outputPath, nil
}

// runScenes fans the script's scenes out to the worker pool and joins the
// results into an index-addressed slot array.
func (p *VideoPipeline) runScenes(ctx context.Context, script *model.ScriptDocument, refImage string, workDir string) []model.SceneResult {
	results := make([]model.SceneResult, len(script.Scenes))

	jobs := make(chan int, len(script.Scenes))
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				if err := ctx.Err(); err != nil {
					results[index] = model.SceneResult{Index: index, Err: err}
					continue
				}
				results[index] = p.scenes.Run(ctx, index, script.Scenes[index], refImage, workDir)
			}
		}()
	}

	for i := range script.Scenes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
