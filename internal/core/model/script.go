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

// Package model defines the core data structures for the video pipeline.
// This file contains the scene script document produced once per run by the
// script service, and the per-scene generation instructions derived from it.
//
// A ScriptDocument is owned exclusively by the pipeline orchestrator for the
// duration of one run and is immutable after creation. Scenes are identified
// by their zero-based position in the Scenes slice; that position is the only
// ordering key used anywhere in a run.
package model

import (
	"errors"
	"fmt"
)

// SceneSpec holds the generation instructions for a single scene of the
// final video: the narration text, the prompt describing the first frame,
// the prompt describing the motion of the clip, and the short subtitle line
// burned onto the finished clip.
//
// The JSON tags match the schema the script model is instructed to emit.
// The top-level key "scence_script" (sic) is kept as-is for compatibility
// with the prompt contract.
type SceneSpec struct {
	Script      string `json:"script"`       // Narration text, in the video's language.
	PromptImage string `json:"prompt_image"` // English description of the scene's first frame.
	PromptVideo string `json:"prompt_video"` // English description of the scene's motion.
	MainContent string `json:"main_content"` // Subtitle line, one short sentence (<= ~80 chars).
}

// ScriptDocument is the structured scene script produced once per pipeline
// run: an ordered, non-empty sequence of scenes plus a prompt for the
// background music track.
type ScriptDocument struct {
	Scenes      []*SceneSpec `json:"scence_script"`
	MusicPrompt string       `json:"music_prompt"`
}

// Validate enforces the document invariants: at least one scene, and every
// scene carrying a non-empty script, image prompt, video prompt and subtitle
// line. The ~80 character subtitle limit is a semantic guideline for the
// model and is deliberately not enforced here.
func (d *ScriptDocument) Validate() error {
	if len(d.Scenes) == 0 {
		return errors.New("script document contains no scenes")
	}
	if len(d.MusicPrompt) == 0 {
		return errors.New("script document has no music prompt")
	}
	for i, scene := range d.Scenes {
		if scene == nil {
			return fmt.Errorf("scene %d is nil", i)
		}
		if len(scene.Script) == 0 {
			return fmt.Errorf("scene %d has an empty script", i)
		}
		if len(scene.PromptImage) == 0 {
			return fmt.Errorf("scene %d has an empty image prompt", i)
		}
		if len(scene.PromptVideo) == 0 {
			return fmt.Errorf("scene %d has an empty video prompt", i)
		}
		if len(scene.MainContent) == 0 {
			return fmt.Errorf("scene %d has an empty subtitle line", i)
		}
	}
	return nil
}

// SceneResult is the outcome of one scene task. Exactly one of ClipPath or
// Err is meaningful. Index is always the scene's original position in the
// script, regardless of completion order; the orchestrator uses it to place
// the result into its index-addressed slot array.
type SceneResult struct {
	Index    int
	ClipPath string
	Err      error
}

// Failed reports whether the scene task produced a failure instead of a clip.
func (r SceneResult) Failed() bool {
	return r.Err != nil
}
