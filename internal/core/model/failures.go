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
// This file defines the failure taxonomy. Every failure in the system is one
// of these typed errors, so callers can branch on failure class and stage
// with errors.As instead of string matching.
//
// Scope of each type:
//   - ScriptGenerationError: fatal to the whole run, no scenes are attempted.
//   - AssetGenerationError: fatal to the owning scene task; fatal to the run
//     only for the post-concat music stage.
//   - AssemblyError: fatal to the owning scene task, except the concat and
//     mix stages which are fatal to the run.
//   - TimeoutError: a specialization surfaced by any poll-based stage.
package model

import (
	"fmt"
	"time"
)

// Stage identifies the pipeline step a failure originated from.
type Stage string

const (
	StageScript   Stage = "script"
	StageImage    Stage = "image"
	StageAudio    Stage = "audio"
	StageVideo    Stage = "video"
	StageMusic    Stage = "music"
	StageMux      Stage = "mux"
	StageSubtitle Stage = "subtitle"
	StageConcat   Stage = "concat"
	StageMix      Stage = "mix"
	StageProbe    Stage = "probe"
)

// ScriptGenerationError reports that the script service failed to produce a
// usable scene script. The run is over before any scene work starts.
type ScriptGenerationError struct {
	Err error
}

func (e *ScriptGenerationError) Error() string {
	return fmt.Sprintf("script generation failed: %v", e.Err)
}

func (e *ScriptGenerationError) Unwrap() error {
	return e.Err
}

// AssetGenerationError reports a failed remote generation job (image, video,
// speech or music). Reason carries the terminal failure message reported by
// the generator when one was given.
type AssetGenerationError struct {
	Stage  Stage
	Reason string
	Err    error
}

func (e *AssetGenerationError) Error() string {
	if len(e.Reason) > 0 {
		return fmt.Sprintf("%s generation failed: %s", e.Stage, e.Reason)
	}
	return fmt.Sprintf("%s generation failed: %v", e.Stage, e.Err)
}

func (e *AssetGenerationError) Unwrap() error {
	return e.Err
}

// AssemblyError reports a failed local media operation (mux, subtitle,
// concat or mix).
type AssemblyError struct {
	Stage Stage
	Err   error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("%s assembly failed: %v", e.Stage, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that a poll-based remote job did not reach a terminal
// state within its wall-clock budget.
type TimeoutError struct {
	Stage   Stage
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s job did not complete within %s", e.Stage, e.Timeout)
}
