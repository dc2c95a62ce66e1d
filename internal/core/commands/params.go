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

// Package commands provides the concrete Chain of Responsibility command
// implementations for the video pipeline: script generation and parsing,
// and the per-scene generation steps (seed image, narration, motion clip,
// mux, subtitle). This file defines the named context parameters the
// commands share beyond the chain's implicit input/output piping.
package commands

// Context parameter names used by the pipeline chains.
const (
	// ParamSummary carries the operator-supplied lesson summary.
	ParamSummary = "summary"
	// ParamLanguage carries the narration language for the video.
	ParamLanguage = "language"
	// ParamRefImage carries the path of the uploaded character reference image.
	ParamRefImage = "ref_image"
	// ParamSceneSpec carries the *model.SceneSpec being rendered.
	ParamSceneSpec = "scene_spec"
	// ParamSceneIndex carries the scene's zero-based position in the script.
	ParamSceneIndex = "scene_index"
	// ParamWorkDir carries the run's scratch directory for intermediate files.
	ParamWorkDir = "work_dir"
	// ParamNarrationPath carries the path of the generated narration audio.
	ParamNarrationPath = "narration_path"
)
