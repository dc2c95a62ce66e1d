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

// Package workflow assembles the pipeline's command chains and runs them.
// This file defines the SceneTask: the per-scene sub-pipeline that turns
// one scene specification plus the shared reference image into one
// finished, narrated, subtitled clip. The steps within a scene are
// strictly sequential because each one consumes the previous artifact.
package workflow

import (
	"context"
	"fmt"

	"github.com/datdonq/Education-Music/internal/core/commands"
	"github.com/datdonq/Education-Music/internal/core/cor"
	"github.com/datdonq/Education-Music/internal/core/model"
)

// SceneTask renders a single scene through a fixed chain: narration audio,
// seed image, motion clip, audio mux, subtitle burn.
type SceneTask struct {
	chain             cor.Chain
	keepIntermediates bool
}

// NewSceneTask wires the per-scene chain from its collaborators. The same
// task may render many scenes concurrently; each Run gets its own chain
// context, the chain itself holds no per-run state. When keepIntermediates
// is set, finished scenes leave their intermediate artifacts on disk for
// inspection instead of removing them.
func NewSceneTask(
	promptPrefix string,
	keepIntermediates bool,
	images commands.ImageGenerator,
	videos commands.VideoGenerator,
	speech commands.SpeechGenerator,
	assembler SceneAssembler,
) *SceneTask {
	chain := cor.NewBaseChain("scene_task")
	chain.AddCommand(commands.NewSceneNarration("scene_narration", speech))
	chain.AddCommand(commands.NewSceneImage("scene_image", promptPrefix, images))
	chain.AddCommand(commands.NewSceneMotion("scene_motion", videos))
	chain.AddCommand(commands.NewSceneMux("scene_mux", assembler))
	chain.AddCommand(commands.NewSceneSubtitle("scene_subtitle", assembler))
	return &SceneTask{chain: chain, keepIntermediates: keepIntermediates}
}

// SceneAssembler is the slice of the media assembler a scene needs.
type SceneAssembler interface {
	commands.AudioMuxer
	commands.SubtitleBurner
}

// Run renders one scene and reports the outcome as a SceneResult keyed by
// the scene's index. Failures are contained in the result rather than
// returned, so the orchestrator can apply its drop policy across scenes.
func (t *SceneTask) Run(ctx context.Context, index int, spec *model.SceneSpec, refImage string, workDir string) model.SceneResult {
	chCtx := cor.NewBaseContext(ctx)
	chCtx.Add(commands.ParamSceneSpec, spec)
	chCtx.Add(commands.ParamSceneIndex, index)
	chCtx.Add(commands.ParamRefImage, refImage)
	chCtx.Add(commands.ParamWorkDir, workDir)

	t.chain.Execute(chCtx)

	if chCtx.HasErrors() {
		return model.SceneResult{Index: index, Err: firstError(chCtx.GetErrors())}
	}
	clip, ok := chCtx.Get(cor.CtxIn).(string)
	if !ok || clip == "" {
		return model.SceneResult{Index: index, Err: fmt.Errorf("scene %d produced no clip", index)}
	}
	// The steps register their working files on the chain context; once the
	// final clip exists they are dead weight. Failed scenes keep theirs so
	// the broken artifact can be examined.
	if !t.keepIntermediates {
		chCtx.Close()
	}
	return model.SceneResult{Index: index, ClipPath: clip}
}

// firstError flattens the chain's error map into one representative error.
func firstError(errs map[string]error) error {
	for name, err := range errs {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
