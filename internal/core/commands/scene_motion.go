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

package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/datdonq/Education-Music/internal/core/cor"
	"github.com/datdonq/Education-Music/internal/core/model"
)

// VideoGenerator animates a seed image into a clip per a motion prompt.
type VideoGenerator interface {
	Generate(ctx context.Context, prompt string, imagePath string, dest string) error
}

// SceneMotion animates the scene's seed image into a raw video clip using
// the scene's motion prompt. Input is the seed image path piped from the
// SceneImage command.
type SceneMotion struct {
	cor.BaseCommand
	videos VideoGenerator
}

// NewSceneMotion is the constructor for the SceneMotion command.
func NewSceneMotion(name string, videos VideoGenerator) *SceneMotion {
	return &SceneMotion{
		BaseCommand: *cor.NewBaseCommand(name),
		videos:      videos,
	}
}

// Execute generates the raw clip and pipes its path to the mux command.
func (t *SceneMotion) Execute(context cor.Context) {
	seedImage := context.Get(t.GetInputParam()).(string)
	spec := context.Get(ParamSceneSpec).(*model.SceneSpec)
	index := context.Get(ParamSceneIndex).(int)
	workDir := context.Get(ParamWorkDir).(string)

	dest := filepath.Join(workDir, fmt.Sprintf("scene_%d_raw.mp4", index))
	if err := t.videos.Generate(context.GetContext(), spec.PromptVideo, seedImage, dest); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), err)
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.AddTempFile(dest)
	context.Add(cor.CtxOut, dest)
}
