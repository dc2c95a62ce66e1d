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

// ImageGenerator renders a seed image from a prompt and a reference image.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, refImagePath string, dest string) error
}

// SceneImage renders the scene's seed still frame. Every scene seeds from
// the same uploaded reference image so the main character stays visually
// consistent no matter which order the scenes finish in.
type SceneImage struct {
	cor.BaseCommand
	config *imagePromptConfig
	images ImageGenerator
}

// imagePromptConfig carries the optional prompt prefix applied to every
// scene image prompt.
type imagePromptConfig struct {
	Prefix string
}

// NewSceneImage is the constructor for the SceneImage command.
func NewSceneImage(name string, promptPrefix string, images ImageGenerator) *SceneImage {
	out := &SceneImage{
		BaseCommand: *cor.NewBaseCommand(name),
		config:      &imagePromptConfig{Prefix: promptPrefix},
		images:      images,
	}
	out.InputParamName = ParamSceneSpec
	return out
}

// Execute renders the seed image and pipes its path to the next command.
func (t *SceneImage) Execute(context cor.Context) {
	spec := context.Get(ParamSceneSpec).(*model.SceneSpec)
	index := context.Get(ParamSceneIndex).(int)
	workDir := context.Get(ParamWorkDir).(string)
	refImage, _ := context.Get(ParamRefImage).(string)

	prompt := spec.PromptImage
	if t.config.Prefix != "" {
		prompt = t.config.Prefix + " " + prompt
	}

	dest := filepath.Join(workDir, fmt.Sprintf("scene_%d_seed.png", index))
	if err := t.images.Generate(context.GetContext(), prompt, refImage, dest); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), err)
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.AddTempFile(dest)
	context.Add(cor.CtxOut, dest)
}
