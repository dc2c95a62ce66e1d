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

// SpeechGenerator synthesizes narration audio for a piece of text.
type SpeechGenerator interface {
	Generate(ctx context.Context, text string, dest string) error
}

// SceneNarration synthesizes the scene's narration audio from its dialogue
// script. The audio path is stored under ParamNarrationPath rather than the
// chain output so the image-to-video piping between the surrounding
// commands is not disturbed.
type SceneNarration struct {
	cor.BaseCommand
	speech SpeechGenerator
}

// NewSceneNarration is the constructor for the SceneNarration command.
func NewSceneNarration(name string, speech SpeechGenerator) *SceneNarration {
	out := &SceneNarration{
		BaseCommand: *cor.NewBaseCommand(name),
		speech:      speech,
	}
	out.InputParamName = ParamSceneSpec
	out.OutputParamName = ParamNarrationPath
	return out
}

// Execute generates the narration file into the run's work directory.
func (t *SceneNarration) Execute(context cor.Context) {
	spec := context.Get(ParamSceneSpec).(*model.SceneSpec)
	index := context.Get(ParamSceneIndex).(int)
	workDir := context.Get(ParamWorkDir).(string)

	dest := filepath.Join(workDir, fmt.Sprintf("scene_%d_narration.mp3", index))
	if err := t.speech.Generate(context.GetContext(), spec.Script, dest); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), err)
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.AddTempFile(dest)
	context.Add(t.GetOutputParam(), dest)
}
