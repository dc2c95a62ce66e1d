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

// SubtitleBurner draws subtitle text onto a clip.
type SubtitleBurner interface {
	BurnSubtitle(ctx context.Context, videoPath string, text string, outputPath string) error
}

// SceneSubtitle burns the scene's on-screen text onto the narrated clip,
// producing the scene's finished clip. The output file is not tracked as a
// temp file: it is the scene's deliverable for the final concatenation.
type SceneSubtitle struct {
	cor.BaseCommand
	assembler SubtitleBurner
}

// NewSceneSubtitle is the constructor for the SceneSubtitle command.
func NewSceneSubtitle(name string, assembler SubtitleBurner) *SceneSubtitle {
	return &SceneSubtitle{
		BaseCommand: *cor.NewBaseCommand(name),
		assembler:   assembler,
	}
}

// Execute burns the subtitle and outputs the finished scene clip path.
func (t *SceneSubtitle) Execute(context cor.Context) {
	narratedClip := context.Get(t.GetInputParam()).(string)
	spec := context.Get(ParamSceneSpec).(*model.SceneSpec)
	index := context.Get(ParamSceneIndex).(int)
	workDir := context.Get(ParamWorkDir).(string)

	dest := filepath.Join(workDir, fmt.Sprintf("scene_%d_final.mp4", index))
	if err := t.assembler.BurnSubtitle(context.GetContext(), narratedClip, spec.MainContent, dest); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), err)
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, dest)
}
