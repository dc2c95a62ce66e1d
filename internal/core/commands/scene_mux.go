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
)

// AudioMuxer replaces a clip's audio track with a narration file.
type AudioMuxer interface {
	MuxAudio(ctx context.Context, videoPath string, audioPath string, outputPath string) error
}

// SceneMux combines the raw clip (piped from SceneMotion) with the
// narration audio produced earlier in the chain.
type SceneMux struct {
	cor.BaseCommand
	assembler AudioMuxer
}

// NewSceneMux is the constructor for the SceneMux command.
func NewSceneMux(name string, assembler AudioMuxer) *SceneMux {
	return &SceneMux{
		BaseCommand: *cor.NewBaseCommand(name),
		assembler:   assembler,
	}
}

// IsExecutable additionally requires the narration path from the earlier
// SceneNarration command.
func (t *SceneMux) IsExecutable(context cor.Context) bool {
	return t.BaseCommand.IsExecutable(context) && context.Get(ParamNarrationPath) != nil
}

// Execute muxes narration onto the raw clip and pipes the result onward.
func (t *SceneMux) Execute(context cor.Context) {
	rawClip := context.Get(t.GetInputParam()).(string)
	narration := context.Get(ParamNarrationPath).(string)
	index := context.Get(ParamSceneIndex).(int)
	workDir := context.Get(ParamWorkDir).(string)

	dest := filepath.Join(workDir, fmt.Sprintf("scene_%d_narrated.mp4", index))
	if err := t.assembler.MuxAudio(context.GetContext(), rawClip, narration, dest); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), err)
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.AddTempFile(dest)
	context.Add(cor.CtxOut, dest)
}
