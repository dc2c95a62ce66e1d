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

// Package model_test contains unit tests for the data models used by the
// video pipeline. This file tests the scene script document: JSON decoding
// against the schema the script model emits, and the validation rules that
// gate a script before any scene work starts.
package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/datdonq/Education-Music/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// validScript returns a two-scene document that satisfies every validation
// rule. Tests mutate a copy to probe individual rules.
func validScript() *model.ScriptDocument {
	return &model.ScriptDocument{
		Scenes: []*model.SceneSpec{
			{
				Script:      "Chào các bạn, hôm nay chúng ta học về các con vật.",
				PromptImage: "A cheerful cartoon fox standing in a bright classroom.",
				PromptVideo: "The fox is waving at the camera, slow zoom in.",
				MainContent: "Hôm nay học về các con vật",
			},
			{
				Script:      "Tạm biệt các bạn, hẹn gặp lại nhé!",
				PromptImage: "The cartoon fox waving goodbye at a school gate.",
				PromptVideo: "The fox is waving, slight pan to the right.",
				MainContent: "Tạm biệt và hẹn gặp lại",
			},
		},
		MusicPrompt: "Cheerful kids music, 100 BPM, ukulele and glockenspiel, no vocals.",
	}
}

// TestScriptDocumentDecode verifies that a payload in the shape the script
// model is instructed to emit decodes into the document, including the
// intentionally misspelled top-level "scence_script" key.
func TestScriptDocumentDecode(t *testing.T) {
	payload := `{
		"scence_script": [
			{
				"script": "Xin chào!",
				"prompt_image": "A fox in a classroom.",
				"prompt_video": "The fox is waving.",
				"main_content": "Lời chào mở đầu"
			}
		],
		"music_prompt": "Happy tune, no vocals."
	}`

	var doc model.ScriptDocument
	err := json.Unmarshal([]byte(payload), &doc)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Scenes))
	assert.Equal(t, "Xin chào!", doc.Scenes[0].Script)
	assert.Equal(t, "Happy tune, no vocals.", doc.MusicPrompt)
	assert.NoError(t, doc.Validate())
}

// TestValidateAcceptsCompleteDocument checks the happy path.
func TestValidateAcceptsCompleteDocument(t *testing.T) {
	assert.NoError(t, validScript().Validate())
}

// TestValidateRejectsEmptyScript ensures a document with no scenes never
// reaches the scene workers.
func TestValidateRejectsEmptyScript(t *testing.T) {
	doc := &model.ScriptDocument{MusicPrompt: "some prompt"}
	assert.Error(t, doc.Validate())
}

// TestValidateRejectsMissingMusicPrompt ensures the background music stage
// always has a prompt to work with.
func TestValidateRejectsMissingMusicPrompt(t *testing.T) {
	doc := validScript()
	doc.MusicPrompt = ""
	assert.Error(t, doc.Validate())
}

// TestValidateRejectsIncompleteScene exercises each required per-scene
// field in turn.
func TestValidateRejectsIncompleteScene(t *testing.T) {
	mutations := map[string]func(*model.SceneSpec){
		"script":       func(s *model.SceneSpec) { s.Script = "" },
		"prompt_image": func(s *model.SceneSpec) { s.PromptImage = "" },
		"prompt_video": func(s *model.SceneSpec) { s.PromptVideo = "" },
		"main_content": func(s *model.SceneSpec) { s.MainContent = "" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			doc := validScript()
			mutate(doc.Scenes[1])
			assert.Error(t, doc.Validate())
		})
	}

	doc := validScript()
	doc.Scenes[0] = nil
	assert.Error(t, doc.Validate())
}

// TestSceneResultFailed verifies the success/failure predicate used by the
// orchestrator when joining scene results.
func TestSceneResultFailed(t *testing.T) {
	ok := model.SceneResult{Index: 0, ClipPath: "scene_0_final.mp4"}
	assert.False(t, ok.Failed())

	failed := model.SceneResult{Index: 1, Err: errors.New("boom")}
	assert.True(t, failed.Failed())
}

// TestFailureTypesUnwrap checks that the typed failures participate in the
// errors.As / errors.Is chains callers rely on for branching.
func TestFailureTypesUnwrap(t *testing.T) {
	cause := errors.New("vendor rejected the request")
	err := error(&model.AssetGenerationError{Stage: model.StageVideo, Err: cause})

	var assetErr *model.AssetGenerationError
	assert.True(t, errors.As(err, &assetErr))
	assert.Equal(t, model.StageVideo, assetErr.Stage)
	assert.True(t, errors.Is(err, cause))

	wrapped := error(&model.ScriptGenerationError{Err: cause})
	var scriptErr *model.ScriptGenerationError
	assert.True(t, errors.As(wrapped, &scriptErr))
	assert.True(t, errors.Is(wrapped, cause))
}
