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

// Tests for the script generation service with a scripted model handle:
// prompt rendering, markdown fence stripping, and validation of the
// model's JSON before the document reaches the orchestrator.
package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/datdonq/Education-Music/internal/cloud"
	"github.com/datdonq/Education-Music/internal/core/model"
	"github.com/datdonq/Education-Music/internal/core/workflow"
	test "github.com/datdonq/Education-Music/internal/testutil"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// cannedModel returns a fixed text response and records the prompt text it
// was called with.
type cannedModel struct {
	response string
	err      error
	prompts  []string
}

func (m *cannedModel) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	for _, content := range contents {
		for _, part := range content.Parts {
			if part.Text != "" {
				m.prompts = append(m.prompts, part.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: m.response}}}},
		},
	}, nil
}

// newScriptService wires the production service around the canned model.
func newScriptService(t *testing.T, canned *cannedModel) *workflow.GeminiScriptService {
	t.Helper()
	config := cloud.NewConfig()
	config.PromptTemplates.Script = "Lesson: {{.SUMMARY}}\nLanguage: {{.LANGUAGE}}\nExample: {{.EXAMPLE_JSON}}"

	scriptModel := &cloud.QuotaAwareGenerativeAIModel{
		ModelName:    "test-model",
		RateLimit:    rate.NewLimiter(rate.Inf, 1),
		RetryBackoff: time.Millisecond,
	}
	scriptModel.ModelHandle = canned

	svc, err := workflow.NewGeminiScriptService(config, scriptModel)
	assert.NoError(t, err)
	return svc
}

// TestGenerateScript verifies that a fenced JSON response is stripped,
// parsed and validated, and that the prompt carried the lesson fields.
func TestGenerateScript(t *testing.T) {
	canned := &cannedModel{response: "```json\n" + test.GetTestScriptText() + "\n```"}
	svc := newScriptService(t, canned)

	doc, err := svc.GenerateScript(context.Background(), "Learning about animals", "Vietnamese", "")
	assert.NoError(t, err)
	assert.True(t, len(doc.Scenes) >= 1)
	assert.NotEmpty(t, doc.MusicPrompt)

	assert.Equal(t, 1, len(canned.prompts))
	assert.True(t, strings.Contains(canned.prompts[0], "Learning about animals"))
	assert.True(t, strings.Contains(canned.prompts[0], "Vietnamese"))
	// The few-shot example JSON is embedded in the prompt.
	assert.True(t, strings.Contains(canned.prompts[0], "scence_script"))
}

// TestGenerateScriptRejectsInvalidJSON verifies that unparsable model
// output fails as a script generation error.
func TestGenerateScriptRejectsInvalidJSON(t *testing.T) {
	svc := newScriptService(t, &cannedModel{response: "sorry, I cannot help with that"})

	_, err := svc.GenerateScript(context.Background(), "lesson", "en", "")
	var scriptErr *model.ScriptGenerationError
	assert.True(t, errors.As(err, &scriptErr))
}

// TestGenerateScriptRejectsInvalidDocument verifies that JSON which parses
// but breaks the document rules (here: no scenes) is rejected before any
// scene work could start.
func TestGenerateScriptRejectsInvalidDocument(t *testing.T) {
	svc := newScriptService(t, &cannedModel{response: `{"scence_script": [], "music_prompt": "x"}`})

	_, err := svc.GenerateScript(context.Background(), "lesson", "en", "")
	var scriptErr *model.ScriptGenerationError
	assert.True(t, errors.As(err, &scriptErr))
}

// TestGenerateScriptModelFailure verifies an exhausted retry budget
// surfaces as a script failure.
func TestGenerateScriptModelFailure(t *testing.T) {
	svc := newScriptService(t, &cannedModel{err: errors.New("quota exhausted")})

	_, err := svc.GenerateScript(context.Background(), "lesson", "en", "")
	var scriptErr *model.ScriptGenerationError
	assert.True(t, errors.As(err, &scriptErr))
}
