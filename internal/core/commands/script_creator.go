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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"text/template"

	"go.opentelemetry.io/otel/metric"

	"github.com/datdonq/Education-Music/internal/cloud"
	"github.com/datdonq/Education-Music/internal/core/cor"
	"github.com/datdonq/Education-Music/internal/core/model"
	"github.com/h2non/filetype"
	"google.golang.org/genai"
)

// ScriptCreator is a command that prompts a generative model to write the
// full scene script for a lesson. The prompt combines the lesson summary,
// the target language, a JSON few-shot example, and the uploaded character
// reference image so the model describes scenes around that character.
type ScriptCreator struct {
	cor.BaseCommand
	config                   *cloud.Config
	generativeAIModel        *cloud.QuotaAwareGenerativeAIModel
	template                 *template.Template
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
	geminiRetryCounter       metric.Int64Counter
}

// NewScriptCreator is the constructor for the ScriptCreator command.
func NewScriptCreator(
	name string,
	config *cloud.Config,
	generativeAIModel *cloud.QuotaAwareGenerativeAIModel,
	template *template.Template) *ScriptCreator {

	out := &ScriptCreator{
		BaseCommand:       *cor.NewBaseCommand(name),
		config:            config,
		generativeAIModel: generativeAIModel,
		template:          template}
	out.InputParamName = ParamSummary

	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	out.geminiRetryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.retry", out.GetName()))

	return out
}

// GenerateParams builds the substitution map for the prompt template. The
// complete JSON example steers the model toward well-formed output.
func (t *ScriptCreator) GenerateParams(context cor.Context) map[string]interface{} {
	params := make(map[string]interface{})
	params["SUMMARY"] = context.Get(ParamSummary)
	params["LANGUAGE"] = context.Get(ParamLanguage)

	exampleScript, _ := json.Marshal(model.GetExampleScript())
	params["EXAMPLE_JSON"] = string(exampleScript)
	return params
}

// Execute renders the prompt and requests the script from the model. The
// raw JSON response text is placed on the context for the parser command.
func (t *ScriptCreator) Execute(context cor.Context) {
	var buffer bytes.Buffer
	err := t.template.Execute(&buffer, t.GenerateParams(context))
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), &model.ScriptGenerationError{Err: fmt.Errorf("failed to execute prompt template: %w", err)})
		return
	}

	parts := []*genai.Part{{Text: buffer.String()}}
	if refImage, ok := context.Get(ParamRefImage).(string); ok && refImage != "" {
		data, err := os.ReadFile(refImage)
		if err != nil {
			t.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(t.GetName(), &model.ScriptGenerationError{Err: fmt.Errorf("failed to read reference image: %w", err)})
			return
		}
		mime := "image/png"
		if kind, kerr := filetype.Match(data); kerr == nil && kind.MIME.Value != "" {
			mime = kind.MIME.Value
		}
		parts = append(parts, cloud.NewInlineImagePart(data, mime))
	}
	contents := []*genai.Content{{Parts: parts, Role: genai.RoleUser}}

	out, err := cloud.GenerateMultiModalResponse(context.GetContext(), t.geminiInputTokenCounter, t.geminiOutputTokenCounter, t.geminiRetryCounter, t.generativeAIModel, contents)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), &model.ScriptGenerationError{Err: fmt.Errorf("gemini request failed: %w", err)})
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), out)
}
