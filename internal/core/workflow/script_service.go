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

package workflow

import (
	"context"
	"fmt"
	"text/template"

	"github.com/datdonq/Education-Music/internal/cloud"
	"github.com/datdonq/Education-Music/internal/core/commands"
	"github.com/datdonq/Education-Music/internal/core/cor"
	"github.com/datdonq/Education-Music/internal/core/model"
)

// GeminiScriptService generates and validates scene scripts through a
// two-command chain: prompt the script-writer model, then parse and
// validate its JSON response.
type GeminiScriptService struct {
	chain cor.Chain
}

// NewGeminiScriptService builds the production script service from the
// configured script-writer model and the script prompt template.
func NewGeminiScriptService(config *cloud.Config, scriptModel *cloud.QuotaAwareGenerativeAIModel) (*GeminiScriptService, error) {
	tmpl, err := template.New("script").Parse(config.PromptTemplates.Script)
	if err != nil {
		return nil, fmt.Errorf("invalid script prompt template: %w", err)
	}

	chain := cor.NewBaseChain("script_generation")
	chain.AddCommand(commands.NewScriptCreator("script_creator", config, scriptModel, tmpl))
	chain.AddCommand(commands.NewScriptParser("script_parser"))
	return &GeminiScriptService{chain: chain}, nil
}

// GenerateScript produces a validated script for the given lesson summary,
// narration language, and character reference image.
func (s *GeminiScriptService) GenerateScript(ctx context.Context, summary string, language string, refImage string) (*model.ScriptDocument, error) {
	chCtx := cor.NewBaseContext(ctx)
	chCtx.Add(commands.ParamSummary, summary)
	chCtx.Add(commands.ParamLanguage, language)
	chCtx.Add(commands.ParamRefImage, refImage)

	s.chain.Execute(chCtx)

	if chCtx.HasErrors() {
		return nil, firstError(chCtx.GetErrors())
	}
	script, ok := chCtx.Get(cor.CtxIn).(*model.ScriptDocument)
	if !ok {
		return nil, &model.ScriptGenerationError{Err: fmt.Errorf("script chain produced no document")}
	}
	return script, nil
}
