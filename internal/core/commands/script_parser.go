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
	"encoding/json"
	"fmt"

	"github.com/datdonq/Education-Music/internal/core/cor"
	"github.com/datdonq/Education-Music/internal/core/model"
)

// ScriptParser converts the raw JSON string produced by the ScriptCreator
// into a validated *model.ScriptDocument. A script that parses but breaks
// the document invariants (no scenes, a scene with empty fields) is
// rejected here, before any scene work is scheduled.
type ScriptParser struct {
	cor.BaseCommand
}

// NewScriptParser is the constructor for the ScriptParser command.
func NewScriptParser(name string) *ScriptParser {
	return &ScriptParser{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute parses and validates the script JSON from the context.
func (t *ScriptParser) Execute(context cor.Context) {
	raw, ok := context.Get(t.GetInputParam()).(string)
	if !ok {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), &model.ScriptGenerationError{Err: fmt.Errorf("expected a string script payload")})
		return
	}

	script := &model.ScriptDocument{}
	if err := json.Unmarshal([]byte(raw), script); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), &model.ScriptGenerationError{Err: fmt.Errorf("failed to unmarshal script: %w", err)})
		return
	}
	if err := script.Validate(); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), &model.ScriptGenerationError{Err: err})
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), script)
}
