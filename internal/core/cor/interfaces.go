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

// Package cor (Chain of Responsibility) provides the building blocks for
// composing pipeline steps into workflows. A Command is an atomic unit of
// work; a Chain executes commands in order, piping each command's primary
// output into the next command's primary input through a shared Context.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the context keys that carry the primary data flow of
// a chain. After each command runs, the chain moves the value stored under
// CtxOut into CtxIn for the next command.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state object passed through a chain of commands.
// It carries arbitrary key-value data, errors keyed by the command that
// produced them, working file paths for end-of-run cleanup, and the
// standard Go context used for cancellation and tracing.
type Context interface {
	// SetContext sets the standard Go context. The chain updates it per
	// command so spans nest correctly, and commands consult it for
	// cancellation at every blocking call.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.
	GetContext() context.Context

	// Add stores a key-value pair. Returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error under the given command name.
	AddError(key string, err error)

	// GetErrors returns all errors collected so far.
	GetErrors() map[string]error

	// Get retrieves a value by key, or nil.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command has recorded an error.
	HasErrors() bool

	// AddTempFile tracks a working file for cleanup in Close.
	AddTempFile(file string)

	// GetTempFiles returns all tracked working file paths.
	GetTempFiles() []string

	// Close removes all tracked temporary files. Deferred by workflow
	// owners that do not want to keep intermediates for inspection.
	Close()
}

// Executable is anything with a core execution step.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic, testable unit of work and the fundamental building
// block of a workflow. Commands report failures by adding errors to the
// Context; they never panic past their boundary.
type Command interface {
	Executable

	// GetName returns the command's unique name for logs and telemetry.
	GetName() string

	// GetInputParam returns the context key of the command's primary input.
	GetInputParam() string

	// GetOutputParam returns the context key of the command's primary output.
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains nest. Execution stops at the first recorded error unless
// ContinueOnFailure(true) is set, and always stops once the Go context is
// cancelled.
type Chain interface {
	Command

	// ContinueOnFailure configures whether later commands still run after
	// an earlier one has recorded an error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
