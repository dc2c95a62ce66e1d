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

// Package cor_test contains unit tests for the chain of responsibility
// framework: context piping between commands, error short-circuiting, run
// cancellation, and temp file cleanup.
package cor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/datdonq/Education-Music/internal/core/cor"
	"github.com/stretchr/testify/assert"
)

// appendCommand appends its suffix to the string arriving on the chain's
// input slot and publishes the result on the output slot.
type appendCommand struct {
	cor.BaseCommand
	suffix string
}

func newAppendCommand(name string, suffix string) *appendCommand {
	return &appendCommand{BaseCommand: *cor.NewBaseCommand(name), suffix: suffix}
}

func (c *appendCommand) Execute(ctx cor.Context) {
	in, _ := ctx.Get(c.GetInputParam()).(string)
	ctx.Add(c.GetOutputParam(), in+c.suffix)
}

// failingCommand records an error. It forwards its input so commands after
// it stay executable when the chain is configured to continue.
type failingCommand struct {
	cor.BaseCommand
	executions int
}

func newFailingCommand(name string) *failingCommand {
	return &failingCommand{BaseCommand: *cor.NewBaseCommand(name)}
}

func (c *failingCommand) Execute(ctx cor.Context) {
	c.executions++
	ctx.Add(c.GetOutputParam(), ctx.Get(c.GetInputParam()))
	ctx.AddError(c.GetName(), errors.New("simulated failure"))
}

// TestChainPipesOutputToInput verifies the flip-flop between commands: each
// command's output value becomes the next command's input value.
func TestChainPipesOutputToInput(t *testing.T) {
	chain := cor.NewBaseChain("test_chain")
	chain.AddCommand(newAppendCommand("first", "a"))
	chain.AddCommand(newAppendCommand("second", "b"))
	chain.AddCommand(newAppendCommand("third", "c"))

	ctx := cor.NewBaseContext(context.Background())
	ctx.Add(cor.CtxIn, "in-")
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	// After the last command the chain flips its output onto the input
	// slot, so the final value is read from CtxIn.
	assert.Equal(t, "in-abc", ctx.Get(cor.CtxIn))
	assert.Nil(t, ctx.Get(cor.CtxOut))
}

// TestChainStopsOnError verifies that a recorded error halts the chain
// before later commands run.
func TestChainStopsOnError(t *testing.T) {
	tail := newAppendCommand("tail", "x")
	chain := cor.NewBaseChain("test_chain")
	chain.AddCommand(newFailingCommand("boom"))
	chain.AddCommand(tail)

	ctx := cor.NewBaseContext(context.Background())
	ctx.Add(cor.CtxIn, "seed")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.NotNil(t, ctx.GetErrors()["boom"])
	// The chain broke before the tail command could append its suffix.
	assert.Equal(t, "seed", ctx.Get(cor.CtxIn))
}

// TestChainContinueOnFailure verifies the opt-in mode where remaining
// commands still run after an error.
func TestChainContinueOnFailure(t *testing.T) {
	chain := cor.NewBaseChain("test_chain")
	chain.ContinueOnFailure(true)
	chain.AddCommand(newFailingCommand("boom"))
	chain.AddCommand(newAppendCommand("tail", "x"))

	ctx := cor.NewBaseContext(context.Background())
	ctx.Add(cor.CtxIn, "seed")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	// The tail command still ran on the forwarded input.
	assert.Equal(t, "seedx", ctx.Get(cor.CtxIn))
}

// TestChainStopsWhenRunContextDone verifies that cancelling the run's Go
// context stops command dispatch and records the cancellation.
func TestChainStopsWhenRunContextDone(t *testing.T) {
	runCtx, cancel := context.WithCancel(context.Background())
	cancel()

	tail := newFailingCommand("never_runs")
	chain := cor.NewBaseChain("cancelled_chain")
	chain.AddCommand(tail)

	ctx := cor.NewBaseContext(runCtx)
	ctx.Add(cor.CtxIn, "seed")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.True(t, errors.Is(ctx.GetErrors()["cancelled_chain"], context.Canceled))
	assert.Equal(t, 0, tail.executions)
}

// TestContextCloseRemovesTempFiles verifies that Close removes the
// intermediate artifacts registered during a run and tolerates files that
// are already gone.
func TestContextCloseRemovesTempFiles(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "final.mp4")
	tmp := filepath.Join(dir, "scene_0_seed.png")
	assert.NoError(t, os.WriteFile(keep, []byte("k"), 0o644))
	assert.NoError(t, os.WriteFile(tmp, []byte("t"), 0o644))

	ctx := cor.NewBaseContext(context.Background())
	ctx.AddTempFile(tmp)
	ctx.AddTempFile(filepath.Join(dir, "already_gone.mp3"))
	ctx.Close()

	_, err := os.Stat(tmp)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(keep)
	assert.NoError(t, err)
}
