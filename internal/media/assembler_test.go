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

// Unit tests for the ffmpeg argument construction and the assembler's
// output verification. A recording Runner stands in for the real binaries,
// so the tests assert on the exact command lines without ffmpeg installed.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datdonq/Education-Music/internal/core/model"
	"github.com/zeebo/assert"
)

// recordingRunner captures every invocation and creates the output file so
// the assembler's post-run existence check passes.
type recordingRunner struct {
	calls [][]string
	paths []string
	out   string
	err   error
}

func (r *recordingRunner) run(_ context.Context, path string, args []string) (string, error) {
	r.paths = append(r.paths, path)
	r.calls = append(r.calls, args)
	if r.err == nil && len(args) > 0 {
		_ = os.WriteFile(args[len(args)-1], []byte("x"), 0o644)
	}
	return r.out, r.err
}

func newTestAssembler(runner *recordingRunner) *Assembler {
	a := NewAssembler("ffmpeg", "ffprobe")
	a.Run = runner.run
	return a
}

func TestMuxAudioArgs(t *testing.T) {
	runner := &recordingRunner{}
	a := newTestAssembler(runner)
	out := filepath.Join(t.TempDir(), "narrated.mp4")

	err := a.MuxAudio(context.Background(), "raw.mp4", "narration.mp3", out)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(runner.calls))

	joined := strings.Join(runner.calls[0], " ")
	// The video stream must be copied untouched and the narration becomes
	// the only audio track; -shortest keeps a long narration from freezing
	// the last frame.
	assert.True(t, strings.Contains(joined, "-map 0:v:0"))
	assert.True(t, strings.Contains(joined, "-map 1:a:0"))
	assert.True(t, strings.Contains(joined, "-c:v copy"))
	assert.True(t, strings.Contains(joined, "-shortest"))
	assert.Equal(t, out, runner.calls[0][len(runner.calls[0])-1])
}

func TestBurnSubtitleEscapesText(t *testing.T) {
	runner := &recordingRunner{}
	a := newTestAssembler(runner)
	out := filepath.Join(t.TempDir(), "final.mp4")

	err := a.BurnSubtitle(context.Background(), "narrated.mp4", "100% c'est: fini", out)
	assert.NoError(t, err)

	joined := strings.Join(runner.calls[0], " ")
	// Colons, percent signs and quotes are drawtext syntax and must be
	// escaped inside the quoted text value.
	assert.True(t, strings.Contains(joined, `\:`))
	assert.True(t, strings.Contains(joined, `\%`))
	assert.True(t, strings.Contains(joined, `'\''`))
	assert.True(t, strings.Contains(joined, "drawtext=text="))
}

func TestConcatArgs(t *testing.T) {
	runner := &recordingRunner{}
	a := newTestAssembler(runner)
	out := filepath.Join(t.TempDir(), "draft.mp4")

	clips := []string{"scene_0_final.mp4", "scene_1_final.mp4", "scene_2_final.mp4"}
	err := a.Concat(context.Background(), clips, out)
	assert.NoError(t, err)

	args := runner.calls[0]
	joined := strings.Join(args, " ")
	// Every clip appears as an input, in order.
	for _, clip := range clips {
		assert.True(t, strings.Contains(joined, "-i "+clip))
	}
	// The filter references all three input pairs and declares n=3.
	assert.True(t, strings.Contains(joined, "[0:v][0:a][1:v][1:a][2:v][2:a]concat=n=3:v=1:a=1[vout][aout]"))
	assert.Equal(t, out, args[len(args)-1])
}

func TestConcatRejectsEmptyInput(t *testing.T) {
	runner := &recordingRunner{}
	a := newTestAssembler(runner)

	err := a.Concat(context.Background(), nil, "draft.mp4")
	var asmErr *model.AssemblyError
	assert.True(t, errors.As(err, &asmErr))
	assert.Equal(t, model.StageConcat, asmErr.Stage)
	// ffmpeg must never have been invoked.
	assert.Equal(t, 0, len(runner.calls))
}

func TestMixBackgroundArgs(t *testing.T) {
	runner := &recordingRunner{}
	a := newTestAssembler(runner)
	out := filepath.Join(t.TempDir(), "final.mp4")

	err := a.MixBackground(context.Background(), "draft.mp4", "background.mp3", 0.5, out)
	assert.NoError(t, err)

	joined := strings.Join(runner.calls[0], " ")
	// The background track loops under the main audio at reduced volume,
	// and -shortest keeps the loop from extending the video.
	assert.True(t, strings.Contains(joined, "-stream_loop -1"))
	assert.True(t, strings.Contains(joined, "volume=0.5"))
	assert.True(t, strings.Contains(joined, "amix=inputs=2:duration=first"))
	assert.True(t, strings.Contains(joined, "-shortest"))
}

func TestProbeDuration(t *testing.T) {
	runner := &recordingRunner{out: "12.48\n"}
	a := newTestAssembler(runner)

	duration, err := a.ProbeDuration(context.Background(), "final.mp4")
	assert.NoError(t, err)
	assert.Equal(t, 12.48, duration)
	assert.Equal(t, "ffprobe", runner.paths[0])

	runner = &recordingRunner{out: "N/A\n"}
	a = newTestAssembler(runner)
	_, err = a.ProbeDuration(context.Background(), "final.mp4")
	assert.Error(t, err)
	var asmErr *model.AssemblyError
	assert.True(t, errors.As(err, &asmErr))
	assert.Equal(t, model.StageProbe, asmErr.Stage)
}

func TestRunFFmpegFailureWrapsStage(t *testing.T) {
	runner := &recordingRunner{out: "some ffmpeg stderr", err: fmt.Errorf("exit status 1")}
	a := newTestAssembler(runner)

	err := a.MuxAudio(context.Background(), "raw.mp4", "narration.mp3", "out.mp4")
	var asmErr *model.AssemblyError
	assert.True(t, errors.As(err, &asmErr))
	assert.Equal(t, model.StageMux, asmErr.Stage)
	// The vendor output rides along for diagnostics.
	assert.True(t, strings.Contains(err.Error(), "some ffmpeg stderr"))
}

// TestRunFFmpegMissingOutput covers the case where ffmpeg exits zero but
// the output file was never written.
func TestRunFFmpegMissingOutput(t *testing.T) {
	runner := &recordingRunner{}
	a := newTestAssembler(runner)
	a.Run = func(_ context.Context, _ string, _ []string) (string, error) {
		return "", nil
	}

	err := a.MuxAudio(context.Background(), "raw.mp4", "narration.mp3", filepath.Join(t.TempDir(), "never_written.mp4"))
	var asmErr *model.AssemblyError
	assert.True(t, errors.As(err, &asmErr))
}
