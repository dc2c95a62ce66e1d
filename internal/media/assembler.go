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

// Package media wraps the local ffmpeg and ffprobe binaries behind the
// deterministic file-to-file operations the pipeline needs: mux narration
// onto a clip, burn subtitle text, concatenate ordered clips, and mix a
// background track under the full video. Each operation writes a new file
// and never mutates its inputs, so a failed step leaves the prior artifact
// intact for retries or inspection.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/datdonq/Education-Music/internal/core/model"
)

// Runner executes an external command and returns its combined output.
// Tests substitute a recording implementation so argument construction can
// be verified without ffmpeg installed.
type Runner func(ctx context.Context, path string, args []string) (output string, err error)

// execRunner is the production Runner backed by os/exec.
func execRunner(ctx context.Context, path string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Assembler performs the local media operations of the pipeline.
type Assembler struct {
	FFmpegPath  string
	FFprobePath string
	Run         Runner
}

// NewAssembler creates an Assembler using the given binary paths. Empty
// paths fall back to resolving "ffmpeg" and "ffprobe" on PATH.
func NewAssembler(ffmpegPath string, ffprobePath string) *Assembler {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Assembler{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath, Run: execRunner}
}

// MuxAudio replaces the clip's audio track with the narration audio. The
// video stream is copied without re-encoding and the output stops at the
// shorter input so a long narration cannot freeze the last frame.
func (a *Assembler) MuxAudio(ctx context.Context, videoPath string, audioPath string, outputPath string) error {
	args := muxAudioArgs(videoPath, audioPath, outputPath)
	return a.runFFmpeg(ctx, model.StageMux, args)
}

// BurnSubtitle draws the subtitle text onto the clip at a fixed position
// near the bottom of the frame.
func (a *Assembler) BurnSubtitle(ctx context.Context, videoPath string, text string, outputPath string) error {
	args := burnSubtitleArgs(videoPath, text, outputPath)
	return a.runFFmpeg(ctx, model.StageSubtitle, args)
}

// Concat joins the clips in the given order into one video. The clips are
// re-encoded through the concat filter so that slight codec differences
// between generated clips cannot break the join. An empty input is
// rejected: the pipeline must never emit a silent empty video.
func (a *Assembler) Concat(ctx context.Context, clipPaths []string, outputPath string) error {
	if len(clipPaths) == 0 {
		return &model.AssemblyError{Stage: model.StageConcat, Err: fmt.Errorf("no clips to concatenate")}
	}
	args := concatArgs(clipPaths, outputPath)
	return a.runFFmpeg(ctx, model.StageConcat, args)
}

// MixBackground mixes a looped background track under the video's existing
// audio at the given volume. The mix ends with the main audio, so the loop
// never extends the video.
func (a *Assembler) MixBackground(ctx context.Context, videoPath string, bgAudioPath string, bgVolume float64, outputPath string) error {
	args := mixBackgroundArgs(videoPath, bgAudioPath, bgVolume, outputPath)
	return a.runFFmpeg(ctx, model.StageMix, args)
}

// ProbeDuration returns the container duration of a media file in seconds.
func (a *Assembler) ProbeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	out, err := a.Run(ctx, a.FFprobePath, args)
	if err != nil {
		return 0, &model.AssemblyError{Stage: model.StageProbe, Err: fmt.Errorf("ffprobe failed: %w: %s", err, out)}
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, &model.AssemblyError{Stage: model.StageProbe, Err: fmt.Errorf("could not parse ffprobe duration %q: %w", out, err)}
	}
	return duration, nil
}

func (a *Assembler) runFFmpeg(ctx context.Context, stage model.Stage, args []string) error {
	out, err := a.Run(ctx, a.FFmpegPath, args)
	if err != nil {
		return &model.AssemblyError{Stage: stage, Err: fmt.Errorf("ffmpeg failed: %w: %s", err, out)}
	}
	if _, statErr := os.Stat(args[len(args)-1]); statErr != nil {
		return &model.AssemblyError{Stage: stage, Err: fmt.Errorf("ffmpeg reported success but output missing: %w", statErr)}
	}
	return nil
}

func muxAudioArgs(videoPath string, audioPath string, outputPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outputPath,
	}
}

func burnSubtitleArgs(videoPath string, text string, outputPath string) []string {
	filter := fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=36:box=1:boxcolor=black@0.5:boxborderw=8:x=(w-text_w)/2:y=h-text_h-40",
		escapeDrawtext(text))
	return []string{
		"-y",
		"-i", videoPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "copy",
		outputPath,
	}
}

func concatArgs(clipPaths []string, outputPath string) []string {
	args := []string{"-y"}
	for _, clip := range clipPaths {
		args = append(args, "-i", clip)
	}
	var labels strings.Builder
	for i := range clipPaths {
		fmt.Fprintf(&labels, "[%d:v][%d:a]", i, i)
	}
	filter := fmt.Sprintf("%sconcat=n=%d:v=1:a=1[vout][aout]", labels.String(), len(clipPaths))
	args = append(args,
		"-filter_complex", filter,
		"-map", "[vout]",
		"-map", "[aout]",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		outputPath,
	)
	return args
}

func mixBackgroundArgs(videoPath string, bgAudioPath string, bgVolume float64, outputPath string) []string {
	filter := fmt.Sprintf(
		"[1:a]volume=%s[bg_vol];[0:a][bg_vol]amix=inputs=2:duration=first:dropout_transition=0[mix]",
		strconv.FormatFloat(bgVolume, 'f', -1, 64))
	return []string{
		"-y",
		"-i", videoPath,
		"-stream_loop", "-1",
		"-i", bgAudioPath,
		"-filter_complex", filter,
		"-map", "0:v:0",
		"-map", "[mix]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outputPath,
	}
}

// escapeDrawtext escapes the characters the drawtext filter treats as
// syntax inside a single-quoted text value.
func escapeDrawtext(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `'\''`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return replacer.Replace(text)
}
