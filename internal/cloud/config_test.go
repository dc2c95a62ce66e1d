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

// Tests for the hierarchical TOML configuration loader: the base file is
// decoded first and the runtime overlay wins on conflicting keys.
package cloud

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const baseToml = `
[application]
name = "education-video-pipeline"
thread_pool_size = 4
output_dir = "outputs"
continue_on_scene_failure = true

[agent_models."script-writer"]
model = "gemini-2.0-flash"
temperature = 0.6
rate_limit = 1

[generators.video]
base_url = "https://api.example.com"
api_key_env = "VIDEO_API_KEY"
model = "veo2-fast-frames"
duration_seconds = 8
`

const overlayToml = `
[application]
output_dir = "test_outputs"

[generators.video]
base_url = "http://localhost:9"
`

// TestLoadConfigOverlay verifies that the runtime file overrides only the
// keys it names and everything else survives from the base file.
func TestLoadConfigOverlay(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(baseToml), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test.toml"), []byte(overlayToml), 0o644))
	t.Setenv(EnvConfigFilePrefix, dir)
	t.Setenv(EnvConfigRuntime, "test")

	config := NewConfig()
	LoadConfig(&config)

	// Overridden by the overlay.
	assert.Equal(t, "test_outputs", config.Application.OutputDir)
	assert.Equal(t, "http://localhost:9", config.Generators["video"].BaseURL)

	// Carried from the base file.
	assert.Equal(t, "education-video-pipeline", config.Application.Name)
	assert.Equal(t, 4, config.Application.ThreadPoolSize)
	assert.True(t, config.Application.ContinueOnSceneFailure)
	assert.Equal(t, "veo2-fast-frames", config.Generators["video"].Model)
	assert.Equal(t, 8, config.Generators["video"].DurationSeconds)
	assert.Equal(t, "gemini-2.0-flash", config.AgentModels["script-writer"].Model)
	assert.Equal(t, float32(0.6), config.AgentModels["script-writer"].Temperature)
}

// TestLoadConfigMissingFilesIsANoop verifies the loader tolerates a prefix
// with no configuration files, leaving the struct at its zero values.
func TestLoadConfigMissingFilesIsANoop(t *testing.T) {
	t.Setenv(EnvConfigFilePrefix, t.TempDir())
	t.Setenv(EnvConfigRuntime, "test")

	config := NewConfig()
	LoadConfig(&config)
	assert.Equal(t, "", config.Application.Name)
	assert.Equal(t, 0, len(config.Generators))
}
