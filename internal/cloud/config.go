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

// Package cloud holds the application configuration structures, loaded from
// TOML files, plus the clients for the hosted generation services the
// pipeline depends on (Gemini for scripts and seed images, a hosted video
// generator, a hosted speech synthesizer, and a hosted music generator).
//
// Structs:
//   - PromptTemplates: text templates for the prompts sent to GenAI models.
//   - GeminiLLMModel: configuration for a Gemini text or image model.
//   - GeneratorEndpoint: configuration for a poll-based remote generator.
//   - Config: the top-level struct aggregating all of the above.
//
// Functions:
//   - NewConfig: constructor that initializes a Config with empty maps.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings defines the default content safety thresholds for
// GenAI models. The settings are non-restrictive since the pipeline's input
// is trusted operator-supplied lesson material.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// PromptTemplates holds the templates for the prompts the pipeline renders.
type PromptTemplates struct {
	Script string `toml:"script"` // The template for generating the scene script.
	Image  string `toml:"image"`  // The prefix applied to per-scene image prompts.
}

// GeminiLLMModel represents the configuration for a Gemini model used for
// text or image generation.
type GeminiLLMModel struct {
	Model              string  `toml:"model"`               // The model identifier (e.g. "gemini-2.0-flash").
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the model.
	Temperature        float32 `toml:"temperature"`         // Sampling temperature.
	TopP               float32 `toml:"top_p"`               // Nucleus sampling parameter.
	TopK               float32 `toml:"top_k"`               // Top-K sampling parameter.
	MaxTokens          int32   `toml:"max_tokens"`          // Maximum output tokens.
	OutputFormat       string  `toml:"output_format"`       // Desired response MIME type (e.g. "application/json").
	RateLimit          int     `toml:"rate_limit"`          // Requests per second allowed against the model.
}

// GeneratorEndpoint represents the configuration for a poll-based remote
// generation service: a job is submitted, polled until terminal, then the
// produced artifact is downloaded.
type GeneratorEndpoint struct {
	BaseURL               string  `toml:"base_url"`                 // The service's API base URL.
	APIKeyEnv             string  `toml:"api_key_env"`              // Name of the environment variable holding the API key.
	Model                 string  `toml:"model"`                    // The remote model identifier.
	Voice                 string  `toml:"voice"`                    // Voice identifier (speech endpoints only).
	Tags                  string  `toml:"tags"`                     // Style tags (music endpoints only).
	AspectRatio           string  `toml:"aspect_ratio"`             // Output aspect ratio (video endpoints only).
	DurationSeconds       int     `toml:"duration_seconds"`         // Requested clip duration (video endpoints only).
	Speed                 float64 `toml:"speed"`                    // Speech rate multiplier (speech endpoints only).
	PollIntervalInSeconds int     `toml:"poll_interval_in_seconds"` // Delay between job status polls.
	TimeoutInSeconds      int     `toml:"timeout_in_seconds"`       // Overall deadline for a submitted job.
}

// Config represents the overall application configuration, loaded from TOML
// files. It is the root container for all other configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name                   string `toml:"name"`                      // The name of the application.
		ThreadPoolSize         int    `toml:"thread_pool_size"`          // Worker pool size for parallel scene generation.
		OutputDir              string `toml:"output_dir"`                // Root directory for staged uploads and rendered outputs.
		FFmpegPath             string `toml:"ffmpeg_path"`               // Path to the ffmpeg binary.
		FFprobePath            string `toml:"ffprobe_path"`              // Path to the ffprobe binary.
		RunTimeoutInSeconds    int    `toml:"run_timeout_in_seconds"`    // Overall deadline for a full pipeline run.
		ContinueOnSceneFailure bool   `toml:"continue_on_scene_failure"` // Whether a run proceeds with the scenes that succeeded.
		KeepIntermediates      bool   `toml:"keep_intermediates"`        // Whether finished scenes keep their intermediate artifacts on disk.
	} `toml:"application"`
	PromptTemplates PromptTemplates              `toml:"prompt_templates"` // Prompt templates configuration.
	AgentModels     map[string]GeminiLLMModel    `toml:"agent_models"`     // Gemini models keyed by role (e.g. "script-writer", "image-seeder").
	Generators      map[string]GeneratorEndpoint `toml:"generators"`       // Remote generators keyed by role ("video", "speech", "music").
}

// NewConfig creates a new, initialized Config instance. The maps must be
// initialized before the TOML loader populates them.
func NewConfig() *Config {
	return &Config{
		AgentModels: make(map[string]GeminiLLMModel),
		Generators:  make(map[string]GeneratorEndpoint),
	}
}
