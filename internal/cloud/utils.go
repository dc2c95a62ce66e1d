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

// This file contains general-purpose helpers for the cloud package:
// hierarchical TOML configuration loading and resilient calls against the
// Generative AI API with retry accounting.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/BurntSushi/toml"
	"google.golang.org/genai"
)

// Constants for configuration loading and API retry policy.
const (
	ConfigFileBaseName  = ".env"                   // The base name for configuration files (e.g. ".env.toml").
	ConfigFileExtension = ".toml"                  // The file extension for configuration files.
	ConfigSeparator     = "."                      // The separator used in config file names (e.g. ".env.local.toml").
	EnvConfigFilePrefix = "PIPELINE_CONFIG_PREFIX" // Environment variable naming the config directory.
	EnvConfigRuntime    = "PIPELINE_RUNTIME"       // Environment variable naming the runtime (e.g. "local", "test").
	MaxRetries          = 3                        // Maximum attempts for a failed model call.
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig implements hierarchical configuration loading: it decodes the
// base configuration file, then overlays the runtime-specific file so that
// environment overrides win. Both paths derive from environment variables.
//
// Inputs:
//   - baseConfig: a pointer to the configuration struct to populate.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "local"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}

// ResolveAPIKey reads the API key named by a generator endpoint from the
// environment. An empty variable name or value is an error so that
// misconfigured deployments fail at startup rather than mid-run.
func ResolveAPIKey(endpoint GeneratorEndpoint) (string, error) {
	if endpoint.APIKeyEnv == "" {
		return "", errors.New("generator endpoint has no api_key_env configured")
	}
	key := os.Getenv(endpoint.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is empty", endpoint.APIKeyEnv)
	}
	return key, nil
}

// GenerateMultiModalResponse executes a multi-modal request against a
// Generative AI model, recording token usage and retry counts. Retries are
// delegated to the quota-aware model wrapper; this function only accounts
// for them and strips markdown fencing from JSON responses.
//
// Outputs:
//   - string: the concatenated text content of the model's response.
//   - error: an error if the request fails after all retries.
func GenerateMultiModalResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	retryCounter metric.Int64Counter,
	model *QuotaAwareGenerativeAIModel,
	content []*genai.Content) (value string, err error) {
	resp, attempts, err := model.GenerateContentWithRetry(ctx, content)
	if attempts > 1 {
		retryCounter.Add(ctx, int64(attempts-1))
	}
	if err != nil {
		return "", err
	}

	if resp.UsageMetadata != nil {
		inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	value = ""
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				value += part.Text
			}
		}
	}
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "```json")
	value = strings.TrimPrefix(value, "```")
	value = strings.TrimSuffix(value, "```")
	return strings.TrimSpace(value), nil
}

// NewTextPart creates the content slice for a plain text prompt.
func NewTextPart(in string) []*genai.Content {
	return genai.Text(in)
}

// NewInlineImagePart wraps raw image bytes as an inline prompt part so a
// reference image can ride along with a text prompt.
func NewInlineImagePart(data []byte, mimeType string) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}}
}
