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

// This file initializes and holds all the clients used to talk to the
// hosted generation services. NewServiceClients is called once at startup
// and the resulting container is shared by the workflows, a simple form of
// dependency injection.
//
// Structs:
//   - ServiceClients: container for the GenAI client, the configured agent
//     models, and the poll-based generator adapters.
//
// Functions:
//   - NewServiceClients: factory that configures everything from Config.
package cloud

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"google.golang.org/genai"
)

// Model role keys expected in the agent_models configuration table.
const (
	ModelScriptWriter = "script-writer"
	ModelImageSeeder  = "image-seeder"
)

// Generator role keys expected in the generators configuration table.
const (
	GeneratorVideo  = "video"
	GeneratorSpeech = "speech"
	GeneratorMusic  = "music"
)

// EnvGeminiAPIKey names the environment variable holding the Gemini key.
const EnvGeminiAPIKey = "GEMINI_API_KEY"

// ServiceClients is the central container for every external service the
// pipeline calls.
type ServiceClients struct {
	GenAIClient *genai.Client
	HTTPClient  *http.Client

	// AgentModels holds the configured, rate-limited Gemini models keyed
	// by role (ModelScriptWriter, ModelImageSeeder).
	AgentModels map[string]*QuotaAwareGenerativeAIModel

	ImageGenerator  *ImageGenerator
	VideoGenerator  *VideoGenerator
	SpeechGenerator *SpeechGenerator
	MusicGenerator  *MusicGenerator
}

// NewServiceClients initializes all external service clients from the
// application configuration. Missing model or generator entries and
// unresolved API keys fail here so that a misconfigured deployment never
// accepts work.
func NewServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv(EnvGeminiAPIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %w", err)
	}

	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey, values := range config.AgentModels {
		modelConfig := &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](values.Temperature),
			TopP:            genai.Ptr[float32](values.TopP),
			TopK:            genai.Ptr[float32](values.TopK),
			MaxOutputTokens: values.MaxTokens,
			SafetySettings:  DefaultSafetySettings,
		}
		if values.SystemInstructions != "" {
			modelConfig.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}}
		}
		if values.OutputFormat != "" {
			modelConfig.ResponseMIMEType = values.OutputFormat
		}
		// The image model answers with image parts, not JSON text.
		if amKey == ModelImageSeeder {
			modelConfig.ResponseMIMEType = ""
			modelConfig.ResponseModalities = []string{"TEXT", "IMAGE"}
		}
		agentModels[amKey] = NewQuotaAwareModel(modelConfig, values.Model, gc.Models, values.RateLimit)
	}
	for _, required := range []string{ModelScriptWriter, ModelImageSeeder} {
		if _, ok := agentModels[required]; !ok {
			return nil, fmt.Errorf("agent model %q missing from configuration", required)
		}
	}

	httpClient := &http.Client{Timeout: 3 * time.Minute}

	videoEndpoint, ok := config.Generators[GeneratorVideo]
	if !ok {
		return nil, fmt.Errorf("generator %q missing from configuration", GeneratorVideo)
	}
	videoGen, err := NewVideoGenerator(httpClient, videoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("video generator: %w", err)
	}

	speechEndpoint, ok := config.Generators[GeneratorSpeech]
	if !ok {
		return nil, fmt.Errorf("generator %q missing from configuration", GeneratorSpeech)
	}
	speechGen, err := NewSpeechGenerator(httpClient, speechEndpoint)
	if err != nil {
		return nil, fmt.Errorf("speech generator: %w", err)
	}

	musicEndpoint, ok := config.Generators[GeneratorMusic]
	if !ok {
		return nil, fmt.Errorf("generator %q missing from configuration", GeneratorMusic)
	}
	musicGen, err := NewMusicGenerator(httpClient, musicEndpoint)
	if err != nil {
		return nil, fmt.Errorf("music generator: %w", err)
	}

	return &ServiceClients{
		GenAIClient:     gc,
		HTTPClient:      httpClient,
		AgentModels:     agentModels,
		ImageGenerator:  NewImageGenerator(agentModels[ModelImageSeeder]),
		VideoGenerator:  videoGen,
		SpeechGenerator: speechGen,
		MusicGenerator:  musicGen,
	}, nil
}
