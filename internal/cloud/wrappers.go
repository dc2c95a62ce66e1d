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

// This file wraps the Generative AI model handle with rate limiting and a
// bounded retry budget. Hosted model quotas are enforced per minute, so an
// unthrottled fan-out of scene workers would trip them immediately; the
// wrapper also absorbs transient API failures so a single flaky call does
// not fail a whole scene.
package cloud

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// contentGenerator is the slice of *genai.Models the wrapper uses. Tests
// substitute a scripted implementation to exercise the retry budget.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// QuotaAwareGenerativeAIModel decorates a Gemini model handle with a rate
// limiter and a fixed retry budget with backoff.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             contentGenerator
	RateLimit               *rate.Limiter
	RetryBackoff            time.Duration // Wait between failed attempts.
}

// NewQuotaAwareModel wraps a model handle with a limiter allowing
// requestsPerSecond calls with an equal burst.
func NewQuotaAwareModel(config *genai.GenerateContentConfig, name string, handle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: config,
		ModelName:               name,
		ModelHandle:             handle,
		RateLimit:               rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		RetryBackoff:            10 * time.Second,
	}
}

// GenerateContent runs a single rate-limited, retried generation call.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	resp, _, err := q.GenerateContentWithRetry(ctx, content)
	return resp, err
}

// GenerateContentWithRetry blocks on the rate limiter, then attempts the
// call up to MaxRetries times with a backoff between attempts. It returns
// the number of attempts made so callers can record retry metrics. The
// context is honored both while waiting for a limiter token and between
// attempts, so a cancelled run stops immediately.
func (q *QuotaAwareGenerativeAIModel) GenerateContentWithRetry(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, int, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, 0, err
	}

	var lastErr error
	for attempt := 1; attempt <= MaxRetries; attempt++ {
		resp, err := q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
		if err == nil {
			return resp, attempt, nil
		}
		lastErr = err

		if attempt == MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, attempt, ctx.Err()
		case <-time.After(q.RetryBackoff):
		}
	}
	return nil, MaxRetries, fmt.Errorf("generation failed after %d attempts: %w", MaxRetries, lastErr)
}
