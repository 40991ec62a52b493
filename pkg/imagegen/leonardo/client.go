package leonardo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-storyboard-be/pkg/imagegen"
)

const (
	DefaultBaseURL   = "https://cloud.leonardo.ai/api/rest/v1"
	DefaultModelID   = "b2614463-296c-462a-9586-aafdb8f00e36" // Flux Dev
	DefaultStyleUUID = "645e4195-f63d-4715-a3f2-3fb1e6eb8c70" // Illustration
)

type Client struct {
	BaseURL        string
	APIKey         string
	ModelID        string
	StyleUUID      string
	NegativePrompt string
	HTTPClient     *http.Client
}

var _ imagegen.Generator = &Client{}

func NewClient(baseURL, apiKey, modelID, styleUUID, negativePrompt string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if modelID == "" {
		modelID = DefaultModelID
	}
	if styleUUID == "" {
		styleUUID = DefaultStyleUUID
	}
	return &Client{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		APIKey:         apiKey,
		ModelID:        modelID,
		StyleUUID:      styleUUID,
		NegativePrompt: negativePrompt,
		HTTPClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

type generationRequest struct {
	Prompt         string `json:"prompt"`
	ModelID        string `json:"modelId"`
	StyleUUID      string `json:"styleUUID"`
	Contrast       int    `json:"contrast"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	NumImages      int    `json:"num_images"`
	GuidanceScale  int    `json:"guidance_scale"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

type generationResponse struct {
	SDGenerationJob *struct {
		GenerationID string `json:"generationId"`
	} `json:"sdGenerationJob"`
}

type pollResponse struct {
	GenerationsByPK *struct {
		Status          string `json:"status"`
		GeneratedImages []struct {
			URL string `json:"url"`
		} `json:"generated_images"`
	} `json:"generations_by_pk"`
}

func (c *Client) CreateGeneration(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generationRequest{
		Prompt:         prompt,
		ModelID:        c.ModelID,
		StyleUUID:      c.StyleUUID,
		Contrast:       4,
		Width:          1024,
		Height:         768,
		NumImages:      1,
		GuidanceScale:  7,
		NegativePrompt: c.NegativePrompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var out generationResponse
	if err := c.do(ctx, http.MethodPost, "/generations", body, &out); err != nil {
		return "", err
	}
	if out.SDGenerationJob == nil || out.SDGenerationJob.GenerationID == "" {
		return "", &imagegen.APIError{Message: "No generationId returned"}
	}
	return out.SDGenerationJob.GenerationID, nil
}

func (c *Client) GetGeneration(ctx context.Context, generationID string) (*imagegen.Result, error) {
	var out pollResponse
	if err := c.do(ctx, http.MethodGet, "/generations/"+generationID, nil, &out); err != nil {
		return nil, err
	}

	result := &imagegen.Result{Status: imagegen.StatusGenerating}
	if gen := out.GenerationsByPK; gen != nil {
		switch gen.Status {
		case "COMPLETE":
			result.Status = imagegen.StatusComplete
		case "FAILED":
			result.Status = imagegen.StatusFailed
		}
		if len(gen.GeneratedImages) > 0 {
			result.ImageURL = gen.GeneratedImages[0].URL
		}
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &imagegen.APIError{Message: fmt.Sprintf("Failed to connect: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &imagegen.APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &imagegen.APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &imagegen.APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
