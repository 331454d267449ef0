// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const httpTimeout = 120 * time.Second

// GenerateRequest describes one image generation call.
type GenerateRequest struct {
	Prompt string
	Model  string
	Size   string
}

// GenerateResult holds the raw image bytes returned by the provider.
type GenerateResult struct {
	ImageData []byte
	Model     string
}

// Generator produces images from prompts.
type Generator interface {
	Generate(ctx context.Context, apiKey string, req GenerateRequest) (*GenerateResult, error)
}

// imageClient implements Generator against the OpenAI images endpoint.
type imageClient struct {
	baseURL string
}

func newImageClient() *imageClient {
	return &imageClient{baseURL: "https://api.openai.com/v1"}
}

func (c *imageClient) Generate(ctx context.Context, apiKey string, req GenerateRequest) (*GenerateResult, error) {
	body := map[string]any{
		"model":  req.Model,
		"prompt": req.Prompt,
		"n":      1,
		"size":   req.Size,
	}

	// gpt-image-1 doesn't support response_format
	if req.Model == "dall-e-3" {
		body["response_format"] = "b64_json"
	}

	respBody, err := doJSONRequest(ctx, c.baseURL+"/images/generations", apiKey, body)
	if err != nil {
		return nil, fmt.Errorf("image generation: %w", err)
	}

	var result struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
			URL     string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("image decode: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no image data returned")
	}

	var imgData []byte
	if result.Data[0].B64JSON != "" {
		imgData, err = base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
		if err != nil {
			return nil, fmt.Errorf("image base64 decode: %w", err)
		}
	} else if result.Data[0].URL != "" {
		imgData, err = downloadImage(ctx, result.Data[0].URL)
		if err != nil {
			return nil, fmt.Errorf("image download: %w", err)
		}
	} else {
		return nil, fmt.Errorf("no image data in response")
	}

	return &GenerateResult{ImageData: imgData, Model: req.Model}, nil
}

// doJSONRequest performs a JSON HTTP request with Bearer token auth.
func doJSONRequest(ctx context.Context, url, apiKey string, body any) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: httpTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error (status %d)", resp.StatusCode)
	}

	return respBody, nil
}

// downloadImage downloads an image from a URL.
func downloadImage(ctx context.Context, imgURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imgURL, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
