package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiRESTOracle calls the generateContent endpoint directly over HTTP
type GeminiRESTOracle struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiRESTOracle creates a REST oracle for modelName
func NewGeminiRESTOracle(apiKey, modelName string) *GeminiRESTOracle {
	return &GeminiRESTOracle{
		apiKey:     apiKey,
		modelName:  modelName,
		baseURL:    geminiAPIBase,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// WithBaseURL points the oracle at another endpoint root
func (o *GeminiRESTOracle) WithBaseURL(baseURL string) *GeminiRESTOracle {
	o.baseURL = strings.TrimSuffix(baseURL, "/")
	return o
}

type restPart struct {
	Text string `json:"text"`
}

type restContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []restPart `json:"parts"`
}

type restSchema struct {
	Type       string                 `json:"type"`
	Enum       []string               `json:"enum,omitempty"`
	Items      *restSchema            `json:"items,omitempty"`
	Properties map[string]*restSchema `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}

type restRequest struct {
	Contents          []restContent `json:"contents"`
	SystemInstruction *restContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		ResponseMimeType string      `json:"responseMimeType"`
		ResponseSchema   *restSchema `json:"responseSchema"`
	} `json:"generationConfig"`
}

type restResponse struct {
	Candidates []struct {
		Content struct {
			Parts []restPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error,omitempty"`
}

func restAssessmentSchema() *restSchema {
	return &restSchema{
		Type: "OBJECT",
		Properties: map[string]*restSchema{
			"riskLevel":       {Type: "STRING", Enum: []string{"LOW", "MODERATE", "HIGH"}},
			"confidence":      {Type: "NUMBER"},
			"summary":         {Type: "STRING"},
			"recommendations": {Type: "ARRAY", Items: &restSchema{Type: "STRING"}},
		},
		Required: []string{"riskLevel", "confidence", "summary", "recommendations"},
	}
}

// Assess posts one prompt and decodes the structured answer
func (o *GeminiRESTOracle) Assess(ctx context.Context, req OracleRequest) (*OracleVerdict, error) {
	if o.apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}

	body := restRequest{
		Contents: []restContent{{Role: "user", Parts: []restPart{{Text: req.Prompt}}}},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &restContent{Parts: []restPart{{Text: req.SystemInstruction}}}
	}
	body.GenerationConfig.ResponseMimeType = "application/json"
	body.GenerationConfig.ResponseSchema = restAssessmentSchema()

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", o.baseURL, o.modelName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp restResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if apiResp.Error.Message != "" {
		return nil, fmt.Errorf("API error: %s (code: %d)", apiResp.Error.Message, apiResp.Error.Code)
	}
	if apiResp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("API blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}
	if len(apiResp.Candidates) == 0 {
		return nil, errors.New("API returned no candidates")
	}

	var text strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("API returned empty content (finish reason: %s)", apiResp.Candidates[0].FinishReason)
	}

	return parseVerdict(text.String())
}
