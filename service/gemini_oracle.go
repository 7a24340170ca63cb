package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOracle asks a Gemini model through the generative-ai-go client
type GeminiOracle struct {
	client    *genai.Client
	modelName string
}

// NewGeminiOracle creates a Gemini client for modelName
func NewGeminiOracle(ctx context.Context, apiKey, modelName string) (*GeminiOracle, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiOracle{client: client, modelName: modelName}, nil
}

// assessmentSchema constrains the model output to the verdict fields
func assessmentSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"riskLevel": {
				Type: genai.TypeString,
				Enum: []string{"LOW", "MODERATE", "HIGH"},
			},
			"confidence": {Type: genai.TypeNumber},
			"summary":    {Type: genai.TypeString},
			"recommendations": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"riskLevel", "confidence", "summary", "recommendations"},
	}
}

// Assess sends one prompt and decodes the structured answer
func (o *GeminiOracle) Assess(ctx context.Context, req OracleRequest) (*OracleVerdict, error) {
	model := o.client.GenerativeModel(o.modelName)
	model.SystemInstruction = genai.NewUserContent(genai.Text(req.SystemInstruction))
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = assessmentSchema()

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return parseVerdict(text)
}

// Close releases the underlying client
func (o *GeminiOracle) Close() error {
	return o.client.Close()
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini candidate has no parts (finish reason: %s)", candidate.FinishReason)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("gemini returned empty content")
	}
	return b.String(), nil
}
