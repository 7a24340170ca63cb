package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"pcosguard-backend/models"
)

// OracleRequest is one classification request sent to the external reasoning service
type OracleRequest struct {
	SystemInstruction string
	Prompt            string
}

// OracleVerdict is the structured answer of the oracle, taken verbatim
type OracleVerdict struct {
	RiskLevel       models.RiskLevel `json:"riskLevel"`
	Confidence      float64          `json:"confidence"`
	Summary         string           `json:"summary"`
	Recommendations []string         `json:"recommendations"`
}

// Oracle computes the risk classification for a prompt. Implementations are opaque.
type Oracle interface {
	Assess(ctx context.Context, req OracleRequest) (*OracleVerdict, error)
}

// OracleMode selects the Oracle implementation
type OracleMode string

const (
	OracleModeSDK  OracleMode = "sdk"
	OracleModeREST OracleMode = "rest"
	OracleModeStub OracleMode = "stub"
)

const defaultGeminiModel = "gemini-3-pro-preview"

var errSchemaViolation = errors.New("response does not match schema")

// parseVerdict decodes the oracle's JSON text and checks it against the response schema.
// Values are not range-checked.
func parseVerdict(text string) (*OracleVerdict, error) {
	text = strings.TrimSpace(text)
	// Some models wrap JSON in a markdown fence even with a JSON mime type
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw struct {
		RiskLevel       *string   `json:"riskLevel"`
		Confidence      *float64  `json:"confidence"`
		Summary         *string   `json:"summary"`
		Recommendations *[]string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode oracle response: %w", err)
	}

	switch {
	case raw.RiskLevel == nil:
		return nil, fmt.Errorf("%w: missing riskLevel", errSchemaViolation)
	case raw.Confidence == nil:
		return nil, fmt.Errorf("%w: missing confidence", errSchemaViolation)
	case raw.Summary == nil:
		return nil, fmt.Errorf("%w: missing summary", errSchemaViolation)
	case raw.Recommendations == nil:
		return nil, fmt.Errorf("%w: missing recommendations", errSchemaViolation)
	}

	level := models.RiskLevel(*raw.RiskLevel)
	if !level.Valid() {
		return nil, fmt.Errorf("%w: unknown riskLevel %q", errSchemaViolation, *raw.RiskLevel)
	}

	return &OracleVerdict{
		RiskLevel:       level,
		Confidence:      *raw.Confidence,
		Summary:         *raw.Summary,
		Recommendations: *raw.Recommendations,
	}, nil
}

// StubOracle returns a fixed verdict, or Err when set. Used offline and in tests.
type StubOracle struct {
	Verdict OracleVerdict
	Err     error
}

// NewStubOracle returns a stub answering with a moderate-risk verdict
func NewStubOracle() *StubOracle {
	return &StubOracle{
		Verdict: OracleVerdict{
			RiskLevel:  models.RiskModerate,
			Confidence: 0.5,
			Summary:    "Offline assessment: no external analysis was performed.",
			Recommendations: []string{
				"Consult a gynecologist or endocrinologist",
				"Repeat hormone panel in early follicular phase",
				"Track menstrual cycles for three months",
				"Maintain regular physical activity",
			},
		},
	}
}

func (s *StubOracle) Assess(ctx context.Context, req OracleRequest) (*OracleVerdict, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	v := s.Verdict
	v.Recommendations = append([]string(nil), s.Verdict.Recommendations...)
	return &v, nil
}

// NewOracleFromEnv builds the oracle selected by ORACLE_MODE (sdk by default)
func NewOracleFromEnv(ctx context.Context) (Oracle, error) {
	mode := OracleMode(strings.ToLower(strings.TrimSpace(os.Getenv("ORACLE_MODE"))))
	if mode == "" {
		mode = OracleModeSDK
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	modelName := os.Getenv("GEMINI_MODEL")
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	switch mode {
	case OracleModeSDK:
		return NewGeminiOracle(ctx, apiKey, modelName)
	case OracleModeREST:
		return NewGeminiRESTOracle(apiKey, modelName), nil
	case OracleModeStub:
		return NewStubOracle(), nil
	default:
		return nil, fmt.Errorf("unknown oracle mode: %s", mode)
	}
}
