package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pcosguard-backend/logger"
	"pcosguard-backend/models"
)

var (
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrMissingUserID  = errors.New("user id is required")
)

// AssessmentService turns one questionnaire snapshot into one assessment result
// by delegating the classification to an Oracle
type AssessmentService struct {
	oracle Oracle
	log    *logger.Logger
	now    func() time.Time

	idMu   sync.Mutex
	lastID int64
}

// AssessmentServiceOption is a functional option for AssessmentService
type AssessmentServiceOption func(*AssessmentService)

// WithOracle sets the oracle
func WithOracle(oracle Oracle) AssessmentServiceOption {
	return func(s *AssessmentService) {
		s.oracle = oracle
	}
}

// WithAssessmentLogger sets the logger
func WithAssessmentLogger(log *logger.Logger) AssessmentServiceOption {
	return func(s *AssessmentService) {
		s.log = log
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) AssessmentServiceOption {
	return func(s *AssessmentService) {
		s.now = now
	}
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(opts ...AssessmentServiceOption) *AssessmentService {
	s := &AssessmentService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With("service", "AssessmentService")
	return s
}

// AnalyzeRequest represents a request to assess one snapshot
type AnalyzeRequest struct {
	UserID string
	Inputs models.AssessmentInputs
}

// AnalyzeResult represents the result of an assessment
type AnalyzeResult struct {
	Result models.AssessmentResult
}

// Analyze asks the oracle once. Every failure is reported as ErrAnalysisFailed;
// nothing is retried and no partial result is returned.
func (s *AssessmentService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if s.oracle == nil {
		return nil, fmt.Errorf("%w: oracle not set", ErrAnalysisFailed)
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, ErrMissingUserID)
	}

	oracleReq := OracleRequest{
		SystemInstruction: classifierInstruction,
		Prompt:            buildAssessmentPrompt(req.UserID, req.Inputs),
	}

	started := s.now()
	verdict, err := s.oracle.Assess(ctx, oracleReq)
	if err != nil {
		s.log.Warn("oracle call failed", "user_id", req.UserID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	if verdict == nil {
		return nil, fmt.Errorf("%w: empty verdict", ErrAnalysisFailed)
	}

	now := s.now()
	result := models.AssessmentResult{
		ID:              s.nextResultID(now),
		UserID:          req.UserID,
		Timestamp:       now.UnixMilli(),
		Inputs:          req.Inputs,
		RiskLevel:       verdict.RiskLevel,
		Confidence:      verdict.Confidence,
		Summary:         verdict.Summary,
		Recommendations: verdict.Recommendations,
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}

	s.log.Info("assessment completed",
		"user_id", req.UserID,
		"result_id", result.ID,
		"risk_level", result.RiskLevel,
		"duration", now.Sub(started),
	)

	return &AnalyzeResult{Result: result}, nil
}

// nextResultID derives "rpt_<unix ms>" from now, moving forward when the clock
// has not advanced past the previous id
func (s *AssessmentService) nextResultID(now time.Time) string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	ms := now.UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	return fmt.Sprintf("rpt_%d", ms)
}
