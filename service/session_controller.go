package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"pcosguard-backend/logger"
	"pcosguard-backend/models"
	"pcosguard-backend/repository"

	"github.com/google/uuid"
)

// AnalysisFailedNotice is shown to the user when an assessment cannot be completed
const AnalysisFailedNotice = "Error analyzing clinical data. Please check your inputs."

var (
	ErrNoSession         = errors.New("no user signed in")
	ErrBusy              = errors.New("analysis already in progress")
	ErrInvalidSignUp     = errors.New("name and email are required")
	ErrInvalidTransition = errors.New("transition not allowed from current view")
	ErrInvalidView       = errors.New("unknown or unreachable view")
	ErrResultNotFound    = errors.New("assessment result not found")
)

// Controller owns the state of the single session on this device: who is signed in,
// which view is showing, the loaded results and whether an analysis is in flight.
// All methods are safe for concurrent use; the oracle call runs without holding the lock.
type Controller struct {
	records     *repository.RecordRepository
	assessments *AssessmentService
	log         *logger.Logger

	mu        sync.Mutex
	user      *models.User
	view      models.View
	results   []models.AssessmentResult
	current   *models.AssessmentResult
	busy      bool
	lastError string
}

// ControllerOption is a functional option for Controller
type ControllerOption func(*Controller)

// ControllerWithRecordRepository sets the record repository
func ControllerWithRecordRepository(repo *repository.RecordRepository) ControllerOption {
	return func(c *Controller) {
		c.records = repo
	}
}

// ControllerWithAssessmentService sets the assessment service
func ControllerWithAssessmentService(svc *AssessmentService) ControllerOption {
	return func(c *Controller) {
		c.assessments = svc
	}
}

// ControllerWithLogger sets the logger
func ControllerWithLogger(log *logger.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// NewController creates a controller on the Landing view. Call Restore to load a persisted session.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		view:    models.ViewLanding,
		results: make([]models.AssessmentResult, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	c.log = c.log.With("service", "Controller")
	return c
}

// Restore loads the persisted session: Home with the user's results, or Landing
func (c *Controller) Restore(ctx context.Context) {
	user := c.records.GetCurrentUser(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy = false
	c.current = nil
	c.lastError = ""
	if user == nil {
		c.user = nil
		c.view = models.ViewLanding
		c.results = make([]models.AssessmentResult, 0)
		return
	}

	c.user = user
	c.view = models.ViewHome
	c.results = c.records.ListUserAssessments(ctx, user.ID)
	c.log.Info("session restored", "user_id", user.ID, "results", len(c.results))
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() models.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := models.SessionState{
		View:      c.view,
		Results:   append(make([]models.AssessmentResult, 0, len(c.results)), c.results...),
		Busy:      c.busy,
		LastError: c.lastError,
	}
	if c.user != nil {
		u := *c.user
		state.User = &u
	}
	if c.current != nil {
		r := *c.current
		state.Current = &r
	}
	return state
}

// RecentResults returns at most n of the loaded results, most recent first
func (c *Controller) RecentResults(n int) []models.AssessmentResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > len(c.results) || n < 0 {
		n = len(c.results)
	}
	return append(make([]models.AssessmentResult, 0, n), c.results[:n]...)
}

// BeginSignUp moves Landing -> SignUp
func (c *Controller) BeginSignUp() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != models.ViewLanding && c.view != models.ViewSignUp {
		return ErrInvalidTransition
	}
	c.view = models.ViewSignUp
	return nil
}

// CancelSignUp moves SignUp -> Landing
func (c *Controller) CancelSignUp() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != models.ViewSignUp {
		return ErrInvalidTransition
	}
	c.view = models.ViewLanding
	return nil
}

// SignUpRequest represents a sign-up submission
type SignUpRequest struct {
	Name  string
	Email string
}

// SignUp creates a user, stores it, makes it the session user and shows Home
func (c *Controller) SignUp(ctx context.Context, req SignUpRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return nil, ErrInvalidSignUp
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view != models.ViewLanding && c.view != models.ViewSignUp {
		return nil, ErrInvalidTransition
	}

	user := models.User{
		ID:     "u_" + uuid.NewString(),
		Name:   name,
		Email:  email,
		Avatar: models.AvatarURL(name),
	}

	if err := c.records.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if err := c.records.SetCurrentUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	c.user = &user
	c.view = models.ViewHome
	c.current = nil
	c.lastError = ""
	c.results = c.records.ListUserAssessments(ctx, user.ID)

	c.log.Info("user signed up", "user_id", user.ID)
	out := user
	return &out, nil
}

// StartTest shows the intake view
func (c *Controller) StartTest() error {
	return c.Navigate(models.ViewTest)
}

// Navigate moves between the signed-in views without reloading data.
// Results needs a selected result.
func (c *Controller) Navigate(view models.View) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return ErrNoSession
	}
	if !view.Authenticated() {
		return ErrInvalidView
	}
	if view == models.ViewResults && c.current == nil {
		return ErrResultNotFound
	}

	c.view = view
	if view != models.ViewTest {
		c.lastError = ""
	}
	return nil
}

// FindResult returns a loaded result without selecting it
func (c *Controller) FindResult(id string) (*models.AssessmentResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return nil, ErrNoSession
	}
	for i := range c.results {
		if c.results[i].ID == id {
			out := c.results[i]
			return &out, nil
		}
	}
	return nil, ErrResultNotFound
}

// OpenResult selects a loaded result and shows it
func (c *Controller) OpenResult(id string) (*models.AssessmentResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return nil, ErrNoSession
	}
	for i := range c.results {
		if c.results[i].ID == id {
			r := c.results[i]
			c.current = &r
			c.view = models.ViewResults
			out := r
			return &out, nil
		}
	}
	return nil, ErrResultNotFound
}

// RunTest submits inputs for analysis on behalf of the session user.
// The busy flag is held for the duration of the oracle call and cleared on every path.
// On failure nothing is persisted and the view stays on Test.
func (c *Controller) RunTest(ctx context.Context, inputs models.AssessmentInputs) (*models.AssessmentResult, error) {
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	c.lastError = ""
	c.view = models.ViewTest // submissions come from the intake view
	userID := c.user.ID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	res, err := c.assessments.Analyze(ctx, AnalyzeRequest{UserID: userID, Inputs: inputs})
	if err != nil {
		c.fail(userID, err)
		return nil, err
	}
	result := res.Result

	if err := c.records.SaveAssessment(ctx, result); err != nil {
		c.fail(userID, err)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The session may have changed while the oracle was working
	if c.user == nil || c.user.ID != userID {
		c.log.Warn("session changed during analysis", "user_id", userID, "result_id", result.ID)
		out := result
		return &out, nil
	}

	c.results = append([]models.AssessmentResult{result}, c.results...)
	current := result
	c.current = &current
	c.view = models.ViewResults

	out := result
	return &out, nil
}

func (c *Controller) fail(userID string, err error) {
	c.log.Warn("analysis failed", "user_id", userID, "error", err)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user != nil && c.user.ID == userID {
		c.lastError = AnalysisFailedNotice
	}
}

// Logout clears the session and returns to Landing. Stored users and results are kept.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.records.SetCurrentUser(ctx, nil); err != nil {
		c.log.Error("failed to clear persisted session", "error", err)
	}
	if c.user != nil {
		c.log.Info("user logged out", "user_id", c.user.ID)
	}

	c.user = nil
	c.view = models.ViewLanding
	c.results = make([]models.AssessmentResult, 0)
	c.current = nil
	c.lastError = ""
}
