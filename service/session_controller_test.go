package service

import (
	"context"
	"errors"
	"testing"

	"pcosguard-backend/models"
	"pcosguard-backend/repository"
	"pcosguard-backend/storage"
)

func newTestController(t *testing.T, store storage.Store, oracle Oracle) (*Controller, *repository.RecordRepository) {
	t.Helper()
	records := repository.NewRecordRepository(store, nil)
	c := NewController(
		ControllerWithRecordRepository(records),
		ControllerWithAssessmentService(NewAssessmentService(WithOracle(oracle))),
	)
	c.Restore(context.Background())
	return c, records
}

func signUp(t *testing.T, c *Controller, name, email string) *models.User {
	t.Helper()
	if err := c.BeginSignUp(); err != nil {
		t.Fatalf("BeginSignUp: %v", err)
	}
	user, err := c.SignUp(context.Background(), SignUpRequest{Name: name, Email: email})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	return user
}

// blockingOracle holds every call until release is closed
type blockingOracle struct {
	entered chan struct{}
	release chan struct{}
	err     error
}

func newBlockingOracle() *blockingOracle {
	return &blockingOracle{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (o *blockingOracle) Assess(ctx context.Context, req OracleRequest) (*OracleVerdict, error) {
	o.entered <- struct{}{}
	<-o.release
	if o.err != nil {
		return nil, o.err
	}
	return &OracleVerdict{RiskLevel: models.RiskLow, Confidence: 0.3, Summary: "s", Recommendations: []string{"r"}}, nil
}

func TestRestoreWithoutSession(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemoryStorage(), NewStubOracle())
	state := c.Snapshot()
	if state.View != models.ViewLanding || state.User != nil || len(state.Results) != 0 || state.Busy {
		t.Fatalf("initial state: %+v", state)
	}
}

func TestRestoreWithSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	records := repository.NewRecordRepository(store, nil)

	user := models.User{ID: "u_1", Name: "Ada", Email: "ada@example.com"}
	_ = records.SaveUser(ctx, user)
	_ = records.SetCurrentUser(ctx, &user)
	_ = records.SaveAssessment(ctx, models.AssessmentResult{ID: "rpt_1", UserID: "u_1"})
	_ = records.SaveAssessment(ctx, models.AssessmentResult{ID: "rpt_x", UserID: "u_2"})
	_ = records.SaveAssessment(ctx, models.AssessmentResult{ID: "rpt_2", UserID: "u_1"})

	c, _ := newTestController(t, store, NewStubOracle())
	state := c.Snapshot()
	if state.View != models.ViewHome || state.User == nil || state.User.ID != "u_1" {
		t.Fatalf("restored state: %+v", state)
	}
	if len(state.Results) != 2 || state.Results[0].ID != "rpt_2" || state.Results[1].ID != "rpt_1" {
		t.Fatalf("restored results: %+v", state.Results)
	}
}

func TestSignUpFlow(t *testing.T) {
	ctx := context.Background()
	c, records := newTestController(t, storage.NewMemoryStorage(), NewStubOracle())

	if err := c.CancelSignUp(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("CancelSignUp from Landing: want=ErrInvalidTransition got=%v", err)
	}
	if err := c.BeginSignUp(); err != nil {
		t.Fatalf("BeginSignUp: %v", err)
	}
	if err := c.CancelSignUp(); err != nil {
		t.Fatalf("CancelSignUp: %v", err)
	}
	if got := c.Snapshot().View; got != models.ViewLanding {
		t.Fatalf("view after cancel: got=%s", got)
	}

	if _, err := c.SignUp(ctx, SignUpRequest{Name: "  ", Email: "a@example.com"}); !errors.Is(err, ErrInvalidSignUp) {
		t.Fatalf("SignUp blank name: want=ErrInvalidSignUp got=%v", err)
	}

	user := signUp(t, c, "Jane Doe", "jane@example.com")
	if user.Name != "Jane Doe" || user.Email != "jane@example.com" || user.Avatar != models.AvatarURL("Jane Doe") {
		t.Fatalf("user: %+v", user)
	}
	state := c.Snapshot()
	if state.View != models.ViewHome || state.User.ID != user.ID || len(state.Results) != 0 {
		t.Fatalf("state after signup: %+v", state)
	}
	if got := records.GetCurrentUser(ctx); got == nil || got.ID != user.ID {
		t.Fatalf("persisted session: got=%v", got)
	}
	if users := records.ListUsers(ctx); len(users) != 1 || users[0].ID != user.ID {
		t.Fatalf("stored users: got=%v", users)
	}

	if err := c.BeginSignUp(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("BeginSignUp while signed in: want=ErrInvalidTransition got=%v", err)
	}
}

func TestSignUpIDsAreDistinct(t *testing.T) {
	c, records := newTestController(t, storage.NewMemoryStorage(), NewStubOracle())

	a := signUp(t, c, "A", "a@example.com")
	c.Logout(context.Background())
	b := signUp(t, c, "B", "b@example.com")

	if a.ID == b.ID {
		t.Fatalf("duplicate user id %q", a.ID)
	}
	if users := records.ListUsers(context.Background()); len(users) != 2 {
		t.Fatalf("stored users: want=2 got=%d", len(users))
	}
}

func TestRunTestSuccess(t *testing.T) {
	ctx := context.Background()
	c, records := newTestController(t, storage.NewMemoryStorage(), NewStubOracle())
	user := signUp(t, c, "Jane", "jane@example.com")

	if err := c.StartTest(); err != nil {
		t.Fatalf("StartTest: %v", err)
	}
	first, err := c.RunTest(ctx, DefaultAssessmentInputs())
	if err != nil {
		t.Fatalf("RunTest: %v", err)
	}
	if first.UserID != user.ID || first.RiskLevel != models.RiskModerate {
		t.Fatalf("result: %+v", first)
	}

	state := c.Snapshot()
	if state.View != models.ViewResults || state.Busy || state.Current == nil || state.Current.ID != first.ID {
		t.Fatalf("state after run: %+v", state)
	}

	_ = c.StartTest()
	second, err := c.RunTest(ctx, DefaultAssessmentInputs())
	if err != nil {
		t.Fatalf("RunTest: %v", err)
	}

	state = c.Snapshot()
	if len(state.Results) != 2 || state.Results[0].ID != second.ID || state.Results[1].ID != first.ID {
		t.Fatalf("in-memory results not prepended: %+v", state.Results)
	}
	stored := records.ListUserAssessments(ctx, user.ID)
	if len(stored) != 2 || stored[0].ID != second.ID {
		t.Fatalf("stored results: %+v", stored)
	}
	if recent := c.RecentResults(1); len(recent) != 1 || recent[0].ID != second.ID {
		t.Fatalf("RecentResults: %+v", recent)
	}
}

func TestRunTestFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	c, records := newTestController(t, storage.NewMemoryStorage(), &StubOracle{Err: errors.New("quota exceeded")})
	user := signUp(t, c, "Jane", "jane@example.com")
	_ = c.StartTest()

	res, err := c.RunTest(ctx, DefaultAssessmentInputs())
	if !errors.Is(err, ErrAnalysisFailed) || res != nil {
		t.Fatalf("RunTest: want ErrAnalysisFailed and no result, got=%v %v", res, err)
	}

	state := c.Snapshot()
	if state.View != models.ViewTest || state.Busy || state.Current != nil || len(state.Results) != 0 {
		t.Fatalf("state after failure: %+v", state)
	}
	if state.LastError != AnalysisFailedNotice {
		t.Fatalf("LastError: want=%q got=%q", AnalysisFailedNotice, state.LastError)
	}
	if stored := records.ListUserAssessments(ctx, user.ID); len(stored) != 0 {
		t.Fatalf("failed analysis persisted: %+v", stored)
	}

	// Leaving the intake view clears the notice
	if err := c.Navigate(models.ViewHome); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if got := c.Snapshot().LastError; got != "" {
		t.Fatalf("LastError after navigate: got=%q", got)
	}
}

func TestRunTestBusyFlag(t *testing.T) {
	ctx := context.Background()
	oracle := newBlockingOracle()
	c, _ := newTestController(t, storage.NewMemoryStorage(), oracle)
	signUp(t, c, "Jane", "jane@example.com")
	_ = c.StartTest()

	done := make(chan error, 1)
	go func() {
		_, err := c.RunTest(ctx, DefaultAssessmentInputs())
		done <- err
	}()

	<-oracle.entered
	if !c.Snapshot().Busy {
		t.Fatalf("Busy: want true during analysis")
	}
	if _, err := c.RunTest(ctx, DefaultAssessmentInputs()); !errors.Is(err, ErrBusy) {
		t.Fatalf("second RunTest: want=ErrBusy got=%v", err)
	}

	close(oracle.release)
	if err := <-done; err != nil {
		t.Fatalf("RunTest: %v", err)
	}
	if c.Snapshot().Busy {
		t.Fatalf("Busy: want false after success")
	}
}

func TestRunTestBusyClearedOnFailure(t *testing.T) {
	oracle := newBlockingOracle()
	oracle.err = errors.New("timeout")
	c, _ := newTestController(t, storage.NewMemoryStorage(), oracle)
	signUp(t, c, "Jane", "jane@example.com")

	done := make(chan error, 1)
	go func() {
		_, err := c.RunTest(context.Background(), DefaultAssessmentInputs())
		done <- err
	}()
	<-oracle.entered
	close(oracle.release)

	if err := <-done; !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("RunTest: want=ErrAnalysisFailed got=%v", err)
	}
	if c.Snapshot().Busy {
		t.Fatalf("Busy: want false after failure")
	}
}

func TestRunTestWithoutSession(t *testing.T) {
	ctx := context.Background()
	c, records := newTestController(t, storage.NewMemoryStorage(), NewStubOracle())

	if _, err := c.RunTest(ctx, DefaultAssessmentInputs()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("RunTest: want=ErrNoSession got=%v", err)
	}
	if all := records.ListAssessments(ctx); len(all) != 0 {
		t.Fatalf("results stored without session: %+v", all)
	}
	if state := c.Snapshot(); state.View != models.ViewLanding || state.Busy {
		t.Fatalf("state changed: %+v", state)
	}
}

func TestNavigateAndOpenResult(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController(t, storage.NewMemoryStorage(), NewStubOracle())

	if err := c.Navigate(models.ViewHistory); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Navigate without session: want=ErrNoSession got=%v", err)
	}

	signUp(t, c, "Jane", "jane@example.com")

	if err := c.Navigate(models.ViewResults); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("Navigate to Results without selection: want=ErrResultNotFound got=%v", err)
	}
	if err := c.Navigate(models.ViewSignUp); !errors.Is(err, ErrInvalidView) {
		t.Fatalf("Navigate to SignUp: want=ErrInvalidView got=%v", err)
	}
	if err := c.Navigate(models.View("settings")); !errors.Is(err, ErrInvalidView) {
		t.Fatalf("Navigate to unknown view: want=ErrInvalidView got=%v", err)
	}
	if err := c.Navigate(models.ViewHistory); err != nil {
		t.Fatalf("Navigate History: %v", err)
	}

	res, err := c.RunTest(ctx, DefaultAssessmentInputs())
	if err != nil {
		t.Fatalf("RunTest: %v", err)
	}
	_ = c.Navigate(models.ViewHistory)

	found, err := c.FindResult(res.ID)
	if err != nil || found.ID != res.ID {
		t.Fatalf("FindResult: %v %v", found, err)
	}
	if view := c.Snapshot().View; view != models.ViewHistory {
		t.Fatalf("FindResult changed view: got=%s", view)
	}
	if _, err := c.FindResult("rpt_missing"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("FindResult missing: want=ErrResultNotFound got=%v", err)
	}

	opened, err := c.OpenResult(res.ID)
	if err != nil {
		t.Fatalf("OpenResult: %v", err)
	}
	if opened.ID != res.ID || c.Snapshot().View != models.ViewResults {
		t.Fatalf("OpenResult state: %+v", c.Snapshot())
	}
	if _, err := c.OpenResult("rpt_missing"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("OpenResult missing: want=ErrResultNotFound got=%v", err)
	}
}

func TestLogoutKeepsData(t *testing.T) {
	ctx := context.Background()
	c, records := newTestController(t, storage.NewMemoryStorage(), NewStubOracle())
	user := signUp(t, c, "Jane", "jane@example.com")
	if _, err := c.RunTest(ctx, DefaultAssessmentInputs()); err != nil {
		t.Fatalf("RunTest: %v", err)
	}

	c.Logout(ctx)

	state := c.Snapshot()
	if state.View != models.ViewLanding || state.User != nil || state.Current != nil || len(state.Results) != 0 {
		t.Fatalf("state after logout: %+v", state)
	}
	if got := records.GetCurrentUser(ctx); got != nil {
		t.Fatalf("session still persisted: %+v", got)
	}
	if users := records.ListUsers(ctx); len(users) != 1 {
		t.Fatalf("users after logout: %+v", users)
	}
	if stored := records.ListUserAssessments(ctx, user.ID); len(stored) != 1 {
		t.Fatalf("results after logout: %+v", stored)
	}

	// Logging out twice is harmless
	c.Logout(ctx)
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()

	first, _ := newTestController(t, store, NewStubOracle())
	user := signUp(t, first, "Jane", "jane@example.com")
	res, err := first.RunTest(ctx, DefaultAssessmentInputs())
	if err != nil {
		t.Fatalf("RunTest: %v", err)
	}

	second, _ := newTestController(t, store, NewStubOracle())
	state := second.Snapshot()
	if state.View != models.ViewHome || state.User == nil || *state.User != *user {
		t.Fatalf("restored state: %+v", state)
	}
	if len(state.Results) != 1 || state.Results[0].ID != res.ID {
		t.Fatalf("restored results: %+v", state.Results)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c, _ := newTestController(t, storage.NewMemoryStorage(), NewStubOracle())
	signUp(t, c, "Jane", "jane@example.com")

	state := c.Snapshot()
	state.User.Name = "changed"
	if c.Snapshot().User.Name != "Jane" {
		t.Fatalf("snapshot shares user with controller")
	}
}
