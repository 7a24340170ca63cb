package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pcosguard-backend/logger"
	"pcosguard-backend/models"
	"pcosguard-backend/storage"
)

// Record keys, one serialized record each
const (
	UsersKey       = "pcos_app_users"
	CurrentUserKey = "pcos_app_current_user"
	ResultsKey     = "pcos_app_results"
)

// RecordRepository persists users, the session user and assessment results.
// Reads never fail: a missing or undecodable record is treated as empty.
// Writes replace the whole record.
type RecordRepository struct {
	store storage.Store
	log   *logger.Logger
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(store storage.Store, log *logger.Logger) *RecordRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordRepository{
		store: store,
		log:   log.With("service", "RecordRepository"),
	}
}

// ListUsers returns every stored user in insertion order
func (r *RecordRepository) ListUsers(ctx context.Context) []models.User {
	users := make([]models.User, 0)
	if !r.read(ctx, UsersKey, &users) || users == nil {
		return make([]models.User, 0)
	}
	return users
}

// SaveUser appends user to the stored users
func (r *RecordRepository) SaveUser(ctx context.Context, user models.User) error {
	users := r.ListUsers(ctx)
	users = append(users, user)
	return r.write(ctx, UsersKey, users)
}

// SetCurrentUser stores the session user; nil removes the session record
func (r *RecordRepository) SetCurrentUser(ctx context.Context, user *models.User) error {
	if user == nil {
		if err := r.store.Delete(ctx, CurrentUserKey); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	}
	return r.write(ctx, CurrentUserKey, user)
}

// GetCurrentUser returns the session user, or nil when nobody is signed in
func (r *RecordRepository) GetCurrentUser(ctx context.Context) *models.User {
	var user *models.User
	if !r.read(ctx, CurrentUserKey, &user) {
		return nil
	}
	return user
}

// SaveAssessment puts result at the front of the stored results
func (r *RecordRepository) SaveAssessment(ctx context.Context, result models.AssessmentResult) error {
	results := r.ListAssessments(ctx)
	results = append([]models.AssessmentResult{result}, results...)
	return r.write(ctx, ResultsKey, results)
}

// ListAssessments returns every stored result, most recent first
func (r *RecordRepository) ListAssessments(ctx context.Context) []models.AssessmentResult {
	results := make([]models.AssessmentResult, 0)
	if !r.read(ctx, ResultsKey, &results) || results == nil {
		return make([]models.AssessmentResult, 0)
	}
	return results
}

// ListUserAssessments returns the results owned by userID, most recent first
func (r *RecordRepository) ListUserAssessments(ctx context.Context, userID string) []models.AssessmentResult {
	all := r.ListAssessments(ctx)
	filtered := make([]models.AssessmentResult, 0, len(all))
	for _, result := range all {
		if result.UserID == userID {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// read decodes key into dst and reports whether a usable value was found
func (r *RecordRepository) read(ctx context.Context, key string, dst interface{}) bool {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.log.Warn("record read failed, treating as empty", "key", key, "error", err)
		}
		return false
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.log.Warn("record corrupt, treating as empty", "key", key, "error", err)
		return false
	}
	return true
}

func (r *RecordRepository) write(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}
