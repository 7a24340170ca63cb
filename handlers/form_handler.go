package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"pcosguard-backend/models"
	"pcosguard-backend/service"

	"github.com/gin-gonic/gin"
)

// SharedForm guards the device's single intake form
type SharedForm struct {
	mu   sync.Mutex
	form *service.IntakeForm
}

// NewSharedForm returns a form holding the default values
func NewSharedForm() *SharedForm {
	return &SharedForm{form: service.NewIntakeForm()}
}

// Values returns the current inputs
func (f *SharedForm) Values() models.AssessmentInputs {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form.Values()
}

// Update applies raw field values in key order. A bad field rejects the whole update.
func (f *SharedForm) Update(fields map[string]string) (models.AssessmentInputs, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f.mu.Lock()
	defer f.mu.Unlock()
	draft := *f.form
	for _, k := range keys {
		if err := draft.Set(k, fields[k]); err != nil {
			return f.form.Values(), err
		}
	}
	*f.form = draft
	return f.form.Values(), nil
}

// Reset restores the default values
func (f *SharedForm) Reset() models.AssessmentInputs {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.form.Reset()
	return f.form.Values()
}

// FormHandler handles HTTP requests for the intake form
type FormHandler struct {
	form *SharedForm
}

// NewFormHandler creates a new form handler
func NewFormHandler(form *SharedForm) *FormHandler {
	return &FormHandler{form: form}
}

func formPayload(values models.AssessmentInputs) gin.H {
	return gin.H{
		"values": values,
		"options": gin.H{
			"bloodGroup":  service.BloodGroups,
			"cycleStatus": service.CycleStatuses,
		},
	}
}

// GetForm handles GET /api/form
func (h *FormHandler) GetForm(c *gin.Context) {
	respondOK(c, http.StatusOK, formPayload(h.form.Values()))
}

// UpdateForm handles PATCH /api/form with a {field: value} body
func (h *FormHandler) UpdateForm(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	fields := make(map[string]string, len(body))
	for k, v := range body {
		fields[k] = rawFormValue(v)
	}

	values, err := h.form.Update(fields)
	if err != nil {
		code := "INVALID_FIELD"
		if errors.Is(err, service.ErrDerivedField) {
			code = "DERIVED_FIELD"
		}
		respondError(c, http.StatusBadRequest, code, err.Error())
		return
	}

	respondOK(c, http.StatusOK, formPayload(values))
}

// ResetForm handles POST /api/form/reset
func (h *FormHandler) ResetForm(c *gin.Context) {
	respondOK(c, http.StatusOK, formPayload(h.form.Reset()))
}

// rawFormValue renders a JSON value the way a browser form would submit it
func rawFormValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
