package models

// View represents the screen the session is currently showing
type View string

const (
	ViewLanding View = "landing"
	ViewSignUp  View = "signup"
	ViewHome    View = "home"
	ViewTest    View = "test"
	ViewResults View = "results"
	ViewHistory View = "history"
)

// Authenticated reports whether the view is only reachable with a session user
func (v View) Authenticated() bool {
	switch v {
	case ViewHome, ViewTest, ViewResults, ViewHistory:
		return true
	default:
		return false
	}
}

// SessionState is a read-only copy of the controller state
type SessionState struct {
	User      *User              `json:"user"`
	View      View               `json:"view"`
	Results   []AssessmentResult `json:"results"`
	Current   *AssessmentResult  `json:"current,omitempty"`
	Busy      bool               `json:"busy"`
	LastError string             `json:"lastError,omitempty"`
}
