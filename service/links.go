package service

import (
	"encoding/json"
	"net/url"
)

const (
	doctorSearchBase = "https://www.practo.com/search/doctors"
	awarenessSite    = "https://www.pcoschallenge.org"
)

// DefaultSpecialty is searched when no specialty is given
const DefaultSpecialty = "PCOS"

// DoctorSearchURL returns the consultation search link for specialty
func DoctorSearchURL(specialty string) string {
	if specialty == "" {
		specialty = DefaultSpecialty
	}
	word, _ := json.Marshal(specialty)
	q := `[{"word":` + string(word) + `}]`
	return doctorSearchBase + "?q=" + url.QueryEscape(q)
}

// AwarenessURL returns the awareness organization link
func AwarenessURL() string {
	return awarenessSite
}
