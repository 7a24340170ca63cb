package models

import (
	"net/url"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

// User represents a signed-up user of this device
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// AvatarURL returns the avatar reference derived from a display name
func AvatarURL(name string) string {
	return avatarBaseURL + "?seed=" + url.QueryEscape(name)
}
