package models

// User identifies the current storefront visitor when the host shell
// provides one. Standalone sessions have no user.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}
