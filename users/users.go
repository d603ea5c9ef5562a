package users

import "github.com/jrsteele09/go-classroom-client/api"

// RoleType is the role the backend assigns to an account
type RoleType string

const (
	RoleAdmin   RoleType = "admin"   // Can approve bookings and manage classrooms, announcements and the blacklist
	RoleTeacher RoleType = "teacher" // Supervises bookings
	RoleStudent RoleType = "student" // Regular borrower
)

// Profile is the signed-in user's profile as served by /users/profile
type Profile struct {
	UserID      api.ID   `json:"user_id,omitempty"`      // Unique identifier for the user
	Account     string   `json:"account,omitempty"`      // Login account
	Name        string   `json:"name,omitempty"`         // Display name
	Email       string   `json:"email,omitempty"`        // Contact email
	PhoneNumber string   `json:"phone_number,omitempty"` // Contact phone
	Role        RoleType `json:"role,omitempty"`         // Account role
	Position    string   `json:"position,omitempty"`     // Position or department
}

// DisplayName is the name, falling back to the account
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Account
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
