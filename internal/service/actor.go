package service

import "github.com/noah-isme/lab-manager-api/internal/models"

// Actor is the authenticated caller as established by the transport layer.
type Actor struct {
	UserID    string
	Role      models.Role
	ProfileID string
}

// IsStaff reports whether the actor may read any student's records.
func (a Actor) IsStaff() bool {
	return a.Role == models.RoleTeacher || a.Role == models.RoleAdmin
}
