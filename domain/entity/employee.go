package entity

import (
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

type Employee struct {
	ID              int64     `json:"empid"`
	FirstName       string    `json:"firstname"`
	LastName        string    `json:"lastname"`
	Mail            string    `json:"mail"`
	Username        string    `json:"username"`
	PasswordHash    string    `json:"-"`
	IsActive        bool      `json:"is_active"`
	LeavesAvailable int       `json:"leaves_available"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewEmployee returns an active employee. An empty role means RoleEmployee.
func NewEmployee(firstName, lastName, mail, username, passwordHash, role string, leavesAvailable int) *Employee {
	if role == "" {
		role = RoleEmployee
	}
	now := time.Now()
	return &Employee{
		FirstName:       firstName,
		LastName:        lastName,
		Mail:            mail,
		Username:        username,
		PasswordHash:    passwordHash,
		IsActive:        true,
		LeavesAvailable: leavesAvailable,
		Role:            role,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsValidRole reports whether role is one of the roles the service knows about.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// CanViewAllLeaves reports whether the role may read every employee's leaves.
func CanViewAllLeaves(role string) bool {
	return role == RoleHR || role == RoleAdmin
}

// CanViewAllTimesheets also admits managers.
func CanViewAllTimesheets(role string) bool {
	return role == RoleHR || role == RoleAdmin || role == RoleManager
}

// Deactivate is the soft delete.
func (e *Employee) Deactivate() {
	e.IsActive = false
	e.UpdatedAt = time.Now()
}
