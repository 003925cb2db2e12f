// Package models defines server-side data models persisted in the database.
package models

import "time"

// Employee is a persisted employee record. ID and Email are fixed at
// creation time.
type Employee struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Gender        string    `json:"gender"`
	Designation   string    `json:"designation"`
	Salary        float64   `json:"salary"`
	DateOfJoining string    `json:"date_of_joining"`
	Department    string    `json:"department"`
	EmployeePhoto *string   `json:"employee_photo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EmployeeChanges are the fields updateEmployee may overwrite.
type EmployeeChanges struct {
	FirstName   string
	LastName    string
	Designation string
	Salary      float64
	Department  string
}

// EmployeeFilter is an equality filter; empty fields are ignored.
type EmployeeFilter struct {
	Designation string
	Department  string
}

// PhotoUpload describes where a client should PUT a photo and the URL to
// record as employee_photo afterwards.
type PhotoUpload struct {
	UploadURL string    `json:"upload_url"`
	PhotoURL  string    `json:"photo_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
