package models

import "time"

type Appointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	PhysicianID string    `json:"physicianId"`
	Physician   string    `json:"physicianName"`
	Date        time.Time `json:"date"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"` // "scheduled", "completed", "cancelled"
}

type Patient struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
	DocumentID  string `json:"documentId"`
}

type Clinic struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	Email    string   `json:"email"`
	Hours    string   `json:"hours"`
	Services []string `json:"services"`
}

type StaffMember struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	Status string   `json:"status"`
}

type LabOrder struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	Test        string    `json:"test"`
	OrderedBy   string    `json:"orderedBy"`
	Status      string    `json:"status"` // "pending", "in_progress", "completed"
	CreatedAt   time.Time `json:"createdAt"`
}

type MedicalRecord struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	Physician   string    `json:"physicianName"`
	Diagnosis   string    `json:"diagnosis"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
}
