package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"altheia/internal/models"
)

func (c *Client) Appointments(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", nil, &out); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

func (c *Client) Patients(ctx context.Context) ([]models.Patient, error) {
	var out []models.Patient
	if err := c.do(ctx, http.MethodGet, "/patient", nil, &out); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

func (c *Client) Clinic(ctx context.Context) (*models.Clinic, error) {
	var out models.Clinic
	if err := c.do(ctx, http.MethodGet, "/clinic", nil, &out); err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return &out, nil
}

func (c *Client) Staff(ctx context.Context) ([]models.StaffMember, error) {
	var out []models.StaffMember
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return out, nil
}

func (c *Client) LabOrders(ctx context.Context) ([]models.LabOrder, error) {
	var out []models.LabOrder
	if err := c.do(ctx, http.MethodGet, "/lab-orders", nil, &out); err != nil {
		return nil, fmt.Errorf("list lab orders: %w", err)
	}
	return out, nil
}

func (c *Client) MedicalRecords(ctx context.Context) ([]models.MedicalRecord, error) {
	var out []models.MedicalRecord
	if err := c.do(ctx, http.MethodGet, "/medical-records", nil, &out); err != nil {
		return nil, fmt.Errorf("list medical records: %w", err)
	}
	return out, nil
}
