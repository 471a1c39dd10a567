package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"altheia/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

type VerifyResponse struct {
	IsValid  bool         `json:"isValid"`
	Token    string       `json:"token"`
	UserInfo *models.User `json:"userInfo"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

// VerifySession asks the API whether the credentials on ctx still describe a
// live session.
func (c *Client) VerifySession(ctx context.Context) (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify-token", nil, &resp); err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

type PatientRegistration struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	DocumentID  string `json:"documentId"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
}

type PhysicianRegistration struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Phone         string `json:"phone"`
	DocumentID    string `json:"documentId"`
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"licenseNumber"`
	ClinicID      string `json:"clinicId,omitempty"`
}

type ReceptionistRegistration struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	DocumentID string `json:"documentId"`
	ClinicID   string `json:"clinicId,omitempty"`
}

type LabTechnicianRegistration struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Phone         string `json:"phone"`
	DocumentID    string `json:"documentId"`
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"licenseNumber"`
	ClinicID      string `json:"clinicId,omitempty"`
}

func (c *Client) RegisterPatient(ctx context.Context, req PatientRegistration) error {
	if err := c.do(ctx, http.MethodPost, "/patient/register", req, nil); err != nil {
		return fmt.Errorf("register patient: %w", err)
	}
	return nil
}

func (c *Client) RegisterPhysician(ctx context.Context, req PhysicianRegistration) error {
	if err := c.do(ctx, http.MethodPost, "/physician/register", req, nil); err != nil {
		return fmt.Errorf("register physician: %w", err)
	}
	return nil
}

func (c *Client) RegisterReceptionist(ctx context.Context, req ReceptionistRegistration) error {
	if err := c.do(ctx, http.MethodPost, "/receptionist/register", req, nil); err != nil {
		return fmt.Errorf("register receptionist: %w", err)
	}
	return nil
}

func (c *Client) RegisterLabTechnician(ctx context.Context, req LabTechnicianRegistration) error {
	if err := c.do(ctx, http.MethodPost, "/lab-technician/register", req, nil); err != nil {
		return fmt.Errorf("register lab technician: %w", err)
	}
	return nil
}

type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// UpdateProfile returns the user as stored by the API after the update.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", req, &user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}
