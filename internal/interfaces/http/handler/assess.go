package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mdeadwiler/riskassess/internal/application/assessment"
	"github.com/mdeadwiler/riskassess/internal/domain/risk"
)

var validate = validator.New()

// AssessHandler handles the single transaction-scoring endpoint.
type AssessHandler struct {
	coordinator *assessment.Coordinator
}

// NewAssessHandler creates a new assess handler.
func NewAssessHandler(coordinator *assessment.Coordinator) *AssessHandler {
	return &AssessHandler{coordinator: coordinator}
}

// AssessRequest is the wire shape of a transaction submitted for scoring.
type AssessRequest struct {
	TransactionID   string            `json:"transaction_id" validate:"required"`
	UserID          string            `json:"user_id" validate:"required"`
	Type            string            `json:"type" validate:"required"`
	Amount          string            `json:"amount" validate:"required"`
	Currency        string            `json:"currency" validate:"required,len=3"`
	RecipientID     string            `json:"recipient_id,omitempty"`
	Description     string            `json:"description,omitempty"`
	Location        *LocationRequest  `json:"location,omitempty"`
	Device          *DeviceRequest    `json:"device,omitempty"`
	ForceAssessment bool              `json:"force_assessment,omitempty"`
	Metadata        map[string]any    `json:"metadata,omitempty"`
}

// LocationRequest represents location data in the assess request.
type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	City      string  `json:"city,omitempty"`
	Region    string  `json:"region,omitempty"`
}

// DeviceRequest represents device data in the assess request.
type DeviceRequest struct {
	Fingerprint      string `json:"fingerprint" validate:"required"`
	UserAgent        string `json:"user_agent,omitempty"`
	IPAddress        string `json:"ip_address,omitempty"`
	ScreenResolution string `json:"screen_resolution,omitempty"`
	Timezone         string `json:"timezone,omitempty"`
	Language         string `json:"language,omitempty"`
	Platform         string `json:"platform,omitempty"`
}

// ToTransaction converts the wire request into a domain transaction.
func (r *AssessRequest) ToTransaction() (*risk.Transaction, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	money, err := risk.NewMoney(amount, r.Currency, 2)
	if err != nil {
		return nil, fmt.Errorf("invalid money: %w", err)
	}

	tx := &risk.Transaction{
		ID:          r.TransactionID,
		UserID:      r.UserID,
		Type:        risk.TransactionType(r.Type),
		Amount:      money,
		Timestamp:   time.Now().UTC(),
		RecipientID: r.RecipientID,
		Description: r.Description,
		Metadata:    r.Metadata,
	}

	if r.Location != nil {
		tx.GeoLocation = risk.GeoLocation{
			Latitude:  r.Location.Latitude,
			Longitude: r.Location.Longitude,
			Country:   r.Location.Country,
			City:      r.Location.City,
			Region:    r.Location.Region,
		}
	}

	if r.Device != nil {
		tx.DeviceFingerprint = risk.DeviceFingerprint{
			Fingerprint:      r.Device.Fingerprint,
			UserAgent:        r.Device.UserAgent,
			IPAddress:        r.Device.IPAddress,
			ScreenResolution: r.Device.ScreenResolution,
			Timezone:         r.Device.Timezone,
			Language:         r.Device.Language,
			Platform:         r.Device.Platform,
		}
	}

	return tx, nil
}

// Assess handles POST /api/v1/assessments.
func (h *AssessHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	tx, err := req.ToTransaction()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := h.coordinator.Assess(r.Context(), assessment.Request{
		UserID:          req.UserID,
		Transaction:     tx,
		ForceAssessment: req.ForceAssessment,
	})

	if !resp.Success {
		writeError(w, http.StatusUnprocessableEntity, resp.Error)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
