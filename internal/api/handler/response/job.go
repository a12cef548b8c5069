package response

import (
	"encoding/json"
	"time"
)

type PrintJobResponseDTO struct {
	ID           uint            `json:"id"`
	DocumentName string          `json:"documentName"`
	DocumentURL  string          `json:"documentUrl"`
	PrinterID    uint            `json:"printerId"`
	UserID       uint            `json:"userId"`
	Status       string          `json:"status"`
	Copies       int             `json:"copies"`
	Duplex       bool            `json:"duplex"`
	Orientation  string          `json:"orientation"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Error        string          `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
}

type SubmitJobResponseDTO struct {
	JobID  uint   `json:"jobId"`
	Status string `json:"status"`
}

type RecentActivityDTO struct {
	JobID        uint      `json:"jobId"`
	DocumentName string    `json:"documentName"`
	Status       string    `json:"status"`
	PrinterName  string    `json:"printerName"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"createdAt"`
}
