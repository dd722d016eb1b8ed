package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// RequestStatus represents the status of a connection request
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// IsTerminal returns true if no further transitions are allowed
func (s RequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransitionTo checks if a status transition is valid. The only legal
// transitions are pending->accepted and pending->rejected.
func (s RequestStatus) CanTransitionTo(newStatus RequestStatus) bool {
	if s != StatusPending {
		return false
	}
	return newStatus == StatusAccepted || newStatus == StatusRejected
}

// ConnectionRequest represents one mentee's request to connect with one mentor
type ConnectionRequest struct {
	ID        string        `json:"id"`
	MentorID  string        `json:"mentorId"`
	MenteeID  string        `json:"menteeId"`
	Message   string        `json:"message"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`

	// Counterparty is the other side of the request from the caller's
	// perspective: the mentor for mentees, the mentee for mentors.
	Counterparty *MentorSummary `json:"counterparty,omitempty"`
}

// CreateRequestPayload is the payload for creating a connection request
type CreateRequestPayload struct {
	MentorID string `json:"mentorId" binding:"required,uuid"`
	Message  string `json:"message" binding:"max=2000"`
}

// UpdateStatusPayload is the payload for accepting or rejecting a request
type UpdateStatusPayload struct {
	Status RequestStatus `json:"status" binding:"required,oneof=accepted rejected"`
}

// ConnectionRequestsResponse is the response for listing requests
type ConnectionRequestsResponse struct {
	Requests []ConnectionRequest `json:"requests"`
	Total    int                 `json:"total"`
}

// ScanConnectionRequest scans a single PostgreSQL row into a ConnectionRequest
// Expected columns: id, mentor_id, mentee_id, message, status, created_at, updated_at
func ScanConnectionRequest(row pgx.Row) (*ConnectionRequest, error) {
	var r ConnectionRequest
	var message *string

	err := row.Scan(
		&r.ID,
		&r.MentorID,
		&r.MenteeID,
		&message,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if message != nil {
		r.Message = *message
	}

	return &r, nil
}

// ScanConnectionRequests scans multiple rows into a slice of ConnectionRequest structs
func ScanConnectionRequests(rows pgx.Rows) ([]*ConnectionRequest, error) {
	defer rows.Close()

	requests := []*ConnectionRequest{}
	for rows.Next() {
		request, err := ScanConnectionRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}
