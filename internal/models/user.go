package models

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Role represents the user role fixed at signup
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	return r == RoleMentor || r == RoleMentee
}

// User represents an account with its profile. PasswordHash is never
// serialized to API responses.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Skills       []string  `json:"skills,omitempty"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DefaultImageURL returns the placeholder image served for users who have
// not uploaded a profile image
func DefaultImageURL(role Role) string {
	return "https://placehold.co/500x500.jpg?text=" + strings.ToUpper(string(role))
}

// ImageOrDefault returns the uploaded image URL, falling back to the
// role-keyed placeholder
func (u *User) ImageOrDefault() string {
	if u.ImageURL != "" {
		return u.ImageURL
	}
	return DefaultImageURL(u.Role)
}

// MentorSummary is the directory listing view of a mentor
type MentorSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
	ImageURL string   `json:"imageUrl"`
}

// Summary projects a mentor user into its directory listing view
func (u *User) Summary() *MentorSummary {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return &MentorSummary{
		ID:       u.ID,
		Name:     u.Name,
		Bio:      u.Bio,
		Skills:   skills,
		ImageURL: u.ImageOrDefault(),
	}
}

// PrimarySkill returns the first skill, used for skill-ordered directory listings
func (m *MentorSummary) PrimarySkill() string {
	if len(m.Skills) == 0 {
		return ""
	}
	return m.Skills[0]
}

// HasSkill reports whether any skill matches the filter as a
// case-insensitive substring.
func (m *MentorSummary) HasSkill(filter string) bool {
	needle := strings.ToLower(filter)
	for _, s := range m.Skills {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// SignupRequest is the payload for account creation
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,max=100"`
	Role     Role   `json:"role" binding:"required,oneof=mentor mentee"`
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

// UpdateProfileRequest is the payload for profile mutation. Pointer fields
// distinguish "absent" from "set to empty".
type UpdateProfileRequest struct {
	Name   *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Bio    *string  `json:"bio,omitempty" binding:"omitempty,max=2000"`
	Skills []string `json:"skills,omitempty" binding:"omitempty,max=20,dive,min=1,max=50"`
}

// MentorListResponse is the response for the mentor directory listing
type MentorListResponse struct {
	Mentors []MentorSummary `json:"mentors"`
	Total   int             `json:"total"`
}

// ScanUser scans a single PostgreSQL row into a User struct
// Expected columns: id, email, password_hash, role, name, bio, skills, image_url, created_at
func ScanUser(row pgx.Row) (*User, error) {
	var u User
	var bio *string
	var imageURL *string
	var skills []string

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Name,
		&bio,
		&skills,
		&imageURL,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bio != nil {
		u.Bio = *bio
	}
	if imageURL != nil {
		u.ImageURL = *imageURL
	}
	u.Skills = skills

	return &u, nil
}

// ScanUsers scans multiple PostgreSQL rows into a slice of User structs
func ScanUsers(rows pgx.Rows) ([]*User, error) {
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		user, err := ScanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
