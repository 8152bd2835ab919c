package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Roles recognised by the platform. Only students and alumni participate in
// the department-scoped chat pairing; staff roles see an empty peer set.
const (
	RoleStudent = "student"
	RoleAlumni  = "alumni"
	RoleHOD     = "hod"
	RoleHR      = "hr"
	RoleAdmin   = "admin"
)

// User represents a platform account. The realtime subsystem only reads it
// (role/department routing, display fields); account lifecycle is owned by
// the HTTP API.
type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName    string `gorm:"size:50;not null" json:"first_name"`
	LastName     string `gorm:"size:50;not null" json:"last_name"`
	Role         string `gorm:"size:20;not null;index:idx_role_dept" json:"role"`
	Department   string `gorm:"size:100;index:idx_role_dept" json:"department"`
	Company      string `gorm:"size:100" json:"company,omitempty"`
	Designation  string `gorm:"size:100" json:"designation,omitempty"`
	ProfileImage string `gorm:"size:200" json:"profile_image,omitempty"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// Skills is a tag list stored as a PostgreSQL text array.
	Skills         pq.StringArray `gorm:"type:text[]" json:"skills,omitempty"`
	GraduationYear int            `json:"graduation_year,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID for the user if the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// FullName returns the display name used in chat and notification payloads.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
