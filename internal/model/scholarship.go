package model

import "time"

// Scholarship categories.
const (
	ScholarshipAcademicMerit  = "ACADEMIC_MERIT"
	ScholarshipNeedBased      = "NEED_BASED"
	ScholarshipSTEM           = "STEM"
	ScholarshipArts           = "ARTS"
	ScholarshipDiversity      = "DIVERSITY"
	ScholarshipAthletic       = "ATHLETIC"
	ScholarshipLeadership     = "LEADERSHIP"
	ScholarshipMilitary       = "MILITARY"
	ScholarshipCareerSpecific = "CAREER_SPECIFIC"
)

// Scholarship listing statuses.
const (
	ScholarshipActive   = "ACTIVE"
	ScholarshipInactive = "INACTIVE"
	ScholarshipExpired  = "EXPIRED"
)

// Scholarship is a scholarship directory entry.
type Scholarship struct {
	ID              int64      `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Organization    string     `json:"organization" db:"organization"`
	ScholarshipType string     `json:"scholarship_type" db:"scholarship_type"`
	Status          string     `json:"status" db:"status"`
	DifficultyLevel string     `json:"difficulty_level" db:"difficulty_level"`
	AmountMin       int64      `json:"amount_min" db:"amount_min"`
	AmountMax       int64      `json:"amount_max" db:"amount_max"`
	IsRenewable     bool       `json:"is_renewable" db:"is_renewable"`
	NumberOfAwards  *int64     `json:"number_of_awards,omitempty" db:"number_of_awards"`
	Deadline        *time.Time `json:"deadline,omitempty" db:"deadline"`
	Description     string     `json:"description,omitempty" db:"description"`
	WebsiteURL      string     `json:"website_url,omitempty" db:"website_url"`
	MinGPA          *float64   `json:"min_gpa,omitempty" db:"min_gpa"`
	PrimaryImageURL string     `json:"primary_image_url,omitempty" db:"primary_image_url"`
	Verified        bool       `json:"verified" db:"verified"`
	Featured        bool       `json:"featured" db:"featured"`
	ViewsCount      int64      `json:"views_count" db:"views_count"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
