package model

import "time"

// Institution control types (who operates the school).
const (
	ControlPublic           = "PUBLIC"
	ControlPrivateNonprofit = "PRIVATE_NONPROFIT"
	ControlPrivateForProfit = "PRIVATE_FOR_PROFIT"
)

// Institution is a college or university directory entry. Rows are keyed by
// both the internal id and the federal IPEDS id (unique).
type Institution struct {
	ID                  int64     `json:"id" db:"id"`
	IPEDSID             int64     `json:"ipeds_id" db:"ipeds_id"`
	Name                string    `json:"name" db:"name"`
	City                string    `json:"city" db:"city"`
	State               string    `json:"state" db:"state"`
	ControlType         string    `json:"control_type" db:"control_type"`
	Website             string    `json:"website,omitempty" db:"website"`
	PrimaryImageURL     string    `json:"primary_image_url,omitempty" db:"primary_image_url"`
	StudentFacultyRatio *float64  `json:"student_faculty_ratio,omitempty" db:"student_faculty_ratio"`
	SizeCategory        string    `json:"size_category,omitempty" db:"size_category"`
	Locale              string    `json:"locale,omitempty" db:"locale"`
	TuitionInState      *float64  `json:"tuition_in_state,omitempty" db:"tuition_in_state"`
	TuitionOutOfState   *float64  `json:"tuition_out_of_state,omitempty" db:"tuition_out_of_state"`
	RoomAndBoard        *float64  `json:"room_and_board,omitempty" db:"room_and_board"`
	AcceptanceRate      *float64  `json:"acceptance_rate,omitempty" db:"acceptance_rate"`
	IsFeatured          bool      `json:"is_featured" db:"is_featured"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
