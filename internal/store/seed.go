package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/djahern-max/campusconnect-backend/internal/model"
)

// SeedFile is the YAML document accepted by SeedFromFile. It carries
// directory content only; accounts and billing state are never seeded.
type SeedFile struct {
	Institutions []SeedInstitution `yaml:"institutions"`
	Scholarships []SeedScholarship `yaml:"scholarships"`
}

// SeedInstitution defines an institution in a seed file.
type SeedInstitution struct {
	IPEDSID           int64    `yaml:"ipeds_id"`
	Name              string   `yaml:"name"`
	City              string   `yaml:"city"`
	State             string   `yaml:"state"`
	ControlType       string   `yaml:"control_type"`
	Website           string   `yaml:"website"`
	SizeCategory      string   `yaml:"size_category"`
	Locale            string   `yaml:"locale"`
	TuitionInState    *float64 `yaml:"tuition_in_state"`
	TuitionOutOfState *float64 `yaml:"tuition_out_of_state"`
	RoomAndBoard      *float64 `yaml:"room_and_board"`
	AcceptanceRate    *float64 `yaml:"acceptance_rate"`
	IsFeatured        bool     `yaml:"is_featured"`
}

// SeedScholarship defines a scholarship in a seed file.
type SeedScholarship struct {
	Title           string   `yaml:"title"`
	Organization    string   `yaml:"organization"`
	ScholarshipType string   `yaml:"scholarship_type"`
	AmountMin       int64    `yaml:"amount_min"`
	AmountMax       int64    `yaml:"amount_max"`
	IsRenewable     bool     `yaml:"is_renewable"`
	NumberOfAwards  *int64   `yaml:"number_of_awards"`
	Description     string   `yaml:"description"`
	WebsiteURL      string   `yaml:"website_url"`
	MinGPA          *float64 `yaml:"min_gpa"`
	Verified        bool     `yaml:"verified"`
	Featured        bool     `yaml:"featured"`
}

// SeedFromFile loads directory content from a YAML file. Institutions that
// already exist (by IPEDS id) are skipped, so re-running a seed is safe.
// Returns counts of inserted institutions and scholarships.
func (s *Store) SeedFromFile(ctx context.Context, path string) (int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, 0, fmt.Errorf("parse seed file: %w", err)
	}

	var institutions, scholarships int
	for _, si := range seed.Institutions {
		inst := &model.Institution{
			IPEDSID:           si.IPEDSID,
			Name:              si.Name,
			City:              si.City,
			State:             si.State,
			ControlType:       si.ControlType,
			Website:           si.Website,
			SizeCategory:      si.SizeCategory,
			Locale:            si.Locale,
			TuitionInState:    si.TuitionInState,
			TuitionOutOfState: si.TuitionOutOfState,
			RoomAndBoard:      si.RoomAndBoard,
			AcceptanceRate:    si.AcceptanceRate,
			IsFeatured:        si.IsFeatured,
		}
		if err := s.CreateInstitution(ctx, inst); err != nil {
			if errors.Is(err, ErrDuplicate) {
				continue
			}
			return institutions, scholarships, fmt.Errorf("seed institution %q: %w", si.Name, err)
		}
		institutions++
	}

	for _, ss := range seed.Scholarships {
		sch := &model.Scholarship{
			Title:           ss.Title,
			Organization:    ss.Organization,
			ScholarshipType: ss.ScholarshipType,
			AmountMin:       ss.AmountMin,
			AmountMax:       ss.AmountMax,
			IsRenewable:     ss.IsRenewable,
			NumberOfAwards:  ss.NumberOfAwards,
			Description:     ss.Description,
			WebsiteURL:      ss.WebsiteURL,
			MinGPA:          ss.MinGPA,
			Verified:        ss.Verified,
			Featured:        ss.Featured,
		}
		if err := s.CreateScholarship(ctx, sch); err != nil {
			return institutions, scholarships, fmt.Errorf("seed scholarship %q: %w", ss.Title, err)
		}
		scholarships++
	}
	return institutions, scholarships, nil
}
