package model

import "time"

// DisplaySettings controls which sections of an entity's public profile are
// rendered, plus premium-only custom content. One row per entity.
type DisplaySettings struct {
	ID         int64  `json:"id" db:"id"`
	EntityType string `json:"entity_type" db:"entity_type"`
	EntityID   int64  `json:"entity_id" db:"entity_id"`

	ShowStats        bool `json:"show_stats" db:"show_stats"`
	ShowFinancial    bool `json:"show_financial" db:"show_financial"`
	ShowRequirements bool `json:"show_requirements" db:"show_requirements"`
	ShowImageGallery bool `json:"show_image_gallery" db:"show_image_gallery"`
	ShowVideo        bool `json:"show_video" db:"show_video"`
	ShowExtendedInfo bool `json:"show_extended_info" db:"show_extended_info"`

	// Premium-only content.
	CustomTagline       string `json:"custom_tagline,omitempty" db:"custom_tagline"`
	CustomDescription   string `json:"custom_description,omitempty" db:"custom_description"`
	ExtendedDescription string `json:"extended_description,omitempty" db:"extended_description"`

	LayoutStyle  string `json:"layout_style" db:"layout_style"`
	PrimaryColor string `json:"primary_color,omitempty" db:"primary_color"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultDisplaySettings returns the settings created on an entity's first
// read: core sections on, premium sections off.
func DefaultDisplaySettings(entityType string, entityID int64) *DisplaySettings {
	return &DisplaySettings{
		EntityType:       entityType,
		EntityID:         entityID,
		ShowStats:        true,
		ShowFinancial:    true,
		ShowRequirements: true,
		LayoutStyle:      "standard",
	}
}

// ExtendedInfo holds the long-form editorial sections a premium entity can
// publish on its profile. One row per entity. CustomSections is a JSON blob
// of caller-defined {title, body} sections.
type ExtendedInfo struct {
	ID         int64  `json:"id" db:"id"`
	EntityType string `json:"entity_type" db:"entity_type"`
	EntityID   int64  `json:"entity_id" db:"entity_id"`

	CampusDescription string `json:"campus_description,omitempty" db:"campus_description"`
	StudentLife       string `json:"student_life,omitempty" db:"student_life"`
	HousingInfo       string `json:"housing_info,omitempty" db:"housing_info"`
	ProgramsOverview  string `json:"programs_overview,omitempty" db:"programs_overview"`
	FinancialAidInfo  string `json:"financial_aid_info,omitempty" db:"financial_aid_info"`
	AthleticsOverview string `json:"athletics_overview,omitempty" db:"athletics_overview"`
	LocationHighlight string `json:"location_highlights,omitempty" db:"location_highlights"`
	FacilitiesInfo    string `json:"facilities_overview,omitempty" db:"facilities_overview"`
	CustomSections    string `json:"custom_sections,omitempty" db:"custom_sections"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
