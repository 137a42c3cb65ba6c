package store

import (
	"fmt"
	"strings"
)

// migrate applies the schema. Statements are idempotent; SQLite's lack of
// ADD COLUMN IF NOT EXISTS is handled by tolerating duplicate-column errors.
// The serial primary key clause is the only dialect-specific DDL.
func (s *Store) migrate() error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		pk = "BIGSERIAL PRIMARY KEY"
	}

	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS institutions (
			id %s,
			ipeds_id BIGINT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			control_type TEXT NOT NULL,
			website TEXT NOT NULL DEFAULT '',
			primary_image_url TEXT NOT NULL DEFAULT '',
			student_faculty_ratio DOUBLE PRECISION,
			size_category TEXT NOT NULL DEFAULT '',
			locale TEXT NOT NULL DEFAULT '',
			tuition_in_state DOUBLE PRECISION,
			tuition_out_of_state DOUBLE PRECISION,
			room_and_board DOUBLE PRECISION,
			acceptance_rate DOUBLE PRECISION,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS scholarships (
			id %s,
			title TEXT NOT NULL,
			organization TEXT NOT NULL,
			scholarship_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			difficulty_level TEXT NOT NULL DEFAULT 'MODERATE',
			amount_min BIGINT NOT NULL,
			amount_max BIGINT NOT NULL,
			is_renewable BOOLEAN NOT NULL DEFAULT FALSE,
			number_of_awards BIGINT,
			deadline TIMESTAMP,
			description TEXT NOT NULL DEFAULT '',
			website_url TEXT NOT NULL DEFAULT '',
			min_gpa DOUBLE PRECISION,
			primary_image_url TEXT NOT NULL DEFAULT '',
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			views_count BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admin_users (
			id %s,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id BIGINT NOT NULL,
			role TEXT NOT NULL DEFAULT 'admin',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS invitation_codes (
			id %s,
			code TEXT UNIQUE NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id BIGINT NOT NULL,
			assigned_email TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			claimed_by BIGINT,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			claimed_at TIMESTAMP,
			created_by TEXT NOT NULL DEFAULT ''
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS subscriptions (
			id %s,
			entity_type TEXT NOT NULL,
			entity_id BIGINT NOT NULL,
			stripe_customer_id TEXT NOT NULL DEFAULT '',
			stripe_subscription_id TEXT NOT NULL DEFAULT '',
			plan_tier TEXT NOT NULL DEFAULT 'free',
			status TEXT NOT NULL DEFAULT 'trialing',
			trial_end TIMESTAMP,
			current_period_start TIMESTAMP,
			current_period_end TIMESTAMP,
			cancel_at_period_end BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(entity_type, entity_id)
		)`, pk),

		// Processed webhook event ids; INSERT-or-ignore on this table is the
		// idempotence gate for event delivery retries.
		`CREATE TABLE IF NOT EXISTS webhook_events (
			event_id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL DEFAULT '',
			received_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS entity_images (
			id %s,
			entity_type TEXT NOT NULL,
			entity_id BIGINT NOT NULL,
			image_url TEXT NOT NULL,
			cdn_url TEXT NOT NULL,
			filename TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			display_order BIGINT NOT NULL DEFAULT 0,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			image_type TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS entity_videos (
			id %s,
			entity_type TEXT NOT NULL,
			entity_id BIGINT NOT NULL,
			video_url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			thumbnail_url TEXT NOT NULL DEFAULT '',
			video_type TEXT NOT NULL DEFAULT '',
			display_order BIGINT NOT NULL DEFAULT 0,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS display_settings (
			id %s,
			entity_type TEXT NOT NULL,
			entity_id BIGINT NOT NULL,
			show_stats BOOLEAN NOT NULL DEFAULT TRUE,
			show_financial BOOLEAN NOT NULL DEFAULT TRUE,
			show_requirements BOOLEAN NOT NULL DEFAULT TRUE,
			show_image_gallery BOOLEAN NOT NULL DEFAULT FALSE,
			show_video BOOLEAN NOT NULL DEFAULT FALSE,
			show_extended_info BOOLEAN NOT NULL DEFAULT FALSE,
			custom_tagline TEXT NOT NULL DEFAULT '',
			custom_description TEXT NOT NULL DEFAULT '',
			extended_description TEXT NOT NULL DEFAULT '',
			layout_style TEXT NOT NULL DEFAULT 'standard',
			primary_color TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(entity_type, entity_id)
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS extended_info (
			id %s,
			entity_type TEXT NOT NULL,
			entity_id BIGINT NOT NULL,
			campus_description TEXT NOT NULL DEFAULT '',
			student_life TEXT NOT NULL DEFAULT '',
			housing_info TEXT NOT NULL DEFAULT '',
			programs_overview TEXT NOT NULL DEFAULT '',
			financial_aid_info TEXT NOT NULL DEFAULT '',
			athletics_overview TEXT NOT NULL DEFAULT '',
			location_highlights TEXT NOT NULL DEFAULT '',
			facilities_overview TEXT NOT NULL DEFAULT '',
			custom_sections TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(entity_type, entity_id)
		)`, pk),

		`CREATE INDEX IF NOT EXISTS idx_institutions_state ON institutions(state)`,
		`CREATE INDEX IF NOT EXISTS idx_scholarships_type ON scholarships(scholarship_type)`,
		`CREATE INDEX IF NOT EXISTS idx_admin_users_email ON admin_users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_invitation_codes_code ON invitation_codes(code)`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_stripe_id ON subscriptions(stripe_subscription_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entity_images_entity ON entity_images(entity_type, entity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entity_videos_entity ON entity_videos(entity_type, entity_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			if strings.Contains(err.Error(), "duplicate column") {
				continue
			}
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
