package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"creator-campaign-workers/internal/eligibility"
)

const requirementQuery = `
		SELECT gender_target, min_age, min_followers, requires_public_profile,
		       COALESCE(location_label, ''), COALESCE(gender_label, '')
		FROM campaigns
		WHERE id = $1 AND active = true`

type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Requirement(ctx context.Context, campaignID string) (eligibility.CampaignRequirement, error) {
	var (
		req           eligibility.CampaignRequirement
		genderTarget  string
		minAge        sql.NullInt64
		requirePublic sql.NullBool
	)

	err := s.db.QueryRowContext(ctx, requirementQuery, campaignID).Scan(
		&genderTarget,
		&minAge,
		&req.MinFollowers,
		&requirePublic,
		&req.LocationLabel,
		&req.GenderLabel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return req, fmt.Errorf("%w: %s", ErrCampaignNotFound, campaignID)
		}
		return req, fmt.Errorf("%w: postgres: %v", ErrUnavailable, err)
	}

	req.GenderTarget = normalizeGenderTarget(genderTarget)
	// NULL columns leave the engine defaults in place.
	if minAge.Valid {
		req = req.WithMinAge(int(minAge.Int64))
	}
	if requirePublic.Valid {
		req = req.WithPublicProfile(requirePublic.Bool)
	}
	if err := checkRequirement(campaignID, req); err != nil {
		return eligibility.CampaignRequirement{}, err
	}
	return req, nil
}
