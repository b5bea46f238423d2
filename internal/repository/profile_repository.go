package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wavebot/internal/entities"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `profiles_id, female_user_id, male_user_id, profile_status,
	female_nudge_status, male_nudge_status,
	female_allow_two_way_conversation, male_allow_two_way_conversation, created_at`

func scanProfile(row pgx.Row) (*entities.MatchProfile, error) {
	var p entities.MatchProfile
	var femaleNudge, maleNudge string
	err := row.Scan(&p.ID, &p.FemaleUserID, &p.MaleUserID, &p.Status,
		&femaleNudge, &maleNudge,
		&p.FemaleAllowTwoWay, &p.MaleAllowTwoWay, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	p.FemaleNudge = entities.ParseNudgeStatus(femaleNudge)
	p.MaleNudge = entities.ParseNudgeStatus(maleNudge)
	return &p, nil
}

// LatestProfileForAccount returns the most recently created profile that
// references the account on either side, or nil when there is none.
func (r *ProfileRepository) LatestProfileForAccount(ctx context.Context, accountID string) (*entities.MatchProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles
		 WHERE female_user_id = $1 OR male_user_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		accountID)
	return scanProfile(row)
}

func (r *ProfileRepository) ProfileByID(ctx context.Context, id string) (*entities.MatchProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE profiles_id = $1`, id)
	return scanProfile(row)
}

// DisableTwoWay clears the two-way conversation flag for whichever side of
// the profile matches userID. Returns false when the user is on neither side.
func (r *ProfileRepository) DisableTwoWay(ctx context.Context, profileID, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET
			female_allow_two_way_conversation = female_allow_two_way_conversation AND female_user_id <> $2,
			male_allow_two_way_conversation   = male_allow_two_way_conversation AND male_user_id <> $2
		 WHERE profiles_id = $1 AND (female_user_id = $2 OR male_user_id = $2)`,
		profileID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UserContext loads the redacted persona and the allow-listed metadata for
// one account, pre-serialized for prompt interpolation.
func (r *ProfileRepository) UserContext(ctx context.Context, accountID string) (entities.UserContext, error) {
	var rawPersona []byte
	err := r.db.QueryRow(ctx,
		"SELECT user_persona FROM user_personas WHERE user_id = $1",
		accountID).Scan(&rawPersona)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.UserContext{}, fmt.Errorf("user persona not found for user %s", accountID)
	}
	if err != nil {
		return entities.UserContext{}, err
	}

	persona, err := entities.RedactPersona(rawPersona)
	if err != nil {
		return entities.UserContext{}, fmt.Errorf("redact persona for user %s: %w", accountID, err)
	}

	var md entities.UserMetadata
	err = r.db.QueryRow(ctx,
		`SELECT user_id, COALESCE(name, ''), COALESCE(gender, ''), COALESCE(height, ''),
			COALESCE(religion, ''), COALESCE(hometown, ''), COALESCE(work_exp, ''), COALESCE(education, '')
		 FROM user_metadata WHERE user_id = $1`,
		accountID).Scan(&md.UserID, &md.Name, &md.Gender, &md.Height,
		&md.Religion, &md.Hometown, &md.WorkExp, &md.Education)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.UserContext{}, fmt.Errorf("user metadata not found for user %s", accountID)
	}
	if err != nil {
		return entities.UserContext{}, err
	}

	metadata, err := json.Marshal(md)
	if err != nil {
		return entities.UserContext{}, err
	}

	return entities.UserContext{
		Persona:  persona,
		Metadata: string(metadata),
	}, nil
}
