package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wavebot/internal/entities"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) AccountByID(ctx context.Context, id string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.QueryRow(ctx,
		"SELECT user_id, COALESCE(user_phone, ''), whatsapp_integrated FROM user_data WHERE user_id = $1",
		id).Scan(&account.ID, &account.Phone, &account.WhatsAppIntegrated)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) AccountByPhone(ctx context.Context, phone string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.QueryRow(ctx,
		"SELECT user_id, COALESCE(user_phone, ''), whatsapp_integrated FROM user_data WHERE user_phone = $1",
		phone).Scan(&account.ID, &account.Phone, &account.WhatsAppIntegrated)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// BindPhone performs the conditional registration update. The guard on
// whatsapp_integrated makes two racing first messages resolve to exactly one
// winner; the loser sees zero rows affected.
func (r *AccountRepository) BindPhone(ctx context.Context, accountID, phone string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_data
		 SET whatsapp_integrated = TRUE, user_phone = $2
		 WHERE user_id = $1 AND whatsapp_integrated = FALSE`,
		accountID, phone)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
