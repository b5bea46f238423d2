package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wavebot/internal/entities"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Append(ctx context.Context, m entities.StoredMessage) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO whatsapp_messages (user_id, msg_content, msg_id, phone_number, sent_by)
		 VALUES (NULLIF($1, '')::uuid, $2, NULLIF($3, ''), $4, $5)`,
		m.AccountID, m.Content, m.MessageID, m.Phone, m.SentBy)
	return err
}

// Recent returns up to limit of the newest messages, oldest first. When
// accountID is empty the log is filtered by phone and restricted to rows
// that never resolved to an account.
func (r *MessageRepository) Recent(ctx context.Context, accountID, phone string, limit int) ([]entities.StoredMessage, error) {
	var rows pgx.Rows
	var err error
	if accountID != "" {
		rows, err = r.db.Query(ctx,
			`SELECT COALESCE(user_id::text, ''), msg_content, COALESCE(msg_id, ''), phone_number, sent_by
			 FROM (
				SELECT * FROM whatsapp_messages WHERE user_id = $1
				ORDER BY created_at DESC LIMIT $2
			 ) recent ORDER BY created_at ASC`,
			accountID, limit)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT COALESCE(user_id::text, ''), msg_content, COALESCE(msg_id, ''), phone_number, sent_by
			 FROM (
				SELECT * FROM whatsapp_messages WHERE phone_number = $1 AND user_id IS NULL
				ORDER BY created_at DESC LIMIT $2
			 ) recent ORDER BY created_at ASC`,
			phone, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []entities.StoredMessage
	for rows.Next() {
		var m entities.StoredMessage
		if err := rows.Scan(&m.AccountID, &m.Content, &m.MessageID, &m.Phone, &m.SentBy); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
