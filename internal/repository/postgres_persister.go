package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const documentsTable = "notice_board_documents"

// PostgresPersister stores the document as a JSONB row keyed by document name.
type PostgresPersister struct {
	db  *sqlx.DB
	key string
}

// NewPostgresPersister constructs the persister.
func NewPostgresPersister(db *sqlx.DB, key string) *PostgresPersister {
	return &PostgresPersister{db: db, key: key}
}

// EnsureSchema creates the backing table when missing.
func (p *PostgresPersister) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS notice_board_documents (
	key TEXT PRIMARY KEY,
	body JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

// Load fetches the document body.
func (p *PostgresPersister) Load(ctx context.Context) ([]byte, error) {
	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("body").
		From(documentsTable).
		Where(sq.Eq{"key": p.key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build document select: %w", err)
	}

	var body []byte
	if err := p.db.QueryRowxContext(ctx, query, args...).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("select document: %w", err)
	}
	return body, nil
}

// Save upserts the document body.
func (p *PostgresPersister) Save(ctx context.Context, raw []byte) error {
	query, args, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert(documentsTable).
		Columns("key", "body", "updated_at").
		Values(p.key, string(raw), time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build document upsert: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// Location names the table row.
func (p *PostgresPersister) Location() string {
	return fmt.Sprintf("postgres://%s/%s", documentsTable, p.key)
}
