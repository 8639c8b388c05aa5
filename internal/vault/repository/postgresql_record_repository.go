package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/filevault/internal/database"
	apperrors "github.com/allisson/filevault/internal/errors"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// PostgreSQLRecordRepository implements FileRecord persistence for PostgreSQL.
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

// NewPostgreSQLRecordRepository creates a new PostgreSQL FileRecord repository instance.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}

// Create inserts a new file record into the PostgreSQL database.
func (p *PostgreSQLRecordRepository) Create(ctx context.Context, record *vaultDomain.FileRecord) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO file_records (id, original_filename, content_type, bytes_in, bytes_out, iv, hmac, key_fp, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.OriginalFilename,
		record.ContentType,
		record.BytesIn,
		record.BytesOut,
		record.IV,
		record.Tag,
		record.KeyFingerprint,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create file record")
	}
	return nil
}

// Get retrieves a file record by its artifact id.
func (p *PostgreSQLRecordRepository) Get(ctx context.Context, id string) (*vaultDomain.FileRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, original_filename, content_type, bytes_in, bytes_out, iv, hmac, key_fp, created_at
			  FROM file_records
			  WHERE id = $1
			  LIMIT 1`

	var record vaultDomain.FileRecord
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.OriginalFilename,
		&record.ContentType,
		&record.BytesIn,
		&record.BytesOut,
		&record.IV,
		&record.Tag,
		&record.KeyFingerprint,
		&record.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get file record")
	}

	return &record, nil
}

// List retrieves file records ordered newest first with offset and limit.
func (p *PostgreSQLRecordRepository) List(ctx context.Context, offset, limit int) ([]*vaultDomain.FileRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, original_filename, content_type, bytes_in, bytes_out, iv, hmac, key_fp, created_at
			  FROM file_records
			  ORDER BY created_at DESC
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list file records")
	}
	defer rows.Close()

	records := []*vaultDomain.FileRecord{}
	for rows.Next() {
		var record vaultDomain.FileRecord
		err := rows.Scan(
			&record.ID,
			&record.OriginalFilename,
			&record.ContentType,
			&record.BytesIn,
			&record.BytesOut,
			&record.IV,
			&record.Tag,
			&record.KeyFingerprint,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan file record")
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate file records")
	}

	return records, nil
}

// Delete removes a file record by its artifact id.
func (p *PostgreSQLRecordRepository) Delete(ctx context.Context, id string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM file_records WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete file record")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read delete result")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
