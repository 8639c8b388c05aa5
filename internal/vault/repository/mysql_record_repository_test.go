package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/filevault/internal/errors"
)

func TestMySQLRecordRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLRecordRepository(db)
	record := makeRecord("id-1", time.Now().UTC())

	mock.ExpectExec("INSERT INTO file_records").
		WithArgs(
			record.ID,
			record.OriginalFilename,
			record.ContentType,
			record.BytesIn,
			record.BytesOut,
			record.IV,
			record.Tag,
			record.KeyFingerprint,
			record.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRecordRepository_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewMySQLRecordRepository(db)
		record := makeRecord("id-1", time.Now().UTC())

		rows := sqlmock.NewRows(recordColumns).AddRow(
			record.ID, record.OriginalFilename, record.ContentType,
			record.BytesIn, record.BytesOut, record.IV, record.Tag,
			record.KeyFingerprint, record.CreatedAt,
		)
		mock.ExpectQuery("SELECT (.+) FROM file_records").
			WithArgs("id-1").
			WillReturnRows(rows)

		got, err := repo.Get(context.Background(), "id-1")
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewMySQLRecordRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM file_records").
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows(recordColumns))

		_, err = repo.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLRecordRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLRecordRepository(db)
	record := makeRecord("id-1", time.Now().UTC())

	rows := sqlmock.NewRows(recordColumns).AddRow(
		record.ID, record.OriginalFilename, record.ContentType,
		record.BytesIn, record.BytesOut, record.IV, record.Tag,
		record.KeyFingerprint, record.CreatedAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM file_records").
		WithArgs(50, 0).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), 0, 50)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "id-1", records[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRecordRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLRecordRepository(db)

	mock.ExpectExec("DELETE FROM file_records").
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "id-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
