package queryscholarships

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intakeColumns = []string{
	"user_id", "nationality", "gpa", "intended_field", "intended_degree",
	"gender", "ielts", "toefl", "updated_at",
}

const intakeQueryPattern = `SELECT .+ FROM intake_records WHERE user_id = \$1`

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestIntakeRepository_ReadThrough(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newMiniredis(t)

	updated := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(intakeQueryPattern).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(intakeColumns).
			AddRow("u-1", "Kenya", 3.4, "Public Health", "Master", "female", 7.0, nil, updated))

	repo := NewIntakeRepository(db, rdb, 10*time.Minute, logger.NewTestLogger(t))

	record, err := repo.GetIntake(context.Background(), "u-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Kenya", record.Nationality)
	require.NotNil(t, record.GPA)
	assert.Equal(t, 3.4, *record.GPA)
	assert.Nil(t, record.TOEFL)

	require.True(t, mr.Exists("intake:profile:u-1"))
	assert.Equal(t, 10*time.Minute, mr.TTL("intake:profile:u-1"))

	// second read is served from the cache; sqlmock would fail an unexpected query
	again, err := repo.GetIntake(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, record.Nationality, again.Nationality)
	assert.True(t, updated.Equal(again.UpdatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntakeRepository_CacheHit(t *testing.T) {
	mr, rdb := newMiniredis(t)
	data, err := json.Marshal(models.IntakeRecord{UserID: "u-2", Nationality: "Ghana"})
	require.NoError(t, err)
	require.NoError(t, mr.Set("intake:profile:u-2", string(data)))

	repo := NewIntakeRepository(nil, rdb, time.Minute, logger.NewTestLogger(t))
	record, err := repo.GetIntake(context.Background(), "u-2")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Ghana", record.Nationality)
}

func TestIntakeRepository_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newMiniredis(t)

	mock.ExpectQuery(intakeQueryPattern).WithArgs("nobody").WillReturnError(sql.ErrNoRows)

	repo := NewIntakeRepository(db, rdb, time.Minute, logger.NewTestLogger(t))
	record, err := repo.GetIntake(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.False(t, mr.Exists("intake:profile:nobody"))
}

func TestIntakeRepository_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(intakeQueryPattern).WithArgs("u-3").WillReturnError(errors.New("too many connections"))

	repo := NewIntakeRepository(db, nil, time.Minute, logger.NewTestLogger(t))
	_, err = repo.GetIntake(context.Background(), "u-3")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeIntakeFetchFailed))
}

func TestIntakeRepository_CacheFailureFallsBackToDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectGet("intake:profile:u-4").SetErr(errors.New("READONLY"))
	rmock.Regexp().ExpectSet("intake:profile:u-4", `.*`, time.Minute).SetErr(errors.New("READONLY"))

	mock.ExpectQuery(intakeQueryPattern).
		WithArgs("u-4").
		WillReturnRows(sqlmock.NewRows(intakeColumns).
			AddRow("u-4", "Nigeria", nil, nil, nil, nil, nil, 95, time.Now()))

	repo := NewIntakeRepository(db, rdb, time.Minute, logger.NewTestLogger(t))
	record, err := repo.GetIntake(context.Background(), "u-4")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Nigeria", record.Nationality)
	require.NotNil(t, record.TOEFL)
	assert.Equal(t, 95, *record.TOEFL)

	assert.NoError(t, rmock.ExpectationsWereMet())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntakeRepository_UnreadableCacheEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newMiniredis(t)
	require.NoError(t, mr.Set("intake:profile:u-5", "{not json"))

	mock.ExpectQuery(intakeQueryPattern).
		WithArgs("u-5").
		WillReturnRows(sqlmock.NewRows(intakeColumns).
			AddRow("u-5", "Kenya", nil, nil, nil, nil, nil, nil, time.Now()))

	repo := NewIntakeRepository(db, rdb, time.Minute, logger.NewTestLogger(t))
	record, err := repo.GetIntake(context.Background(), "u-5")
	require.NoError(t, err)
	assert.Equal(t, "Kenya", record.Nationality)
}
