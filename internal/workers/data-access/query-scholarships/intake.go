// internal/workers/data-access/query-scholarships/intake.go
package queryscholarships

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const latestIntakeQuery = `
		SELECT user_id, nationality, gpa, intended_field, intended_degree,
		       gender, ielts, toefl, updated_at
		FROM intake_records
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1`

// IntakeRepository reads intake records from Postgres through a Redis
// read-through cache. Cache failures fall back to the database.
type IntakeRepository struct {
	db     *sql.DB
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewIntakeRepository(db *sql.DB, rdb *redis.Client, ttl time.Duration, log logger.Logger) *IntakeRepository {
	return &IntakeRepository{db: db, redis: rdb, ttl: ttl, logger: log}
}

// GetIntake returns nil, nil when the user has no record.
func (r *IntakeRepository) GetIntake(ctx context.Context, userID string) (*models.IntakeRecord, error) {
	if record, ok := r.fromCache(ctx, userID); ok {
		return record, nil
	}
	if r.db == nil {
		return nil, nil
	}

	var (
		record         models.IntakeRecord
		nationality    sql.NullString
		gpa            sql.NullFloat64
		intendedField  sql.NullString
		intendedDegree sql.NullString
		gender         sql.NullString
		ielts          sql.NullFloat64
		toefl          sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, latestIntakeQuery, userID).Scan(
		&record.UserID, &nationality, &gpa, &intendedField, &intendedDegree,
		&gender, &ielts, &toefl, &record.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewIntakeFetchFailedError(userID, err)
	}

	record.Nationality = nationality.String
	record.IntendedField = intendedField.String
	record.IntendedDegree = intendedDegree.String
	record.Gender = gender.String
	if gpa.Valid {
		record.GPA = models.Float64Ptr(gpa.Float64)
	}
	if ielts.Valid {
		record.IELTS = models.Float64Ptr(ielts.Float64)
	}
	if toefl.Valid {
		record.TOEFL = models.IntPtr(int(toefl.Int64))
	}

	r.toCache(ctx, &record)
	return &record, nil
}

func (r *IntakeRepository) fromCache(ctx context.Context, userID string) (*models.IntakeRecord, bool) {
	if r.redis == nil {
		return nil, false
	}

	cached, err := r.redis.Get(ctx, intakeCacheKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("intake cache read failed", map[string]interface{}{
				"userId": userID,
				"error":  err,
			})
		}
		return nil, false
	}

	var record models.IntakeRecord
	if err := json.Unmarshal([]byte(cached), &record); err != nil {
		r.logger.Warn("discarding unreadable intake cache entry", map[string]interface{}{
			"userId": userID,
			"error":  err,
		})
		return nil, false
	}
	return &record, true
}

func (r *IntakeRepository) toCache(ctx context.Context, record *models.IntakeRecord) {
	if r.redis == nil || r.ttl <= 0 {
		return
	}
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, intakeCacheKey(record.UserID), data, r.ttl).Err(); err != nil {
		r.logger.Warn("intake cache write failed", map[string]interface{}{
			"userId": record.UserID,
			"error":  err,
		})
	}
}
