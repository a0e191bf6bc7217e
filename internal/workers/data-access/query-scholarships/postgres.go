// internal/workers/data-access/query-scholarships/postgres.go
package queryscholarships

import (
	"context"
	"database/sql"
	"time"

	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/models"

	"github.com/lib/pq"
)

const openScholarshipsQuery = `
		SELECT id, name, provider, country, target_countries, min_gpa,
		       field_of_study, degree_level, for_women, requires_ielts, min_ielts,
		       requires_toefl, min_toefl, deadline, amount, currency
		FROM scholarships
		WHERE deadline >= $1
		ORDER BY deadline ASC
		LIMIT $2`

type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) FetchOpen(ctx context.Context, now time.Time, limit int) ([]models.Scholarship, error) {
	rows, err := s.db.QueryContext(ctx, openScholarshipsQuery, now, limit)
	if err != nil {
		return nil, apperrors.NewCandidateFetchFailedError(s.Name(), err)
	}
	defer rows.Close()

	results := make([]models.Scholarship, 0, limit)
	for rows.Next() {
		var (
			sch             models.Scholarship
			provider        sql.NullString
			country         sql.NullString
			targetCountries pq.StringArray
			fieldOfStudy    pq.StringArray
			degreeLevel     pq.StringArray
			minGPA          sql.NullFloat64
			minIELTS        sql.NullFloat64
			minTOEFL        sql.NullInt64
			amount          sql.NullFloat64
			currency        sql.NullString
		)
		err := rows.Scan(
			&sch.ID, &sch.Name, &provider, &country, &targetCountries, &minGPA,
			&fieldOfStudy, &degreeLevel, &sch.ForWomen, &sch.RequiresIELTS, &minIELTS,
			&sch.RequiresTOEFL, &minTOEFL, &sch.Deadline, &amount, &currency,
		)
		if err != nil {
			return nil, apperrors.NewCandidateFetchFailedError(s.Name(), err)
		}

		sch.Provider = provider.String
		sch.Country = country.String
		sch.TargetCountries = []string(targetCountries)
		sch.FieldOfStudy = []string(fieldOfStudy)
		sch.DegreeLevel = []string(degreeLevel)
		if minGPA.Valid {
			sch.MinGPA = models.Float64Ptr(minGPA.Float64)
		}
		if minIELTS.Valid {
			sch.MinIELTS = models.Float64Ptr(minIELTS.Float64)
		}
		if minTOEFL.Valid {
			sch.MinTOEFL = models.IntPtr(int(minTOEFL.Int64))
		}
		sch.Amount = amount.Float64
		sch.Currency = currency.String

		results = append(results, sch)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewCandidateFetchFailedError(s.Name(), err)
	}
	return results, nil
}
