// internal/workers/scholarship/normalize-profile/models.go
package normalizeprofile

import (
	"context"

	"scholarship-workers/internal/models"
)

type Input struct {
	Message    string                 `json:"message"`
	UserID     string                 `json:"userId,omitempty"`
	FinderData map[string]interface{} `json:"finderData,omitempty"`
}

type Output struct {
	Profile      models.Profile `json:"profile"`
	ProfileEmpty bool           `json:"profileEmpty"`
}

// IntakeStore looks up the stored intake record for a user. A missing record
// is (nil, nil).
type IntakeStore interface {
	GetIntake(ctx context.Context, userID string) (*models.IntakeRecord, error)
}
