package normalizeprofile

import (
	"context"
	"errors"
	"testing"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntakeStore struct {
	records map[string]*models.IntakeRecord
	err     error
	hang    bool
	calls   int
}

func (f *fakeIntakeStore) GetIntake(ctx context.Context, userID string) (*models.IntakeRecord, error) {
	f.calls++
	if f.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records[userID], nil
}

func deref[T any](t *testing.T, p *T) T {
	t.Helper()
	require.NotNil(t, p)
	return *p
}

func TestFromFinderData(t *testing.T) {
	t.Run("weakly typed values", func(t *testing.T) {
		p := FromFinderData(map[string]interface{}{
			"country":      " Kenya ",
			"currentGPA":   "3.5",
			"fieldOfStudy": "Computer Science",
			"degreeLevel":  "Master",
			"ieltsScore":   7.0,
			"toeflScore":   float64(100),
			"favoriteFood": "ugali",
		})

		assert.Equal(t, "Kenya", deref(t, p.Country))
		assert.Equal(t, 3.5, deref(t, p.CurrentGPA))
		assert.Equal(t, "Computer Science", deref(t, p.FieldOfStudy))
		assert.Equal(t, "Master", deref(t, p.DegreeLevel))
		assert.Equal(t, 7.0, deref(t, p.IELTSScore))
		assert.Equal(t, 100, deref(t, p.TOEFLScore))
		assert.Nil(t, p.Gender)
	})

	t.Run("numeric gpa and aliases", func(t *testing.T) {
		p := FromFinderData(map[string]interface{}{"gpa": 3.5, "nationality": "Ghana", "toefl": "95"})
		assert.Equal(t, 3.5, deref(t, p.CurrentGPA))
		assert.Equal(t, "Ghana", deref(t, p.Country))
		assert.Equal(t, 95, deref(t, p.TOEFLScore))
	})

	t.Run("blank and invalid values are dropped", func(t *testing.T) {
		p := FromFinderData(map[string]interface{}{
			"country":     "   ",
			"currentGPA":  "not a number",
			"ieltsScore":  "12",
			"gender":      map[string]interface{}{"nested": true},
			"degreeLevel": "PhD",
		})
		assert.Nil(t, p.Country)
		assert.Nil(t, p.CurrentGPA)
		assert.Nil(t, p.IELTSScore)
		assert.Nil(t, p.Gender)
		assert.Equal(t, "PhD", deref(t, p.DegreeLevel))
	})

	t.Run("nil map", func(t *testing.T) {
		assert.True(t, FromFinderData(nil).IsEmpty())
	})
}

func TestFromIntake(t *testing.T) {
	p := FromIntake(&models.IntakeRecord{
		UserID:         "u-1",
		Nationality:    "Uganda",
		GPA:            models.Float64Ptr(3.1),
		IntendedField:  " Law ",
		IntendedDegree: "",
		Gender:         "female",
		TOEFL:          models.IntPtr(88),
	})

	assert.Equal(t, "Uganda", deref(t, p.Country))
	assert.Equal(t, 3.1, deref(t, p.CurrentGPA))
	assert.Equal(t, "Law", deref(t, p.FieldOfStudy))
	assert.Nil(t, p.DegreeLevel)
	assert.Equal(t, "female", deref(t, p.Gender))
	assert.Nil(t, p.IELTSScore)
	assert.Equal(t, 88, deref(t, p.TOEFLScore))

	assert.True(t, FromIntake(nil).IsEmpty())
}

func TestFromMessage(t *testing.T) {
	t.Run("full sentence", func(t *testing.T) {
		p := FromMessage("I'm from Kenya with a GPA of 3.6 studying computer science, looking for a master's scholarship")

		assert.Equal(t, "Kenya", deref(t, p.Country))
		assert.Equal(t, 3.6, deref(t, p.CurrentGPA))
		assert.Equal(t, "Computer Science", deref(t, p.FieldOfStudy))
		assert.Equal(t, DegreeMaster, deref(t, p.DegreeLevel))
		assert.Nil(t, p.Gender)
	})

	t.Run("scores and gender", func(t *testing.T) {
		p := FromMessage("3.2 GPA, IELTS 7.0 and TOEFL 100, I am a woman")

		assert.Equal(t, 3.2, deref(t, p.CurrentGPA))
		assert.Equal(t, 7.0, deref(t, p.IELTSScore))
		assert.Equal(t, 100, deref(t, p.TOEFLScore))
		assert.Equal(t, "female", deref(t, p.Gender))
		assert.Nil(t, p.Country)
	})

	t.Run("degree precedence and field after degree", func(t *testing.T) {
		p := FromMessage("PhD in public health after my bachelor")

		assert.Equal(t, DegreePhD, deref(t, p.DegreeLevel))
		assert.Equal(t, "Public Health", deref(t, p.FieldOfStudy))
	})

	t.Run("study destination", func(t *testing.T) {
		p := FromMessage("scholarships to study in the UK")
		assert.Equal(t, "United Kingdom", deref(t, p.Country))
	})

	t.Run("nothing recognised", func(t *testing.T) {
		assert.True(t, FromMessage("hello there").IsEmpty())
		assert.True(t, FromMessage("   ").IsEmpty())
	})
}

func TestMerge_Precedence(t *testing.T) {
	finder := models.Profile{Country: models.StringPtr("Ghana")}
	intake := models.Profile{Country: models.StringPtr("Kenya"), CurrentGPA: models.Float64Ptr(3.0)}
	message := models.Profile{CurrentGPA: models.Float64Ptr(3.9), IELTSScore: models.Float64Ptr(6.5)}

	p := Merge(finder, intake, message)

	assert.Equal(t, "Ghana", deref(t, p.Country))
	assert.Equal(t, 3.0, deref(t, p.CurrentGPA))
	assert.Equal(t, 6.5, deref(t, p.IELTSScore))
	assert.Nil(t, p.FieldOfStudy)
}

func TestHandler_Execute(t *testing.T) {
	store := &fakeIntakeStore{records: map[string]*models.IntakeRecord{
		"u-1": {UserID: "u-1", Nationality: "Kenya", GPA: models.Float64Ptr(3.0), IntendedField: "Law"},
	}}
	h := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{
		Message:    "studying medicine with IELTS 6.5",
		UserID:     "u-1",
		FinderData: map[string]interface{}{"gpa": "3.8", "country": " Ghana "},
	})

	require.NoError(t, err)
	assert.False(t, output.ProfileEmpty)
	assert.Equal(t, "Ghana", deref(t, output.Profile.Country))
	assert.Equal(t, 3.8, deref(t, output.Profile.CurrentGPA))
	assert.Equal(t, "Law", deref(t, output.Profile.FieldOfStudy))
	assert.Equal(t, 6.5, deref(t, output.Profile.IELTSScore))
	assert.Equal(t, 1, store.calls)
}

func TestHandler_Execute_IntakeFailureIsNotFatal(t *testing.T) {
	store := &fakeIntakeStore{err: errors.New("redis: connection refused")}
	h := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{Message: "GPA 3.4", UserID: "u-2"})

	require.NoError(t, err)
	assert.Equal(t, 3.4, deref(t, output.Profile.CurrentGPA))
	assert.Nil(t, output.Profile.Country)
}

func TestHandler_Execute_SkipsIntakeWithoutUser(t *testing.T) {
	store := &fakeIntakeStore{}
	h := NewHandler(LoadConfig(), store, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{Message: "hi"})

	require.NoError(t, err)
	assert.True(t, output.ProfileEmpty)
	assert.Zero(t, store.calls)
}

func TestHandler_Execute_NilStore(t *testing.T) {
	h := NewHandler(LoadConfig(), nil, logger.NewNoOpLogger())

	output, err := h.Execute(context.Background(), &Input{Message: "from Nigeria", UserID: "u-3"})

	require.NoError(t, err)
	assert.Equal(t, "Nigeria", deref(t, output.Profile.Country))
}

func TestHandler_Execute_StalledIntakeIsBounded(t *testing.T) {
	store := &fakeIntakeStore{hang: true}
	cfg := LoadConfig()
	cfg.IntakeTimeout = 20 * time.Millisecond
	h := NewHandler(cfg, store, logger.NewTestLogger(t))

	started := time.Now()
	output, err := h.Execute(context.Background(), &Input{
		Message:    "GPA 3.4",
		UserID:     "u-4",
		FinderData: map[string]interface{}{"country": "Kenya"},
	})

	require.NoError(t, err)
	assert.Less(t, time.Since(started), 2*time.Second)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, "Kenya", deref(t, output.Profile.Country))
	assert.Equal(t, 3.4, deref(t, output.Profile.CurrentGPA))
}

func TestLoadConfig_Timeouts(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, 2*time.Second, cfg.IntakeTimeout)
	assert.Greater(t, cfg.Timeout, cfg.IntakeTimeout)
}
