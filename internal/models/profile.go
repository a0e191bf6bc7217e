// internal/models/profile.go
package models

import "time"

// Profile is the applicant profile reconstructed for a single request.
// Every field is optional.
type Profile struct {
	Country      *string  `json:"country,omitempty" mapstructure:"country"`
	CurrentGPA   *float64 `json:"currentGPA,omitempty" mapstructure:"currentGPA"`
	FieldOfStudy *string  `json:"fieldOfStudy,omitempty" mapstructure:"fieldOfStudy"`
	DegreeLevel  *string  `json:"degreeLevel,omitempty" mapstructure:"degreeLevel"`
	Gender       *string  `json:"gender,omitempty" mapstructure:"gender"`
	IELTSScore   *float64 `json:"ieltsScore,omitempty" mapstructure:"ieltsScore"`
	TOEFLScore   *int     `json:"toeflScore,omitempty" mapstructure:"toeflScore"`
}

// IsEmpty reports whether no field is set.
func (p Profile) IsEmpty() bool {
	return p.Country == nil &&
		p.CurrentGPA == nil &&
		p.FieldOfStudy == nil &&
		p.DegreeLevel == nil &&
		p.Gender == nil &&
		p.IELTSScore == nil &&
		p.TOEFLScore == nil
}

// IntakeRecord is the applicant questionnaire stored by the main application.
type IntakeRecord struct {
	UserID         string    `json:"userId"`
	Nationality    string    `json:"nationality"`
	GPA            *float64  `json:"gpa,omitempty"`
	IntendedField  string    `json:"intendedField"`
	IntendedDegree string    `json:"intendedDegree"`
	Gender         string    `json:"gender"`
	IELTS          *float64  `json:"ielts,omitempty"`
	TOEFL          *int      `json:"toefl,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func StringPtr(s string) *string    { return &s }
func Float64Ptr(f float64) *float64 { return &f }
func IntPtr(i int) *int             { return &i }
