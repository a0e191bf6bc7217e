// internal/models/scholarship.go
package models

import "time"

type Scholarship struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Provider        string    `json:"provider"`
	Country         string    `json:"country"`
	TargetCountries []string  `json:"targetCountries"`
	MinGPA          *float64  `json:"minGPA,omitempty"`
	FieldOfStudy    []string  `json:"fieldOfStudy"`
	DegreeLevel     []string  `json:"degreeLevel"`
	ForWomen        bool      `json:"forWomen"`
	RequiresIELTS   bool      `json:"requiresIELTS"`
	MinIELTS        *float64  `json:"minIELTS,omitempty"`
	RequiresTOEFL   bool      `json:"requiresTOEFL"`
	MinTOEFL        *int      `json:"minTOEFL,omitempty"`
	Deadline        time.Time `json:"deadline"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
}

type MatchResult struct {
	ScholarshipID string   `json:"scholarshipId"`
	Score         int      `json:"score"`
	Reasons       []string `json:"reasons"`
	Unmet         []string `json:"unmet"`
}

// IndexByID keys candidates by ID for rendering ranked results.
func IndexByID(candidates []Scholarship) map[string]Scholarship {
	out := make(map[string]Scholarship, len(candidates))
	for _, c := range candidates {
		out[c.ID] = c
	}
	return out
}
