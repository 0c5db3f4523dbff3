package models

import "time"

// Step enumerates the fixed, linear sequence of form states. The zero value
// is StepIdle, which means "no conversation open" and is never stored.
type Step int

const (
	StepIdle Step = iota
	StepPhoto
	StepName
	StepRegion
	StepGrapes
	StepVintage
	StepExperience
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepPhoto:
		return "photo"
	case StepName:
		return "wine_name"
	case StepRegion:
		return "region"
	case StepGrapes:
		return "grapes"
	case StepVintage:
		return "vintage_year"
	case StepExperience:
		return "experience"
	default:
		return "unknown"
	}
}

// FormData accumulates the answers collected so far. VintageYear stays nil
// when the user sent the "unknown" sentinel.
type FormData struct {
	PhotoFileID string `json:"photo_file_id,omitempty"`
	StorageKey  string `json:"storage_key,omitempty"`
	WineName    string `json:"wine_name,omitempty"`
	Region      string `json:"region,omitempty"`
	Grapes      string `json:"grapes,omitempty"`
	VintageYear *int64 `json:"vintage_year,omitempty"`
	Experience  string `json:"experience,omitempty"`
}

// Session is the per-user, in-progress conversation state. At most one
// exists per user id at any time.
type Session struct {
	UserID    int64
	Step      Step
	Data      FormData
	CreatedAt time.Time
}
