package entities

// Doctor is a listing in the doctor directory. Specialty is compared by exact
// string equality against MatchResult.Specialist.
type Doctor struct {
	ID              string  `json:"id" db:"id"`
	Name            string  `json:"name" db:"name"`
	Specialty       string  `json:"specialty" db:"specialty"`
	Rating          float64 `json:"rating" db:"rating"`
	ExperienceYears int     `json:"experience_years" db:"experience_years"`
	Fee             float64 `json:"fee" db:"fee"`
	Currency        string  `json:"currency" db:"currency"`
	Verified        bool    `json:"verified" db:"verified"`
}

// SpecialistSummary is a catalogue entry for the specialties grid.
type SpecialistSummary struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	DoctorCount int    `json:"doctor_count"`
}

// Recommendation combines a classification with the doctors to show for it.
type Recommendation struct {
	Match    MatchResult `json:"match"`
	Doctors  []Doctor    `json:"doctors"`
	Fallback bool        `json:"fallback"` // doctors came from a plain directory search
}
