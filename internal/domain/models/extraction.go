package models

// PostingExtraction is the structured result of parsing a pasted job posting.
// It pre-fills a new application; nothing is saved until the user creates the job.
type PostingExtraction struct {
	Role               string   `json:"role"`
	Company            string   `json:"company"`
	Location           string   `json:"location"`
	ExperienceRequired string   `json:"experience_required"`
	Skills             []string `json:"skills"`
	Remote             bool     `json:"remote"`
	Notes              string   `json:"notes"`
}
