package config

const (
	// MaxFolderNameLength is the maximum length for folder (season) names.
	MaxFolderNameLength = 100

	// MaxFolderDescriptionLength caps the optional folder description.
	MaxFolderDescriptionLength = 500

	// MaxJobTextLength caps role, company, location and experience fields.
	MaxJobTextLength = 255

	// MaxNotesLength caps free-form notes on an application.
	MaxNotesLength = 10000

	// MaxSkills is the most skills stored on one application.
	MaxSkills = 50

	// MaxPostingTextLength caps pasted posting text sent to the extraction provider.
	// Longer postings are truncated, not rejected.
	MaxPostingTextLength = 20000

	// MaxHistogramMonths and MaxHistogramDays bound the stats query parameters.
	MaxHistogramMonths = 36
	MaxHistogramDays   = 366

	// MaxTopN bounds the top companies/locations/skills lists.
	MaxTopN = 50
)
