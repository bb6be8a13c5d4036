package domain

import "time"

// ProjectSchemaVersion is the version written into every saved or exported project.
// Records without a version (written by the original web app) are read as version 1.
const ProjectSchemaVersion = 1

// Project is the serialization unit for save/load/export/import. The pro forma result is
// never stored; it is recomputed from these three sections.
type Project struct {
	Version          int                  `json:"version"`
	ID               string               `json:"id,omitempty"`
	ProjectName      string               `json:"projectName"`
	Inputs           PropertyInputs       `json:"inputs"`
	RenovationItems  []RenovationLineItem `json:"renovationItems"`
	FinancingSources []FinancingSource    `json:"financingSources"`
	SavedAt          *time.Time           `json:"savedAt,omitempty"`
	ExportedAt       *time.Time           `json:"exportedAt,omitempty"`
	ImportedAt       *time.Time           `json:"importedAt,omitempty"`
}

// Name prefers the project-level name and falls back to the one edited on the inputs form.
func (p Project) Name() string {
	if p.ProjectName != "" {
		return p.ProjectName
	}
	return p.Inputs.ProjectName
}
