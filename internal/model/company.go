package model

import (
	"time"
)

// InputKind classifies a raw user entry.
type InputKind string

const (
	InputKindEmail       InputKind = "email"
	InputKindCompanyName InputKind = "company_name"
)

// Label returns the display label used in exports.
func (k InputKind) Label() string {
	if k == InputKindEmail {
		return "Email"
	}
	return "Nom entreprise"
}

// Status is the terminal state of a single enrichment.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

// Label returns the display label used in exports.
func (s Status) Label() string {
	switch s {
	case StatusSuccess:
		return "Trouvé"
	case StatusNotFound:
		return "Non trouvé"
	default:
		return "Erreur"
	}
}

// CompanyInput is one raw entry to enrich. CompanyName is only set when the
// import source already knows the organization (e.g. a spreadsheet column).
type CompanyInput struct {
	Input       string `json:"input"`
	CompanyName string `json:"company_name,omitempty"`

	// NotionPageID links the input back to a Notion lead page, if any.
	NotionPageID string `json:"notion_page_id,omitempty"`
}

// EnrichmentResult is the normalized company profile produced for one input.
type EnrichmentResult struct {
	OriginalInput string    `json:"original_input"`
	InputKind     InputKind `json:"input_kind"`
	Domain        string    `json:"domain"`
	CompanyName   string    `json:"company_name"`
	SIREN         string    `json:"siren"`
	SIRET         string    `json:"siret"`
	ActivityCode  string    `json:"activity_code"`
	ActivityLabel string    `json:"activity_label"`
	Industry      string    `json:"industry"`
	Address       string    `json:"address"`
	PostalCode    string    `json:"postal_code"`
	City          string    `json:"city"`
	Region        string    `json:"region"`
	Headcount     string    `json:"headcount"`
	DirectoryURL  string    `json:"directory_url"`
	Status        Status    `json:"status"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	SearchTerm    string    `json:"search_term,omitempty"`
	NotionPageID  string    `json:"notion_page_id,omitempty"`
}

// BatchStatus is the lifecycle state of a persisted batch.
type BatchStatus string

const (
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusComplete  BatchStatus = "complete"
	BatchStatusCancelled BatchStatus = "cancelled"
	BatchStatusFailed    BatchStatus = "failed"
)

// Batch is one enrichment run over an ordered list of inputs.
type Batch struct {
	ID        string      `json:"id"`
	Source    string      `json:"source"`
	Status    BatchStatus `json:"status"`
	Total     int         `json:"total"`
	Stats     BatchStats  `json:"stats"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// BatchStats counts results by status.
type BatchStats struct {
	Completed int `json:"completed"`
	Succeeded int `json:"succeeded"`
	NotFound  int `json:"not_found"`
	Failed    int `json:"failed"`
}

// Add records one result in the counters.
func (s *BatchStats) Add(r EnrichmentResult) {
	s.Completed++
	switch r.Status {
	case StatusSuccess:
		s.Succeeded++
	case StatusNotFound:
		s.NotFound++
	default:
		s.Failed++
	}
}

// StatsOf computes counters for a result list.
func StatsOf(results []EnrichmentResult) BatchStats {
	var s BatchStats
	for _, r := range results {
		s.Add(r)
	}
	return s
}
