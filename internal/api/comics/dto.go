package comics

// ---------- responses

// IngestReportDTO is what the operator sees after an ingestion run. On
// partial failure Persisted < Total and Error carries the triggering
// step's message; the short chapter stays visible to readers.
type IngestReportDTO struct {
	ChapterID string `json:"chapter_id"`
	Persisted int    `json:"persisted"`
	Total     int    `json:"total"`
	Error     string `json:"error,omitempty"`
}

type ChapterPagesDTO struct {
	ChapterID string   `json:"chapter_id"`
	Pages     []string `json:"pages"`
}
