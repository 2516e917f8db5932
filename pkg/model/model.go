package model

// SourceKind classifies where a content request's payload comes from.
type SourceKind string

const (
	SourceText SourceKind = "text"
	SourceFile SourceKind = "file"
	SourceURL  SourceKind = "url"
)

// ContentKind is the declared (or inferred) category of a file or URL payload.
type ContentKind string

const (
	ContentUnknown ContentKind = ""
	ContentPDF     ContentKind = "pdf"
	ContentImage   ContentKind = "image"
	ContentText    ContentKind = "text"
)

// ContentRequest describes one piece of content to summarize and speak.
// Exactly one of Text, FilePath or URL must be populated.
type ContentRequest struct {
	Text         string      `json:"text,omitempty"`
	FilePath     string      `json:"file_path,omitempty"`
	URL          string      `json:"url,omitempty"`
	DeclaredType ContentKind `json:"file_type,omitempty"`
	Language     string      `json:"language,omitempty"`
}

// SummaryResult is the final response of the pipeline.
// AudioChunks is empty when synthesis failed or was skipped; that is a
// degraded result, not an error.
type SummaryResult struct {
	Summary     string   `json:"summary"`
	AudioChunks []string `json:"audio"`
}
