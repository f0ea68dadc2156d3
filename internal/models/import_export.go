package models

type ImportFileType string

const (
	ImportXLSX ImportFileType = "xlsx"
	ImportCSV  ImportFileType = "csv"
)

// ImportColumns is the header expected in problem import files.
var ImportColumns = []string{
	"type", "topic", "question", "answer", "wrong_answers", "difficulty", "points", "img_url",
}

type ImportSummary struct {
	FileName        string         `json:"fileName"`
	FileType        ImportFileType `json:"fileType"`
	TotalRows       int            `json:"totalRows"`
	CreatedCount    int            `json:"createdCount"`
	CreatedProblems []string       `json:"createdProblems"`
	IgnoredColumns  []string       `json:"ignoredColumns,omitempty"`
	ProcessingTime  string         `json:"processingTime"`
}
