package entity

// ResultFormat selects the transcript export encoding.
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// TranscriptExport is a rendered conversation ready for download.
type TranscriptExport struct {
	Data        []byte
	ContentType string
	Filename    string
}
