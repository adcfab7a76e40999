package doctext

// Format identifies a document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatMD   Format = "md"
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
)

// SupportedFormats lists every format the pipeline can extract.
func SupportedFormats() []string {
	return []string{string(FormatPDF), string(FormatDocx), string(FormatMD), string(FormatTXT), string(FormatHTML)}
}

// Document is the result of extracting text from an uploaded attachment.
// Text preserves line structure: downstream heuristics scan lines.
type Document struct {
	Filename  string   `json:"filename"`
	Format    Format   `json:"format"`
	MediaType string   `json:"media_type"`
	Text      string   `json:"text"`
	Quality   *Quality `json:"quality,omitempty"`
}

// Result is the single-shot outcome of an asynchronous extraction.
type Result struct {
	Doc *Document
	Err error
}
