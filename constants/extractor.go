package constants

// Extractor identifies which OCR/AI engine produced an extraction.
type Extractor string

// Stable values (store these exact strings downstream).
const (
	ExtractorDocAI  Extractor = "docai"
	ExtractorVision Extractor = "vision" // fallback engine
)

// KnownExtractors holds every extractor this pipeline accepts.
var KnownExtractors = []string{
	string(ExtractorDocAI),
	string(ExtractorVision),
}
