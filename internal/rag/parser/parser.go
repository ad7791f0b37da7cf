package parser

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/insightqa/insightqa/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Parser")

// Parse converts a stored document into plain text. Dispatch is by filename
// suffix, case-insensitive; anything unrecognized is treated as plain text.
// Malformed content of a known type degrades to partial or empty text instead
// of failing, so ingestion of a broken file contributes nothing rather than
// aborting the whole knowledge base.
//
// raw holds the uploaded bytes; path points at the stored copy for the
// extractors that only work from disk.
func Parse(path string, raw []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		return plainText(raw)
	case ".pdf":
		return extractPDF(path, raw)
	case ".html", ".htm":
		return extractHTMLText(raw)
	case ".json":
		return canonicalJSON(raw)
	case ".docx", ".odt", ".rtf":
		return extractOffice(path, raw)
	default:
		return plainText(raw)
	}
}

// plainText decodes UTF-8 and drops invalid byte sequences.
func plainText(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "")
}

// canonicalJSON re-serializes with stable 2-space indentation so chunk
// boundaries do not depend on the uploader's formatting.
func canonicalJSON(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("Malformed JSON document, indexing nothing", "error", err)
		return ""
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}
