package parser

import "github.com/lu4p/cat"

// extractOffice reads a .docx, .odt or .rtf file from its stored path. The
// cat library only works from disk, so a missing path or a broken archive
// degrades to empty text.
func extractOffice(path string, _ []byte) string {
	if path == "" {
		return ""
	}
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting office document", "path", path, "error", err)
		return ""
	}
	return text
}
