package constants

import "strings"

// FileKind classifies a candidate document by how its text is extracted.
type FileKind string

const (
	PDF         FileKind = "PDF"
	DOCX        FileKind = "DOCX"
	DOC         FileKind = "DOC"
	Image       FileKind = "IMAGE"
	Unsupported FileKind = "UNSUPPORTED"
)

// SupportedExtensions maps the file extensions the scanner considers to their kind.
var SupportedExtensions = map[string]FileKind{
	"pdf":  PDF,
	"docx": DOCX,
	"doc":  DOC,
	"jpg":  Image,
	"jpeg": Image,
	"png":  Image,
	"tiff": Image,
	"tif":  Image,
	"bmp":  Image,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToKind resolves a (dotted or bare) extension to a FileKind.
// Unknown extensions map to Unsupported.
func MapExtToKind(ext string) FileKind {
	if kind, ok := SupportedExtensions[NormalizeExt(ext)]; ok {
		return kind
	}
	return Unsupported
}
