package naming

import (
	"slices"
	"strings"
)

var (
	DefaultPhotoExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}
	DefaultFileExtensions  = []string{
		"png", "jpg", "jpeg", "gif", "bmp", "webp", // images
		"pdf", "txt", "doc", "docx", "xls", "xlsx", // documents
		"zip", "rar", "7z", // archives
	}
)

// ExtensionSet is an allow-list of lower-case extensions without the leading dot
type ExtensionSet map[string]struct{}

func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

func (s ExtensionSet) Allowed(ext string) bool {
	_, ok := s[strings.ToLower(ext)]
	return ok
}

// ImageTypes have a preview; DocumentTypes are counted as documents on the dashboard
var (
	ImageTypes    = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp"}
	DocumentTypes = []string{"pdf", "doc", "docx", "txt"}
)

func IsImage(ext string) bool {
	return slices.Contains(ImageTypes, strings.ToLower(ext))
}

func IsDocument(ext string) bool {
	return slices.Contains(DocumentTypes, strings.ToLower(ext))
}
