package naming

import (
	"regexp"
	"strings"
	"time"

	"cloudvault/apperr"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

type Scope uint8

const (
	// ScopeFile names blobs in the flat files directory
	ScopeFile Scope = 0
	// ScopePhoto names blobs inside an album directory
	ScopePhoto Scope = 1

	fileTokenLen  = 8
	photoTokenLen = 16

	timestampLayout = "20060102_150405_"

	// Keeps generated file names well under common 255 byte limits
	maxNameLen = 200
	maxExtLen  = 16
)

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

	// Reserved on Windows regardless of extension
	deviceNames = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
		"COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
		"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}

	now = time.Now
)

// Sanitize reduces a client supplied file name to a display name that is safe
// to use as a path component: directories are dropped, the name is folded to
// ASCII, whitespace becomes '_' and anything outside [A-Za-z0-9_.-] is removed.
// Names longer than maxNameLen lose the end of their stem, the extension is kept.
func Sanitize(name string) (string, error) {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = toASCII(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" {
		return "", apperr.ErrInvalidName
	}
	if deviceNames[strings.ToUpper(strings.SplitN(name, ".", 2)[0])] {
		name = "_" + name
	}
	return truncate(name), nil
}

func truncate(name string) string {
	if len(name) <= maxNameLen {
		return name
	}
	ext := ""
	if i := strings.LastIndexByte(name, '.'); i > 0 && len(name)-i <= maxExtLen+1 {
		name, ext = name[:i], name[i:]
	}
	name = strings.TrimRight(name[:maxNameLen-len(ext)], "._")
	return name + ext
}

func toASCII(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExtensionOf returns the lower-cased text after the last '.'.
func ExtensionOf(originalName string) (string, error) {
	i := strings.LastIndexByte(originalName, '.')
	if i < 0 || i == len(originalName)-1 {
		return "", apperr.Errorf(apperr.ErrMissingExtension, "%q", originalName)
	}
	return strings.ToLower(originalName[i+1:]), nil
}

// GenerateStorageName derives a unique blob name for an already sanitized name.
//   - ScopeFile:  20240102_150405_1a2b3c4d_report.pdf
//   - ScopePhoto: 1a2b3c4d5e6f7a8b.jpg
func GenerateStorageName(originalName string, scope Scope) (string, error) {
	if scope == ScopePhoto {
		ext, err := ExtensionOf(originalName)
		if err != nil {
			return "", err
		}
		return token(photoTokenLen) + "." + ext, nil
	}
	return now().Format(timestampLayout) + token(fileTokenLen) + "_" + originalName, nil
}

func token(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// Parse runs the full naming pipeline for an upload: sanitize, extract the
// extension and check it against allowed. No I/O happens before this succeeds.
func Parse(rawName string, allowed ExtensionSet) (originalName, ext string, err error) {
	if originalName, err = Sanitize(rawName); err != nil {
		return "", "", err
	}
	if ext, err = ExtensionOf(originalName); err != nil {
		return "", "", err
	}
	if !allowed.Allowed(ext) {
		return "", "", apperr.Errorf(apperr.ErrDisallowedExtension, "%q", ext)
	}
	return originalName, ext, nil
}
