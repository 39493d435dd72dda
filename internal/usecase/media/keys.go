package media

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

// Object key conventions. The event listener and the pipeline both rely on
// these to derive the media ID from a storage key.
const (
	OriginalsPrefix = "originals/"
	VariantsPrefix  = "variants/"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename strips any path components and replaces characters that
// are unsafe in object keys.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

// OriginalKey is "originals/{mediaId}/{sanitizedFilename}". A filename that
// lost its extension to sanitisation gets one back from the mime type.
func OriginalKey(id uuid.UUID, filename, mimeType string) string {
	name := SanitizeFilename(filename)
	if path.Ext(name) == "" {
		if ext, err := MimeTypeToExtension(mimeType); err == nil {
			name += ext
		}
	}
	return OriginalsPrefix + id.String() + "/" + name
}

// VariantKey is "variants/{mediaId}/{variantName}.{ext}".
func VariantKey(id uuid.UUID, name, format string) string {
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s%s/%s.%s", VariantsPrefix, id.String(), name, ext)
}

// ParseOriginalKey extracts the media ID from an originals object key.
func ParseOriginalKey(key string) (uuid.UUID, error) {
	if !strings.HasPrefix(key, OriginalsPrefix) {
		return uuid.UUID{}, fmt.Errorf("key %q is not under %q", key, OriginalsPrefix)
	}
	rest := strings.TrimPrefix(key, OriginalsPrefix)
	idPart, _, found := strings.Cut(rest, "/")
	if !found || idPart == "" {
		return uuid.UUID{}, fmt.Errorf("key %q does not follow the originals/{id}/{filename} convention", key)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("key %q carries an invalid media ID: %w", key, err)
	}
	return id, nil
}
