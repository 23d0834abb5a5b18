package storage

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const fallbackName = "file"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewKey builds a collision-resistant object key: upload time in unix
// milliseconds, a short random suffix, then the sanitized original name.
func NewKey(now time.Time, originalName string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), suffix, SanitizeName(originalName))
}

// SanitizeName strips directories and replaces characters that are awkward in URLs.
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return fallbackName
	}
	return name
}

// JoinURL joins a public base URL and an object key, escaping each key segment.
func JoinURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}
