// Package storage archives raw import uploads in object storage or on disk.
package storage

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPrefix is used when no key prefix is configured
const DefaultPrefix = "imports"

// ObjectKey builds prefix/yyyy/mm/dd/<import id>/<file name>
func ObjectKey(prefix string, at time.Time, importID uuid.UUID, filename string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return path.Join(prefix, at.UTC().Format("2006/01/02"), importID.String(), cleanFilename(filename))
}

func cleanFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "upload"
	}
	return name
}
