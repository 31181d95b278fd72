package thumbnailer

import (
	"path"
	"strings"
)

// DefaultKeyPrefix is the logical prefix derived objects are written
// under when no other prefix is configured.
const DefaultKeyPrefix = "thumbnails/"

// DestinationKey derives the destination object key for a source key.
// The source key keeps its directory structure, its extension is
// replaced with .jpg, and the result is placed under prefix. The
// derivation is deterministic so reprocessing a source overwrites its
// previous thumbnail instead of accumulating duplicates.
func DestinationKey(prefix, sourceKey string) string {
	base := strings.TrimSuffix(sourceKey, path.Ext(sourceKey))
	return normalizePrefix(prefix) + base + ".jpg"
}

func normalizePrefix(prefix string) string {
	if prefix == "" {
		return DefaultKeyPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		return prefix + "/"
	}
	return prefix
}
