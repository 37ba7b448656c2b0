package services

import (
	"fmt"
	"strings"
	"time"
)

// MaskCredential keeps the first and last four characters of a key.
func MaskCredential(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

// ArchiveObjectKey is the bucket key of a published archive.
func ArchiveObjectKey(username, archiveName string, now time.Time) string {
	return fmt.Sprintf("exports/%s/%d-%s", SafeFolderName(username), now.Unix(), archiveName)
}
