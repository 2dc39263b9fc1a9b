package wrapper

import (
	"os"
	"path/filepath"
	"time"
)

// ApplyRetention deletes artifacts in dir that share prefix (any tag) and
// are older than days. It runs before a new invocation starts and is best
// effort: stat and remove failures are silently ignored. days <= 0 disables
// the pass entirely, regardless of artifact age.
func ApplyRetention(dir, prefix string, days int) {
	if days <= 0 || prefix == "" {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	matches, err := filepath.Glob(filepath.Join(dir, sanitizeSegment(prefix)+"_*"))
	if err != nil {
		return
	}

	for _, path := range matches {
		switch filepath.Ext(path) {
		case outputExt, errorExt, summaryExt:
		default:
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(path)
		}
	}
}
