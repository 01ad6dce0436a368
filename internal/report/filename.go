// Package report renders one injury's full log history into downloadable
// documents: a plain-text summary and a paginated PDF with a pain chart.
package report

import (
	"fmt"
	"strings"
	"time"
)

// FileName builds "{slug(title)}-{unix_ms}.{ext}": whitespace runs collapse
// to hyphens and the title is lowercased, nothing else is rewritten.
func FileName(title string, ext string, now time.Time) string {
	slug := strings.ToLower(strings.Join(strings.Fields(title), "-"))
	return fmt.Sprintf("%s-%d.%s", slug, now.UnixMilli(), ext)
}
