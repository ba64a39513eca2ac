package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// DefaultNameTemplate names outputs after the minute the run started.
const DefaultNameTemplate = "mysqldump_%Y%m%d_%H%M"

// suffixes stripped from a formatted base name, longest first so ".tar.gz"
// is removed whole
var archiveSuffixes = []string{".tar.gz", ".zip"}

// BaseName formats the naming template against now and strips one trailing
// archive suffix, so the result can double as the staging directory name.
// The finalizer reappends the suffix for the selected output mode.
func BaseName(template string, now time.Time) (string, error) {
	if template == "" {
		template = DefaultNameTemplate
	}
	name, err := strftime.Format(template, now)
	if err != nil {
		return "", fmt.Errorf("invalid name template '%s': %v", template, err)
	}
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	if name == "" {
		return "", fmt.Errorf("name template '%s' produces an empty name", template)
	}
	return name, nil
}
