package quiz

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spevenexe/S25-NLP-project/internal/config"
)

var (
	plainNumber  = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)
	numericRun   = regexp.MustCompile(`[0-9.]*[0-9][0-9.]*`)
	leadingValue = regexp.MustCompile(`\d+(\.\d+)?|\.\d+`)
)

// ParseScore turns a free-form model reply into a score in [0,5].
// A reply that is only a number is parsed as is. Otherwise the first run of digits and dots is used,
// so "definitely a 4 out of 5" gives 4. A reply without digits gives the neutral score and ok=false.
func ParseScore(raw string) (score float64, ok bool) {
	s := strings.TrimSpace(raw)
	if plainNumber.MatchString(s) {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return ClampScore(v), true
		}
	}

	run := numericRun.FindString(s)
	if run == "" {
		return config.NeutralScore, false
	}
	if v, err := strconv.ParseFloat(run, 64); err == nil {
		return ClampScore(v), true
	}
	// runs like "1.2.3" or "..5" fall back to their first well-formed number
	if v, err := strconv.ParseFloat(leadingValue.FindString(run), 64); err == nil {
		return ClampScore(v), true
	}
	return config.NeutralScore, false
}

func ClampScore(v float64) float64 {
	return max(config.MinScore, min(config.MaxScore, v))
}
