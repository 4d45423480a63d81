package textclass

import (
	"strings"

	"github.com/turia-capital/scout-cli/internal/model"
)

// Classify scans a free-text description against the rule table and returns
// the derived flags. An empty description produces no matches rather than an
// error. Classification is a pure function of (normalized text, rule table).
func Classify(description string, rules *RuleTable) model.TextFlags {
	if description == "" {
		return model.TextFlags{}
	}

	text := Normalize(description)
	return model.TextFlags{
		Risky:         matchAny(text, rules.Risky),
		Terrace:       matchAny(text, rules.Terrace),
		Balcony:       matchAny(text, rules.Balcony),
		LastFloor:     matchAny(text, rules.LastFloor),
		SouthFacing:   matchAny(text, rules.SouthFacing),
		ShortLetReady: matchAny(text, rules.ShortLet),
	}
}

func matchAny(text string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}
