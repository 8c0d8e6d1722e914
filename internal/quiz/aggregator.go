package quiz

import (
	"sort"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
)

type rankedCategory struct {
	name    string
	average float64
}

// Aggregate ranks categories by average score and splits them into strengths and weaknesses.
// Ranking is by average descending, then by name, so the result does not depend on map order.
// Empty lists are replaced by the placeholder label.
func Aggregate(stats map[string]quizModel.CategoryStat, placeholder string) (strengths []string, weaknesses []string) {
	ranked := make([]rankedCategory, 0, len(stats))
	for name, stat := range stats {
		if len(stat.Scores) == 0 {
			continue
		}
		ranked = append(ranked, rankedCategory{name: name, average: stat.Average()})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].average != ranked[j].average {
			return ranked[i].average > ranked[j].average
		}
		return ranked[i].name < ranked[j].name
	})

	strengths = []string{}
	weaknesses = []string{}
	for _, c := range ranked {
		if c.average >= config.StrengthThreshold {
			if len(strengths) < config.MaxStrengths {
				strengths = append(strengths, c.name)
			}
			continue
		}
		weaknesses = append(weaknesses, c.name)
	}

	if len(strengths) == 0 {
		strengths = []string{placeholder}
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{placeholder}
	}
	return strengths, weaknesses
}
