package quiz

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding"
)

var labelPrefixes = []string{"field of study:", "field:", "topic:", "category:"}

// LabelSet keeps the topic labels seen during one evaluation call so that
// near-duplicate model replies collapse onto one category. It is not safe for concurrent use.
type LabelSet struct {
	labels   []string
	vectors  [][]float32
	embedder embedding.Embedder
	limit    int
}

// NewLabelSet builds an empty set. embedder may be nil, which disables semantic matching.
func NewLabelSet(embedder embedding.Embedder, limit int) *LabelSet {
	if limit <= 0 {
		limit = config.MaxTopicLabels
	}
	return &LabelSet{embedder: embedder, limit: limit}
}

func (l *LabelSet) Labels() []string {
	out := make([]string, len(l.labels))
	copy(out, l.labels)
	return out
}

// Resolve maps a raw reply onto a label: exact match, then fuzzy match, then embedding match,
// then a new label while under the limit, else the closest known label. Empty replies give "".
func (l *LabelSet) Resolve(ctx context.Context, raw string) string {
	label := CleanLabel(raw)
	if label == "" {
		return ""
	}

	for _, known := range l.labels {
		if strings.EqualFold(known, label) {
			return known
		}
	}

	if best, sim := l.closest(label); sim >= config.LabelFuzzyCutoff {
		return best
	}

	var vector []float32
	if l.embedder != nil && len(l.labels) > 0 {
		if v, err := l.embedder.GetEmbedding(ctx, label); err == nil {
			vector = v
			if best, ok := l.semanticMatch(ctx, v); ok {
				return best
			}
		}
	}

	if len(l.labels) < l.limit {
		l.labels = append(l.labels, label)
		l.vectors = append(l.vectors, vector)
		return label
	}
	best, _ := l.closest(label)
	return best
}

func (l *LabelSet) closest(label string) (string, float64) {
	best, bestSim := "", -1.0
	for _, known := range l.labels {
		if sim := stringSimilarity(label, known); sim > bestSim {
			best, bestSim = known, sim
		}
	}
	return best, bestSim
}

func (l *LabelSet) semanticMatch(ctx context.Context, vector []float32) (string, bool) {
	best, bestSim := "", -1.0
	for i, known := range l.labels {
		if l.vectors[i] == nil {
			v, err := l.embedder.GetEmbedding(ctx, known)
			if err != nil {
				return "", false
			}
			l.vectors[i] = v
		}
		if sim := embedding.CosineSimilarity(vector, l.vectors[i]); sim > bestSim {
			best, bestSim = known, sim
		}
	}
	return best, bestSim >= config.LabelSimilarityCutoff
}

// CleanLabel reduces a model reply to a bare label: first non-empty line, no markup,
// no "Field of study:" style prefix, no trailing punctuation, single spaces.
func CleanLabel(raw string) string {
	line := ""
	for _, l := range strings.Split(raw, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}
	line = trimLabel(line)
	for _, p := range labelPrefixes {
		if len(line) >= len(p) && strings.EqualFold(line[:len(p)], p) {
			line = trimLabel(line[len(p):])
			break
		}
	}
	return strings.Join(strings.Fields(line), " ")
}

func trimLabel(s string) string {
	s = strings.TrimLeft(s, " \t\"'*`")
	return strings.TrimRight(s, " \t\"'*`.:;!,")
}

// stringSimilarity is 1 - editDistance/longerLength over lower-cased runes.
func stringSimilarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
