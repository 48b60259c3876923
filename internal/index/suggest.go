package index

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Suggest returns up to max indexed names similar to name, most similar
// first, for "did you mean" output after a failed definition lookup.
// Suggestions use the author spelling of the first symbol in each bucket.
func (x *SymbolIndex) Suggest(name string, max int) []string {
	if max <= 0 || len(x.byName) == 0 {
		return nil
	}
	target := strings.ToLower(name)

	type scored struct {
		key   string
		score float32
	}
	var candidates []scored
	for key := range x.byName {
		if key == target {
			continue
		}
		score, err := edlib.StringsSimilarity(target, key, edlib.Levenshtein)
		if err != nil || score < 0.5 {
			continue
		}
		candidates = append(candidates, scored{key: key, score: score})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].key < candidates[j].key
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if bucket := x.byName[c.key]; len(bucket) > 0 {
			out = append(out, bucket[0].Name)
		}
	}
	return out
}
