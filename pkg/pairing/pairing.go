package pairing

import (
	"path/filepath"
	"sort"
	"strings"
)

// Pair couples an audio file with the outline file sharing its stem.
type Pair struct {
	AudioName string
	TextName  string
	Stem      string
}

// Result lists the matched pairs plus the files left without a partner.
type Result struct {
	Pairs         []Pair
	OrphanedAudio []string
	OrphanedText  []string
}

// Stem strips the directory and the final extension from a file name.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Match pairs audio names with text names by exact stem equality.
// When several files share a stem, the first occurrence wins and the
// rest are reported as orphans. Pairs come back sorted by stem so
// batch jobs enqueue in a stable order.
func Match(audioNames, textNames []string) Result {
	textByStem := make(map[string]string, len(textNames))
	textUsed := make(map[string]bool, len(textNames))
	var orphanedText []string
	for _, t := range textNames {
		stem := Stem(t)
		if _, exists := textByStem[stem]; exists {
			orphanedText = append(orphanedText, t)
			continue
		}
		textByStem[stem] = t
	}

	var pairs []Pair
	var orphanedAudio []string
	seenAudio := make(map[string]bool, len(audioNames))
	for _, a := range audioNames {
		stem := Stem(a)
		if seenAudio[stem] {
			orphanedAudio = append(orphanedAudio, a)
			continue
		}
		seenAudio[stem] = true

		t, ok := textByStem[stem]
		if !ok {
			orphanedAudio = append(orphanedAudio, a)
			continue
		}
		textUsed[stem] = true
		pairs = append(pairs, Pair{AudioName: a, TextName: t, Stem: stem})
	}

	for stem, t := range textByStem {
		if !textUsed[stem] {
			orphanedText = append(orphanedText, t)
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Stem < pairs[j].Stem })
	sort.Strings(orphanedAudio)
	sort.Strings(orphanedText)

	return Result{Pairs: pairs, OrphanedAudio: orphanedAudio, OrphanedText: orphanedText}
}
