package catalog

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
)

// labelFromName turns "home-assistant" into "Home Assistant".
func labelFromName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || unicode.IsSpace(r) })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func nameParts(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
}

// score ranks how well term matches an entry: exact id, id prefix, whole word,
// substring of the id, then substring of a keyword. Zero means no match.
func score(entry icon.CatalogIcon, term string) int {
	id := strings.ToLower(entry.ID)
	switch {
	case id == term:
		return 5
	case strings.HasPrefix(id, term):
		return 4
	}
	for _, part := range nameParts(id) {
		if part == term {
			return 3
		}
	}
	if strings.Contains(id, term) {
		return 2
	}
	for _, kw := range entry.Keywords {
		if strings.Contains(strings.ToLower(kw), term) {
			return 1
		}
	}
	return 0
}

// rank filters entries matching term and orders them by score, then id.
// An empty term returns entries unchanged.
func rank(entries []icon.CatalogIcon, term string) []icon.CatalogIcon {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}

	type scored struct {
		entry icon.CatalogIcon
		score int
	}
	matches := make([]scored, 0, len(entries))
	for _, e := range entries {
		if s := score(e, term); s > 0 {
			matches = append(matches, scored{entry: e, score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].entry.ID < matches[j].entry.ID
	})

	out := make([]icon.CatalogIcon, len(matches))
	for i, m := range matches {
		out[i] = m.entry
	}
	return out
}
