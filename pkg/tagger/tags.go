package tagger

import (
	"fmt"
	"strings"
)

// peoplePrefix marks person tags, which sort ahead of everything else and
// keep their original case.
var peoplePrefix = "People"

// prepareTags orders a tag set for writing: People tags first, then the
// rest lowercased, duplicates dropped. Input order is otherwise preserved
// so repeated runs produce identical output.
func prepareTags(tags []string) []string {
	seen := map[string]bool{}
	ordered := []string{}

	for _, t := range tags {
		if !strings.HasPrefix(t, peoplePrefix) || seen[t] {
			continue
		}
		seen[t] = true
		ordered = append(ordered, t)
	}

	for _, t := range tags {
		if strings.HasPrefix(t, peoplePrefix) {
			continue
		}
		lt := strings.ToLower(strings.TrimSpace(t))
		if lt == "" || seen[lt] {
			continue
		}
		seen[lt] = true
		ordered = append(ordered, lt)
	}

	return ordered
}

// categoriesXML serializes tags into the nested Categories format some
// photo managers expect.
func categoriesXML(tags []string) string {
	var b strings.Builder
	b.WriteString("<Categories>")
	for n, t := range tags {
		fmt.Fprintf(&b, `<Category Assigned="%d">%s</Category>`, n+1, t)
	}
	b.WriteString("</Categories>")
	return b.String()
}
