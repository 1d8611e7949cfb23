// Package projection derives the visible task list from the stored one. It
// never touches the store: every call copies, filters and sorts.
package projection

import (
	"sort"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Query struct {
	Search string
	Sort   SortMode
}

// Projector holds the collator for alphabetical ordering. A collator is not
// safe for concurrent use, and neither is a Projector.
type Projector struct {
	locale   language.Tag
	collator *collate.Collator
}

func NewProjector(locale language.Tag) *Projector {
	return &Projector{locale: locale, collator: collate.New(locale)}
}

// NewProjectorForLocale parses a BCP 47 tag, falling back to English.
func NewProjectorForLocale(raw string) *Projector {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		tag = language.English
	}
	return NewProjector(tag)
}

func (p *Projector) Locale() language.Tag { return p.locale }

func (p *Projector) Project(tasks []model.Task, q Query) []model.Task {
	out := Filter(tasks, q.Search)
	switch q.Sort {
	case SortAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			return p.collator.CompareString(out[i].Text, out[j].Text) < 0
		})
	case SortIncompleteFirst:
		sort.SliceStable(out, func(i, j int) bool {
			return !out[i].Completed && out[j].Completed
		})
	}
	return out
}

// Filter keeps tasks whose text contains search, ignoring case. The result is
// always a fresh slice.
func Filter(tasks []model.Task, search string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	needle := strings.ToLower(search)
	for _, t := range tasks {
		if Matches(t, needle) {
			out = append(out, t)
		}
	}
	return out
}

func Matches(t model.Task, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), strings.ToLower(search))
}
