// Package search builds facet fragments for the document search box.
package search

import (
	"strings"

	"docdesk/internal/model"
)

func Account(slug string) string {
	return "account: " + strings.TrimSpace(slug)
}

func Group(slug string) string {
	return "group: " + strings.TrimSpace(slug)
}

// Source quotes the source so multi-word values stay one facet.
func Source(source string) string {
	return `source: "` + strings.ReplaceAll(source, `"`, `\"`) + `"`
}

// Append adds a facet to query, separated by a single space, unless the
// query already contains it.
func Append(query, facet string) string {
	query = strings.TrimSpace(query)
	facet = strings.TrimSpace(facet)
	if facet == "" || strings.Contains(query, facet) {
		return query
	}
	if query == "" {
		return facet
	}
	return query + " " + facet
}

// Query is a parsed search: facet values plus free text.
type Query struct {
	Accounts []string
	Groups   []string
	Sources  []string
	Text     string
}

// Parse splits a query into facets and free text. Unterminated quotes run to
// the end of the query.
func Parse(q string) Query {
	var out Query
	var text []string
	rest := strings.TrimSpace(q)
	for rest != "" {
		key, val, remaining, ok := nextFacet(rest)
		if !ok {
			word, tail, _ := strings.Cut(rest, " ")
			text = append(text, word)
			rest = strings.TrimSpace(tail)
			continue
		}
		switch key {
		case "account":
			out.Accounts = append(out.Accounts, val)
		case "group":
			out.Groups = append(out.Groups, val)
		case "source":
			out.Sources = append(out.Sources, val)
		}
		rest = strings.TrimSpace(remaining)
	}
	out.Text = strings.Join(text, " ")
	return out
}

func nextFacet(s string) (key, val, rest string, ok bool) {
	for _, k := range []string{"account", "group", "source"} {
		prefix := k + ":"
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		v := strings.TrimLeft(s[len(prefix):], " ")
		if strings.HasPrefix(v, `"`) {
			var b strings.Builder
			i := 1
			for ; i < len(v); i++ {
				if v[i] == '\\' && i+1 < len(v) && v[i+1] == '"' {
					b.WriteByte('"')
					i++
					continue
				}
				if v[i] == '"' {
					i++
					break
				}
				b.WriteByte(v[i])
			}
			return k, b.String(), v[min(i, len(v)):], true
		}
		word, tail, _ := strings.Cut(v, " ")
		return k, word, tail, true
	}
	return "", "", "", false
}

// Match reports whether d satisfies every facet in q and contains its free
// text in the title or description. Facets of the same kind are alternatives.
func (q Query) Match(d *model.Document) bool {
	if d == nil {
		return false
	}
	if len(q.Accounts) > 0 && !anyFold(q.Accounts, d.AccountSlug) {
		return false
	}
	if len(q.Groups) > 0 && !anyFold(q.Groups, d.OrganizationSlug) {
		return false
	}
	if len(q.Sources) > 0 && !anyFold(q.Sources, d.Source) {
		return false
	}
	if q.Text == "" {
		return true
	}
	text := strings.ToLower(q.Text)
	return strings.Contains(strings.ToLower(d.Title), text) ||
		strings.Contains(strings.ToLower(d.Description), text)
}

// Empty reports whether q would match everything.
func (q Query) Empty() bool {
	return len(q.Accounts) == 0 && len(q.Groups) == 0 && len(q.Sources) == 0 && q.Text == ""
}

func anyFold(xs []string, s string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}
