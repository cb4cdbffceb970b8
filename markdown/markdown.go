// Package markdown renders the small markdown subset used by roadmaps to
// HTML fragments.
//
// The renderer is a fixed, ordered list of text rewrites. Each rule runs on
// the output of the previous one, so the order is part of the output
// format. It does not handle nesting, escapes, links, images, tables or
// blockquotes, and it keeps the quirks that follow from rule order: a lone
// "*" is always an italic delimiter, and a document starting with a heading
// gets a dangling "</p>" at its first blank line.
package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

var (
	headingRules = []rule{
		{regexp.MustCompile(`(?m)^### (.*)$`), "<h3>${1}</h3>"},
		{regexp.MustCompile(`(?m)^## (.*)$`), "<h2>${1}</h2>"},
		{regexp.MustCompile(`(?m)^# (.*)$`), "<h1>${1}</h1>"},
	}
	boldRule       = rule{regexp.MustCompile(`\*\*(.*?)\*\*`), "<strong>${1}</strong>"}
	italicRule     = rule{regexp.MustCompile(`\*(.*?)\*`), "<em>${1}</em>"}
	fenceRule      = rule{regexp.MustCompile("(?s)```(.*?)```"), "<pre><code>${1}</code></pre>"}
	inlineCodeRule = rule{regexp.MustCompile("`(.*?)`"), "<code>${1}</code>"}
	listItemRules  = []rule{
		{regexp.MustCompile(`(?m)^- (.*)$`), "<li>${1}</li>"},
		{regexp.MustCompile(`(?m)^\* (.*)$`), "<li>${1}</li>"},
	}
	listWrapRule  = rule{regexp.MustCompile(`<li>.*</li>`), "<ul>${0}</ul>"}
	listMergeRule = rule{regexp.MustCompile(`</ul>\s*<ul>`), ""}

	placeholderRe = regexp.MustCompile("\x00([0-9]+)\x00")
)

func (r rule) apply(s string) string {
	return r.re.ReplaceAllString(s, r.repl)
}

// Render converts src to an HTML fragment. It is pure and deterministic.
func Render(src string) string {
	// Fenced code is opaque to every other rule: stash the contents and
	// restore them once all rules have run.
	s, fenced := protectFences(src)

	for _, r := range headingRules {
		s = r.apply(s)
	}
	s = boldRule.apply(s)
	s = italicRule.apply(s)
	s = fenceRule.apply(s)
	s = inlineCodeRule.apply(s)
	for _, r := range listItemRules {
		s = r.apply(s)
	}
	s = listWrapRule.apply(s)
	s = listMergeRule.apply(s)
	s = strings.ReplaceAll(s, "\n\n", "</p><p>")
	s = strings.ReplaceAll(s, "\n", "<br>")

	s = restoreFences(s, fenced)

	if !strings.HasPrefix(s, "<h") && !strings.HasPrefix(s, "<ul") && !strings.HasPrefix(s, "<pre") {
		s = "<p>" + s + "</p>"
	}
	return s
}

// protectFences replaces the body of every fenced block with a NUL-delimited
// index so later rules cannot see it.
func protectFences(src string) (string, []string) {
	var bodies []string
	out := fenceRule.re.ReplaceAllStringFunc(src, func(m string) string {
		body := m[3 : len(m)-3]
		bodies = append(bodies, body)
		return "```\x00" + strconv.Itoa(len(bodies)-1) + "\x00```"
	})
	return out, bodies
}

func restoreFences(s string, bodies []string) string {
	if len(bodies) == 0 {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		i, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || i >= len(bodies) {
			return m
		}
		return bodies[i]
	})
}
