// Package mention finds the users addressed by @tokens in a message.
package mention

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"hive-chat/domain"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

var tokenPattern = regexp.MustCompile(`@([a-zA-Z0-9_]+)`)

// Tokens returns the lowercased @tokens of a text, without duplicates.
func Tokens(text string) []string {
	matches := tokenPattern.FindAllStringSubmatch(text, -1)
	return lo.Uniq(lo.Map(matches, func(m []string, _ int) string { return strings.ToLower(m[1]) }))
}

// NormalizeName lowercases a full name and strips its whitespace,
// so "Ann Lee" can be addressed as @annlee.
func NormalizeName(fullName string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, fullName)
}

// Resolve returns the candidates matched by at least one token of text, in
// candidate order. A candidate matches when its normalized name contains a
// token or a token contains its normalized name. The sender never matches.
func Resolve(text, senderID string, candidates []domain.User) ([]domain.User, error) {
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return nil, nil
	}
	names := make(map[string][]string) // map normalized name -> user ids
	for _, c := range candidates {
		if c.ID == senderID {
			continue
		}
		if name := NormalizeName(c.FullName); name != "" {
			names[name] = append(names[name], c.ID)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}

	matched := make(map[string]struct{})

	// Name contains a token
	byToken, err := newMachine(tokens)
	if err != nil {
		return nil, err
	}
	for name, ids := range names {
		if len(byToken.MultiPatternSearch([]rune(name), true)) > 0 {
			for _, id := range ids {
				matched[id] = struct{}{}
			}
		}
	}

	// Token contains a name
	byName, err := newMachine(lo.Keys(names))
	if err != nil {
		return nil, err
	}
	for _, token := range tokens {
		for _, term := range byName.MultiPatternSearch([]rune(token), false) {
			for _, id := range names[string(term.Word)] {
				matched[id] = struct{}{}
			}
		}
	}

	return lo.Filter(candidates, func(c domain.User, _ int) bool {
		_, ok := matched[c.ID]
		return ok
	}), nil
}

// newMachine builds an automaton over distinct, sorted patterns.
func newMachine(patterns []string) (*goahocorasick.Machine, error) {
	patterns = lo.Uniq(patterns)
	sort.Strings(patterns)
	runes := make([][]rune, len(patterns))
	for i, p := range patterns {
		runes[i] = []rune(p)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(runes); err != nil {
		return nil, err
	}
	return m, nil
}
