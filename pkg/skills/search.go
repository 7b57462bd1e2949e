package skills

import (
	"fmt"
	"sort"
	"strings"
)

// Score weights. Name matches must outrank description matches, all else
// equal; the exact ratio is a tuning constant.
const (
	nameMatchWeight = 10
	descMatchWeight = 3
)

// ParsedQuery is the structured form of a raw search query. Terms prefixed
// with '-' are exclusion terms. Immutable after creation.
type ParsedQuery struct {
	Include       []string `json:"include"`
	Exclude       []string `json:"exclude,omitempty"`
	OriginalQuery string   `json:"original_query"`
	HasExclusions bool     `json:"has_exclusions"`
	TermCount     int      `json:"term_count"`
}

// ParseQuery splits a raw query string on whitespace and classifies terms.
func ParseQuery(query string) ParsedQuery {
	return parseTerms(strings.Fields(query), query)
}

// ParseQueryTerms classifies an already-tokenized query.
func ParseQueryTerms(terms []string) ParsedQuery {
	return parseTerms(terms, strings.Join(terms, " "))
}

func parseTerms(terms []string, original string) ParsedQuery {
	q := ParsedQuery{OriginalQuery: original}
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if exclude, ok := strings.CutPrefix(term, "-"); ok {
			if exclude != "" {
				q.Exclude = append(q.Exclude, exclude)
			}
			continue
		}
		if term != "" {
			q.Include = append(q.Include, term)
		}
	}
	q.HasExclusions = len(q.Exclude) > 0
	q.TermCount = len(q.Include) + len(q.Exclude)
	return q
}

// SkillMatch is one scored search hit.
type SkillMatch struct {
	Skill       *Skill `json:"skill"`
	NameMatches int    `json:"name_matches"`
	DescMatches int    `json:"desc_matches"`
	TotalScore  int    `json:"total_score"`
}

// SearchResult is the outcome of ranking a query against the registry.
// TotalMatches counts skills satisfying the include criteria before
// exclusion filtering; Matches holds the post-exclusion hits sorted by
// descending score, ties broken by registration order.
type SearchResult struct {
	Matches      []SkillMatch `json:"matches"`
	TotalMatches int          `json:"total_matches"`
	TotalSkills  int          `json:"total_skills"`
	Feedback     string       `json:"feedback"`
	Query        ParsedQuery  `json:"query"`
}

// RankSkills scores, filters, and orders skills for a parsed query. Every
// include term must match at least one of name, tool name, or description
// (case-insensitive substring); any exclude term matching any of those
// fields removes the skill entirely. Zero include terms match all
// non-excluded skills.
func RankSkills(skills []*Skill, query ParsedQuery) *SearchResult {
	result := &SearchResult{TotalSkills: len(skills), Query: query}

	for _, skill := range skills {
		name := strings.ToLower(skill.Name)
		toolName := strings.ToLower(skill.ToolName)
		desc := strings.ToLower(skill.Description)

		match := SkillMatch{Skill: skill}
		included := true
		for _, term := range query.Include {
			term = strings.ToLower(term)
			inName := strings.Contains(name, term) || strings.Contains(toolName, term)
			inDesc := strings.Contains(desc, term)
			if inName {
				match.NameMatches++
			}
			if inDesc {
				match.DescMatches++
			}
			if !inName && !inDesc {
				included = false
			}
		}
		if !included {
			continue
		}
		result.TotalMatches++

		excluded := false
		for _, term := range query.Exclude {
			term = strings.ToLower(term)
			if strings.Contains(name, term) || strings.Contains(toolName, term) || strings.Contains(desc, term) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		match.TotalScore = match.NameMatches*nameMatchWeight + match.DescMatches*descMatchWeight
		result.Matches = append(result.Matches, match)
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].TotalScore > result.Matches[j].TotalScore
	})

	result.Feedback = buildFeedback(result)
	return result
}

func buildFeedback(result *SearchResult) string {
	feedback := fmt.Sprintf("%d of %d skills matched query %q",
		len(result.Matches), result.TotalSkills, result.Query.OriginalQuery)
	if result.Query.HasExclusions {
		feedback += fmt.Sprintf(" (%d exclusion terms applied)", len(result.Query.Exclude))
	}
	return feedback
}
