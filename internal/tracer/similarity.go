package tracer

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	placeholderRe = regexp.MustCompile(`[%:]\w+`)
	tableRefRe    = regexp.MustCompile(`(?:FROM|JOIN)\s+(\w+)`)
)

// normalizeQuery prepares a query for comparison: uppercase, collapsed
// whitespace, bound parameters replaced by "?" so the same query bound
// with different placeholder styles still compares equal.
func normalizeQuery(query string) string {
	n := whitespaceRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(query)), " ")
	return placeholderRe.ReplaceAllString(n, "?")
}

// queryTables pulls the FROM/JOIN table names out of a normalized query.
func queryTables(normalized string) map[string]struct{} {
	tables := make(map[string]struct{})
	for _, m := range tableRefRe.FindAllStringSubmatch(normalized, -1) {
		tables[m[1]] = struct{}{}
	}
	return tables
}

func leadingWord(normalized string) string {
	fields := strings.Fields(normalized)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// QueriesSimilar reports whether two queries plausibly denote the same
// statement. When both reference tables and those tables overlap, a
// shared leading keyword is enough, otherwise at least half of the
// smaller table set must overlap. Without a table-overlap verdict the
// queries are compared by normalized prefix containment.
func QueriesSimilar(query1, query2 string) bool {
	if query1 == "" || query2 == "" {
		return false
	}
	n1 := normalizeQuery(query1)
	n2 := normalizeQuery(query2)

	t1 := queryTables(n1)
	t2 := queryTables(n2)
	if len(t1) > 0 && len(t2) > 0 {
		overlap := 0
		for t := range t1 {
			if _, ok := t2[t]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			if leadingWord(n1) == leadingWord(n2) {
				return true
			}
			minSize := len(t1)
			if len(t2) < minSize {
				minSize = len(t2)
			}
			return float64(overlap) >= float64(minSize)*0.5
		}
	}

	minLen := len(n1)
	if len(n2) < minLen {
		minLen = len(n2)
	}
	if minLen > 0 {
		prefixLen := minLen / 2
		if prefixLen > 100 {
			prefixLen = 100
		}
		return strings.Contains(n2, n1[:prefixLen]) || strings.Contains(n1, n2[:prefixLen])
	}
	return false
}
