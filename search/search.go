// Package search ranks (server, tool) pairs against a free-text query.
//
// Search is a convenience layer over the registry and the per-tool summaries:
// it never loads full schemas, so exploratory search keeps the zero-context
// property of discovery. Scoring combines case-folded token overlap,
// substring containment, and Jaro-Winkler similarity. Ranking is
// deterministic: stable sort by score, ties broken by registry insertion
// order.
package search

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"

	"github.com/jonwraymond/toolscope/registry"
)

// DefaultLimit caps result count when the caller does not supply a limit.
const DefaultLimit = 10

// Result is one ranked search hit.
type Result struct {
	// Server is the owning server name.
	Server string `json:"server"`

	// Tool is the tool name.
	Tool string `json:"tool"`

	// Score is the match score in [0, 1], higher is better.
	Score float64 `json:"score"`

	// Description is the tool's one-line summary.
	Description string `json:"description"`
}

// Searcher scores tools across every registered server. It reads only the
// immutable registry and per-tool summaries and is safe for concurrent use.
type Searcher struct {
	reg *registry.Registry
}

// New creates a Searcher over the given registry.
func New(reg *registry.Registry) *Searcher {
	return &Searcher{reg: reg}
}

// Search returns up to limit tools ranked by relevance to query. A limit of
// zero or less applies DefaultLimit. An empty query returns no results.
func (s *Searcher) Search(query string, limit int) []Result {
	query = fold(query)
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	queryTokens := strings.Fields(query)

	var results []Result
	for _, srv := range s.reg.ListServers() {
		entry, err := s.reg.Get(srv.Name)
		if err != nil {
			continue
		}
		for _, tool := range entry.ToolNames {
			summary := entry.Summary(tool)
			sc := score(query, queryTokens, tool, summary)
			if sc <= 0 {
				continue
			}
			results = append(results, Result{
				Server:      srv.Name,
				Tool:        tool,
				Score:       sc,
				Description: summary,
			})
		}
	}

	// Stable sort preserves registry insertion order among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// score rates one tool against the query. Exact name match scores 1.0;
// otherwise the best of substring containment, token overlap across name and
// summary, and Jaro-Winkler similarity of the name wins.
func score(query string, queryTokens []string, tool, summary string) float64 {
	name := fold(tool)
	if name == query {
		return 1.0
	}

	best := 0.0

	if strings.Contains(name, query) || strings.Contains(query, name) {
		best = 0.9
	}

	if overlap := tokenOverlap(queryTokens, name, fold(summary)); overlap > best {
		best = overlap
	}

	// Jaro-Winkler catches near-miss spellings of the tool name. Scores
	// below the noise floor are discarded so unrelated tools never rank.
	if jw := matchr.JaroWinkler(query, name, false); jw >= 0.8 && jw*0.85 > best {
		best = jw * 0.85
	}

	return best
}

// tokenOverlap returns the fraction of query tokens found in the tool's
// name or summary text, scaled so that full overlap scores 0.8.
func tokenOverlap(queryTokens []string, name, summary string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	nameTokens := splitName(name)
	matched := 0
	for _, qt := range queryTokens {
		if containsToken(nameTokens, qt) || strings.Contains(summary, qt) {
			matched++
		}
	}
	return 0.8 * float64(matched) / float64(len(queryTokens))
}

// splitName breaks a tool name into tokens on common separators.
func splitName(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ':' || r == '/'
	})
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want || strings.Contains(t, want) {
			return true
		}
	}
	return false
}

// fold lowercases and trims text for comparison, using Unicode case folding
// rather than ASCII lowering. A Caser is stateful, so a fresh one is used
// per call to keep the Searcher safe for concurrent use.
func fold(s string) string {
	return strings.TrimSpace(cases.Fold().String(s))
}
