// Package reconcile maps noisy category labels onto a canonical vocabulary
// by token-sort fuzzy matching.
package reconcile

import (
	"sort"

	"retailkpi/pkg/models"
)

// Match is a scored vocabulary candidate.
type Match struct {
	Term  string
	Score float64
}

// Matcher reconciles category values against a vocabulary.
type Matcher struct {
	Vocabulary []string
	Threshold  float64
	// Aliases maps a normalized value straight to a canonical term and is
	// consulted before scoring.
	Aliases map[string]string
}

// NewMatcher returns a matcher over vocabulary, falling back to the built-in
// list when vocabulary is empty.
func NewMatcher(vocabulary []string, threshold float64, aliases map[string]string) *Matcher {
	if len(vocabulary) == 0 {
		vocabulary = Vocabulary()
	}
	return &Matcher{
		Vocabulary: vocabulary,
		Threshold:  threshold,
		Aliases:    aliases,
	}
}

// BestMatch returns the highest scoring term. Ties go to the term listed
// first. ok is false only for an empty vocabulary.
func (m *Matcher) BestMatch(query string) (Match, bool) {
	var best Match
	found := false
	for _, term := range m.Vocabulary {
		score := TokenSortRatio(query, term)
		if !found || score > best.Score {
			best = Match{Term: term, Score: score}
			found = true
		}
	}
	return best, found
}

// Candidates returns up to n terms by descending score, vocabulary order
// breaking ties.
func (m *Matcher) Candidates(query string, n int) []Match {
	all := make([]Match, len(m.Vocabulary))
	for i, term := range m.Vocabulary {
		all[i] = Match{Term: term, Score: TokenSortRatio(query, term)}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all
}

// Resolve reports which canonical term value maps to and its score. An alias
// hit scores 100.
func (m *Matcher) Resolve(value string) (Match, bool) {
	if term, ok := m.Aliases[value]; ok {
		return Match{Term: term, Score: 100}, true
	}
	best, ok := m.BestMatch(value)
	if !ok || best.Score < m.Threshold {
		return best, false
	}
	return best, true
}

// Reconcile returns the canonical term for value when it reaches the
// threshold, otherwise value unchanged. Absent stays absent.
func (m *Matcher) Reconcile(value *string) *string {
	if value == nil {
		return nil
	}
	if match, ok := m.Resolve(*value); ok {
		term := match.Term
		return &term
	}
	return models.CopyString(value)
}

// IsCanonical reports whether value is a vocabulary term.
func (m *Matcher) IsCanonical(value string) bool {
	for _, term := range m.Vocabulary {
		if term == value {
			return true
		}
	}
	return false
}

// ReconcileTables applies the matcher to the category column of every table.
// The input is left untouched.
func ReconcileTables(t models.Tables, m *Matcher) models.Tables {
	out := t.Clone()
	for i := range out.Products {
		out.Products[i].Category = m.Reconcile(out.Products[i].Category)
	}
	for i := range out.Inventory {
		out.Inventory[i].Category = m.Reconcile(out.Inventory[i].Category)
	}
	for i := range out.Transactions {
		out.Transactions[i].Category = m.Reconcile(out.Transactions[i].Category)
	}
	return out
}

// Unmatched lists the distinct present category values of t that are not
// vocabulary terms, most frequent first, with their best candidate.
func Unmatched(t models.Tables, m *Matcher) []models.UnmatchedCategory {
	counts := make(map[string]int)
	var order []string
	add := func(c *string) {
		if c == nil || m.IsCanonical(*c) {
			return
		}
		if _, seen := counts[*c]; !seen {
			order = append(order, *c)
		}
		counts[*c]++
	}
	for _, p := range t.Products {
		add(p.Category)
	}
	for _, s := range t.Inventory {
		add(s.Category)
	}
	for _, tx := range t.Transactions {
		add(tx.Category)
	}

	out := make([]models.UnmatchedCategory, 0, len(order))
	for _, v := range order {
		best, _ := m.BestMatch(v)
		out = append(out, models.UnmatchedCategory{
			Value:     v,
			Count:     counts[v],
			BestMatch: best.Term,
			Score:     best.Score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
