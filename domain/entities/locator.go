package entities

import "fmt"

// NoIndex marks a reference or query that is not narrowed to the nth match.
const NoIndex = -1

// LocatorEntry binds a semantic element name to a selector within a page.
type LocatorEntry struct {
	Name     string `json:"name" yaml:"name"`
	Selector string `json:"selector" yaml:"selector"`
	Scope    string `json:"scope,omitempty" yaml:"scope,omitempty"` // parent selector
}

// TextFilter narrows a locator to elements by their text.
// Exact compares trimmed text, otherwise a substring match is used.
type TextFilter struct {
	Value string `json:"value,omitempty"`
	Exact bool   `json:"exact,omitempty"`
}

// IsZero reports whether the filter is unset.
func (f TextFilter) IsZero() bool {
	return f.Value == ""
}

// Ref is how callers address a registered locator. Build it with Named.
type Ref struct {
	Name  string
	Index int
	Text  TextFilter
}

// Named returns a reference to every element matched by the named locator.
func Named(name string) Ref {
	return Ref{Name: name, Index: NoIndex}
}

// Nth narrows the reference to the i-th match (zero based).
func (r Ref) Nth(i int) Ref {
	r.Index = i
	return r
}

// First is Nth(0).
func (r Ref) First() Ref {
	return r.Nth(0)
}

// WithText keeps the matches whose text contains s.
func (r Ref) WithText(s string) Ref {
	r.Text = TextFilter{Value: s}
	return r
}

// WithExactText keeps the matches whose trimmed text equals s.
func (r Ref) WithExactText(s string) Ref {
	r.Text = TextFilter{Value: s, Exact: true}
	return r
}

func (r Ref) String() string {
	s := r.Name
	if !r.Text.IsZero() {
		if r.Text.Exact {
			s += fmt.Sprintf("[text=%q]", r.Text.Value)
		} else {
			s += fmt.Sprintf("[has-text=%q]", r.Text.Value)
		}
	}
	if r.Index != NoIndex {
		s += fmt.Sprintf("[%d]", r.Index)
	}
	return s
}

// Query is a resolved locator handed to a driver. The text filter is applied
// before the index.
type Query struct {
	Locator  string
	Selector string
	Scope    string
	Index    int
	Text     TextFilter
}

// Unindexed returns the query without its index, used for counting.
func (q Query) Unindexed() Query {
	q.Index = NoIndex
	return q
}

func (q Query) String() string {
	s := q.Selector
	if q.Scope != "" {
		s = q.Scope + " >> " + s
	}
	if !q.Text.IsZero() {
		s += fmt.Sprintf(" >> has-text(%q)", q.Text.Value)
	}
	if q.Index != NoIndex {
		s += fmt.Sprintf(" >> nth=%d", q.Index)
	}
	return s
}
