// Package tableview turns a record snapshot into the grouped, ordered and
// filtered view rendered by the admin tables.
//
// Transform applies three steps in a fixed order:
//
//  1. Sort: stable, by one field, ascending or descending.
//  2. Filter: case-insensitive substring match against every exposed field.
//  3. Group: partition by one field in first-seen order.
//
// The package is pure. It never mutates its input and holds no state, so it is
// safe to call concurrently on independent snapshots.
package tableview

import (
	"slices"
	"strings"
)

// Record is a business entity that exposes a fixed set of scalar fields.
// Nested data (such as a location's documents checklist) is simply not listed
// in Fields and therefore never sorted, searched or grouped on.
type Record interface {
	// Fields lists the searchable field names in display order.
	Fields() []string
	// Lookup returns the value of field, or false if the record has no such field.
	Lookup(field string) (Value, bool)
}

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec selects the sort field and direction. A nil *SortSpec means no sort.
type SortSpec struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// GroupKey names the field to group by.
type GroupKey string

// NoGrouping yields a single group holding every filtered record.
const NoGrouping GroupKey = "none"

const (
	// UnspecifiedLabel collects records whose group field is missing or empty.
	UnspecifiedLabel = "Unspecified"
	// DefaultAllLabel labels the single group produced by NoGrouping.
	DefaultAllLabel = "All"
)

// Group is one labelled slice of the view.
type Group[R Record] struct {
	Label   string `json:"label"`
	Records []R    `json:"records"`
}

// View is an ordered mapping from group label to records.
type View[R Record] []Group[R]

// Labels returns group labels in view order.
func (v View[R]) Labels() []string {
	labels := make([]string, len(v))
	for i, g := range v {
		labels[i] = g.Label
	}
	return labels
}

// Lookup returns the records under label.
func (v View[R]) Lookup(label string) ([]R, bool) {
	for _, g := range v {
		if g.Label == label {
			return g.Records, true
		}
	}
	return nil, false
}

// Flatten concatenates all groups in view order.
func (v View[R]) Flatten() []R {
	out := make([]R, 0, v.Len())
	for _, g := range v {
		out = append(out, g.Records...)
	}
	return out
}

// Len counts records across all groups.
func (v View[R]) Len() int {
	n := 0
	for _, g := range v {
		n += len(g.Records)
	}
	return n
}

type options struct {
	allLabel string
}

// Option tunes Transform.
type Option func(*options)

// WithAllLabel sets the label of the single group produced by NoGrouping.
func WithAllLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.allLabel = label
		}
	}
}

// Transform sorts, filters and groups records. It never fails: unknown sort
// fields leave the order unchanged and unknown group fields put every record
// under UnspecifiedLabel.
func Transform[R Record](records []R, sort *SortSpec, search string, group GroupKey, opts ...Option) View[R] {
	o := options{allLabel: DefaultAllLabel}
	for _, opt := range opts {
		opt(&o)
	}
	sorted := SortRecords(records, sort)
	filtered := FilterRecords(sorted, search)
	return GroupRecords(filtered, group, o.allLabel)
}

// SortRecords returns a stably sorted copy of records. Equal keys keep their
// input order in both directions; a missing value sorts before any present one.
func SortRecords[R Record](records []R, sort *SortSpec) []R {
	out := slices.Clone(records)
	if sort == nil || sort.Field == "" {
		return out
	}
	field := sort.Field
	desc := sort.Direction == Descending
	slices.SortStableFunc(out, func(a, b R) int {
		av, _ := a.Lookup(field)
		bv, _ := b.Lookup(field)
		c := Compare(av, bv)
		if desc {
			return -c
		}
		return c
	})
	return out
}

// FilterRecords keeps records with at least one field whose string form
// contains search, ignoring case. An empty search keeps everything.
func FilterRecords[R Record](records []R, search string) []R {
	if search == "" {
		return slices.Clone(records)
	}
	needle := strings.ToLower(search)
	out := make([]R, 0, len(records))
	for _, r := range records {
		if matches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r Record, needle string) bool {
	for _, f := range r.Fields() {
		v, ok := r.Lookup(f)
		if !ok || v.Kind() == 0 {
			continue
		}
		if strings.Contains(strings.ToLower(v.String()), needle) {
			return true
		}
	}
	return false
}

// GroupRecords partitions records by the string form of group. Labels appear
// in first-seen order and each group keeps the input order.
func GroupRecords[R Record](records []R, group GroupKey, allLabel string) View[R] {
	if group == NoGrouping || group == "" {
		if allLabel == "" {
			allLabel = DefaultAllLabel
		}
		return View[R]{{Label: allLabel, Records: slices.Clone(records)}}
	}

	field := string(group)
	view := View[R]{}
	index := make(map[string]int)
	for _, r := range records {
		label := UnspecifiedLabel
		if v, ok := r.Lookup(field); ok && !v.Empty() {
			label = v.String()
		}
		i, seen := index[label]
		if !seen {
			i = len(view)
			index[label] = i
			view = append(view, Group[R]{Label: label})
		}
		view[i].Records = append(view[i].Records, r)
	}
	return view
}

// ParseDirection maps user input onto a Direction. Anything but "desc" is ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Descending)) {
		return Descending
	}
	return Ascending
}

// ParseSortSpec builds a SortSpec from query parameters. An empty field means no sort.
func ParseSortSpec(field, direction string) *SortSpec {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	return &SortSpec{Field: field, Direction: ParseDirection(direction)}
}
