package tableview

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"practiceadmin/pkg/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// row is a minimal Record: string fields plus one numeric field.
type row struct {
	City    string
	State   string
	Type    string
	Revenue float64
	// Notes is unset for some rows to exercise missing values.
	Notes *string
}

func (r row) Fields() []string {
	return []string{"city", "state", "type", "revenue", "notes"}
}

func (r row) Lookup(field string) (Value, bool) {
	switch field {
	case "city":
		return String(r.City), true
	case "state":
		return String(r.State), true
	case "type":
		return String(r.Type), true
	case "revenue":
		return Number(r.Revenue), true
	case "notes":
		if r.Notes == nil {
			return Value{}, false
		}
		return String(*r.Notes), true
	default:
		return Value{}, false
	}
}

func strPtr(s string) *string { return &s }

func cities(rs []row) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.City
	}
	return out
}

func sample() []row {
	return []row{
		{City: "NY", State: "NY", Type: "A"},
		{City: "LA", State: "CA", Type: "B"},
		{City: "SF", State: "CA", Type: "A"},
	}
}

func TestScenarios(t *testing.T) {
	testutil.Given(t, "three locations", func(t *testing.T) {
		records := sample()

		testutil.When(t, "grouping by type", func(t *testing.T) {
			view := Transform(records, nil, "", GroupKey("type"))

			testutil.Then(t, "groups appear in first-seen order", func(t *testing.T) {
				assert.Equal(t, []string{"A", "B"}, view.Labels())
				a, _ := view.Lookup("A")
				b, _ := view.Lookup("B")
				assert.Equal(t, []string{"NY", "SF"}, cities(a))
				assert.Equal(t, []string{"LA"}, cities(b))
			})
		})

		testutil.When(t, "sorting by city ascending", func(t *testing.T) {
			view := Transform(records, &SortSpec{Field: "city", Direction: Ascending}, "", NoGrouping)

			testutil.Then(t, "records are ordered LA, NY, SF", func(t *testing.T) {
				assert.Equal(t, []string{"LA", "NY", "SF"}, cities(view.Flatten()))
			})
		})

		testutil.When(t, "searching for ca", func(t *testing.T) {
			view := Transform(records, nil, "ca", NoGrouping)

			testutil.Then(t, "state CA matches case-insensitively", func(t *testing.T) {
				assert.Equal(t, []string{"LA", "SF"}, cities(view.Flatten()))
			})
		})
	})
}

func TestEmptyInput(t *testing.T) {
	t.Run("no grouping yields one empty group", func(t *testing.T) {
		view := Transform([]row{}, &SortSpec{Field: "city"}, "x", NoGrouping)
		require.Len(t, view, 1)
		assert.Equal(t, DefaultAllLabel, view[0].Label)
		assert.Empty(t, view[0].Records)
	})

	t.Run("grouping yields an empty view", func(t *testing.T) {
		view := Transform[row](nil, nil, "", GroupKey("type"))
		assert.Empty(t, view)
		assert.Equal(t, 0, view.Len())
	})
}

func TestSortIsStable(t *testing.T) {
	records := []row{
		{City: "a1", Type: "B"},
		{City: "a2", Type: "A"},
		{City: "a3", Type: "B"},
		{City: "a4", Type: "A"},
	}

	asc := SortRecords(records, &SortSpec{Field: "type", Direction: Ascending})
	assert.Equal(t, []string{"a2", "a4", "a1", "a3"}, cities(asc))

	// Descending is not ascending reversed: ties keep input order.
	desc := SortRecords(records, &SortSpec{Field: "type", Direction: Descending})
	assert.Equal(t, []string{"a1", "a3", "a2", "a4"}, cities(desc))
}

func TestDescendingReversesWithoutTies(t *testing.T) {
	records := []row{
		{City: "c", Revenue: 900},
		{City: "a", Revenue: 1500},
		{City: "b", Revenue: 1200},
	}
	asc := SortRecords(records, &SortSpec{Field: "revenue", Direction: Ascending})
	desc := SortRecords(records, &SortSpec{Field: "revenue", Direction: Descending})

	assert.Equal(t, []string{"c", "b", "a"}, cities(asc))
	reversed := cities(asc)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	assert.Equal(t, reversed, cities(desc))
}

func TestSortNumbersNumerically(t *testing.T) {
	records := []row{{City: "x", Revenue: 1000}, {City: "y", Revenue: 200}, {City: "z", Revenue: 30}}
	sorted := SortRecords(records, &SortSpec{Field: "revenue", Direction: Ascending})
	assert.Equal(t, []string{"z", "y", "x"}, cities(sorted))
}

func TestSortMissingValuesFirst(t *testing.T) {
	records := []row{
		{City: "with-b", Notes: strPtr("b")},
		{City: "missing"},
		{City: "empty", Notes: strPtr("")},
		{City: "with-a", Notes: strPtr("a")},
	}
	sorted := SortRecords(records, &SortSpec{Field: "notes", Direction: Ascending})
	assert.Equal(t, []string{"missing", "empty", "with-a", "with-b"}, cities(sorted))
}

func TestUnknownSortFieldKeepsOrder(t *testing.T) {
	records := sample()
	sorted := SortRecords(records, &SortSpec{Field: "nope", Direction: Descending})
	assert.Equal(t, cities(records), cities(sorted))
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	records := sample()
	before := cities(records)

	_ = Transform(records, &SortSpec{Field: "city", Direction: Descending}, "", GroupKey("state"))

	assert.Equal(t, before, cities(records))
}

func TestFilterProperty(t *testing.T) {
	records := []row{
		{City: "Chicago", State: "IL", Type: "Dental", Revenue: 1500},
		{City: "Los Angeles", State: "CA", Revenue: 900},
		{City: "New York", State: "NY", Type: "ortho", Revenue: 1200},
		{City: "Boston", State: "MA", Revenue: 0},
	}
	for _, term := range []string{"", "o", "NEW", "15", "ca", "zzz", "0"} {
		t.Run(fmt.Sprintf("term %q", term), func(t *testing.T) {
			kept := FilterRecords(records, term)
			keptSet := map[string]bool{}
			for _, r := range kept {
				keptSet[r.City] = true
				assert.True(t, term == "" || matches(r, strings.ToLower(term)), "%s should match", r.City)
			}
			for _, r := range records {
				if !keptSet[r.City] {
					assert.False(t, matches(r, strings.ToLower(term)), "%s should not match", r.City)
				}
			}
		})
	}
}

func TestGroupingPartitions(t *testing.T) {
	records := []row{
		{City: "a", State: "CA", Type: "A"},
		{City: "b", State: "NY"},
		{City: "c", State: "CA", Type: "B"},
		{City: "d", State: "TX", Type: "A"},
	}
	sort := &SortSpec{Field: "city", Direction: Descending}
	flat := Transform(records, sort, "", NoGrouping)
	require.Len(t, flat, 1)

	grouped := Transform(records, sort, "", GroupKey("type"))
	assert.ElementsMatch(t, cities(flat.Flatten()), cities(grouped.Flatten()))
	assert.Equal(t, len(records), grouped.Len())
	assert.Equal(t, []string{"A", "B", UnspecifiedLabel}, grouped.Labels())

	a, _ := grouped.Lookup("A")
	assert.Equal(t, []string{"d", "a"}, cities(a))
}

func TestGroupUnspecified(t *testing.T) {
	records := []row{{City: "zero", Revenue: 0}, {City: "set", Revenue: 10}}

	t.Run("zero numbers are unspecified", func(t *testing.T) {
		view := Transform(records, nil, "", GroupKey("revenue"))
		assert.Equal(t, []string{UnspecifiedLabel, "10"}, view.Labels())
	})

	t.Run("unknown group field puts everything in unspecified", func(t *testing.T) {
		view := Transform(records, nil, "", GroupKey("missing"))
		require.Len(t, view, 1)
		assert.Equal(t, UnspecifiedLabel, view[0].Label)
		assert.Len(t, view[0].Records, 2)
	})
}

func TestWithAllLabel(t *testing.T) {
	view := Transform(sample(), nil, "", NoGrouping, WithAllLabel("All Locations"))
	assert.Equal(t, []string{"All Locations"}, view.Labels())
}

func TestConcurrentTransforms(t *testing.T) {
	records := sample()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir := Ascending
			if i%2 == 0 {
				dir = Descending
			}
			view := Transform(records, &SortSpec{Field: "city", Direction: dir}, "", GroupKey("state"))
			assert.Equal(t, 3, view.Len())
		}(i)
	}
	wg.Wait()
	assert.Equal(t, []string{"NY", "LA", "SF"}, cities(records))
}

func TestParseSortSpec(t *testing.T) {
	assert.Nil(t, ParseSortSpec("  ", "desc"))
	assert.Equal(t, &SortSpec{Field: "city", Direction: Descending}, ParseSortSpec("city", "DESC"))
	assert.Equal(t, &SortSpec{Field: "city", Direction: Ascending}, ParseSortSpec("city", "sideways"))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "1200", Number(1200).String())
	assert.Equal(t, "1912.5", Number(1912.5).String())
	assert.Equal(t, "NY", String("NY").String())
	assert.Equal(t, "", Value{}.String())
	assert.True(t, Value{}.Empty())
	assert.True(t, Number(0).Empty())
	assert.False(t, String("x").Empty())
}

func TestCompareAcrossKinds(t *testing.T) {
	assert.Negative(t, Compare(Value{}, Number(-5)))
	assert.Negative(t, Compare(Number(99), String("0")))
	assert.Zero(t, Compare(String("a"), String("a")))
}
