package tableview

import (
	"cmp"
	"strconv"
)

// Kind is the runtime type of a record field.
type Kind uint8

const (
	KindNumber Kind = iota + 1
	KindString
)

// Value is a scalar field value. Dates travel as KindString in YYYY-MM-DD form,
// which orders correctly under string comparison.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// String wraps a string field value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number wraps a numeric field value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

func (v Value) Kind() Kind { return v.kind }

// Empty reports whether v is unset, an empty string or the number zero.
func (v Value) Empty() bool {
	switch v.kind {
	case KindString:
		return v.str == ""
	case KindNumber:
		return v.num == 0
	default:
		return true
	}
}

// String renders v the way the dashboard displays it: integers without a
// fractional part, other numbers in their shortest exact form.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Compare orders two values. Within a kind the natural order applies. Across
// kinds an unset value sorts first, then numbers, then strings.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case KindString:
		return cmp.Compare(a.str, b.str)
	case KindNumber:
		return cmp.Compare(a.num, b.num)
	default:
		return 0
	}
}
