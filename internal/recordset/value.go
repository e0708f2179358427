package recordset

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used throughout the pipeline.
const DateLayout = "2006-01-02"

// Kind identifies the scalar type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindInt
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInt:
		return "integer"
	case KindDate:
		return "date"
	}
	return "unknown"
}

// Value is a typed scalar cell: null, string, number, integer or
// day-precision date. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	i    int64
	date time.Time
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Str returns a string Value.
func Str(s string) Value {
	return Value{kind: KindString, str: s}
}

// Num returns a number Value.
func Num(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Int returns an integer Value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Date returns a date Value truncated to day precision in UTC.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) Text() string    { return v.str }
func (v Value) Float() float64  { return v.num }
func (v Value) Integer() int64  { return v.i }
func (v Value) Time() time.Time { return v.date }

// Equal reports value equality. Null compares equal to null; values of
// different kinds are never equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindInt:
		return v.i == o.i
	case KindDate:
		return v.date.Equal(o.date)
	}
	return false
}

// String renders the value for display and serialization. Dates use
// DateLayout; null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDate:
		return v.date.Format(DateLayout)
	}
	return ""
}

// appendKey writes a collision-free encoding of the value, used to build
// row identity keys for deduplication.
func (v Value) appendKey(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteByte('n')
	case KindString:
		b.WriteByte('s')
		b.WriteString(strconv.Itoa(len(v.str)))
		b.WriteByte(':')
		b.WriteString(v.str)
	case KindNumber:
		b.WriteByte('f')
		b.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))
	case KindInt:
		b.WriteByte('i')
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindDate:
		b.WriteByte('d')
		b.WriteString(v.date.Format(DateLayout))
	}
	b.WriteByte('|')
}

// RowKey returns a deterministic identity key for a row; two rows share a
// key exactly when every column value compares Equal.
func RowKey(row []Value) string {
	var b strings.Builder
	for _, v := range row {
		v.appendKey(&b)
	}
	return b.String()
}
