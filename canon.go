package vg

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// Table is an insertion-ordered deduplicating table keyed by K with
// payloads of type V. It has two modes: while building (the dry-run pass)
// Intern appends unseen values; once frozen (the real pass) Intern only
// looks up, and a miss panics because it means the two passes diverged.
type Table[K comparable, V any] struct {
	index  map[K]int32
	values []V
	frozen bool
	name   string
}

func newTable[K comparable, V any](name string) *Table[K, V] {
	return &Table[K, V]{index: make(map[K]int32), name: name}
}

// Intern returns the canonical index of k, appending v in building mode
// when k is unseen.
func (t *Table[K, V]) Intern(k K, v V) int32 {
	if i, ok := t.index[k]; ok {
		return i
	}
	if t.frozen {
		panic(fmt.Sprintf("vg: %s table miss after freeze (build passes diverged)", t.name))
	}
	i := int32(len(t.values))
	t.index[k] = i
	t.values = append(t.values, v)
	return i
}

// lookup returns the index of k without interning.
func (t *Table[K, V]) lookup(k K) (int32, bool) {
	i, ok := t.index[k]
	return i, ok
}

// At returns the value at index i.
func (t *Table[K, V]) At(i int32) V { return t.values[i] }

// Len returns the number of interned values.
func (t *Table[K, V]) Len() int { return len(t.values) }

// Freeze flips the table to lookup-only mode.
func (t *Table[K, V]) Freeze() { t.frozen = true }

// Canon holds the four canonical tables built by the dry-run pass and
// handed to builder targets through Init: images, strings, string lists
// and floats. Indices are dense, int32, and ordered by first interning.
type Canon struct {
	images  *Table[imageKey, ImageData]
	strings *Table[string, string]
	lists   *Table[string, []string]
	floats  *Table[float32, float32]
	frozen  bool
}

// NewCanon creates an empty set of canonical tables in building mode.
func NewCanon() *Canon {
	return &Canon{
		images:  newTable[imageKey, ImageData]("image"),
		strings: newTable[string, string]("string"),
		lists:   newTable[string, []string]("string list"),
		floats:  newTable[float32, float32]("float"),
	}
}

// Freeze flips every table to lookup-only mode. The build driver calls it
// between the dry-run and real passes.
func (c *Canon) Freeze() {
	c.images.Freeze()
	c.strings.Freeze()
	c.lists.Freeze()
	c.floats.Freeze()
	c.frozen = true
}

// Frozen reports whether Freeze has run.
func (c *Canon) Frozen() bool { return c.frozen }

// InternImage returns the canonical index of an image record. Identity is
// placement plus encoded content.
func (c *Canon) InternImage(d ImageData) int32 {
	return c.images.Intern(d.key(), d)
}

// InternString returns the canonical index of a string.
func (c *Canon) InternString(s string) int32 {
	return c.strings.Intern(s, s)
}

// InternStringList returns the canonical index of a string list, interning
// every member string as well. List elements must not contain NUL.
func (c *Canon) InternStringList(l []string) int32 {
	for _, s := range l {
		c.InternString(s)
	}
	key := strings.Join(l, "\x00")
	if i, ok := c.lists.lookup(key); ok {
		return i
	}
	return c.lists.Intern(key, append([]string(nil), l...))
}

// InternFloat returns the canonical index of a float. NaN panics: the
// tables key by value and NaN never equals itself.
func (c *Canon) InternFloat(v float32) int32 {
	if math32.IsNaN(v) {
		panic("vg: NaN cannot be canonicalized")
	}
	return c.floats.Intern(v, v)
}

// ImageAt returns the image record at index i.
func (c *Canon) ImageAt(i int32) ImageData { return c.images.At(i) }

// StringAt returns the string at index i.
func (c *Canon) StringAt(i int32) string { return c.strings.At(i) }

// StringListAt returns the string list at index i. Callers must not
// modify the returned slice.
func (c *Canon) StringListAt(i int32) []string { return c.lists.At(i) }

// FloatAt returns the float at index i.
func (c *Canon) FloatAt(i int32) float32 { return c.floats.At(i) }

// Images returns the image records in interning order. Callers must not
// modify the returned slice.
func (c *Canon) Images() []ImageData { return c.images.values }

// Strings returns the strings in interning order.
func (c *Canon) Strings() []string { return c.strings.values }

// StringLists returns the string lists in interning order.
func (c *Canon) StringLists() [][]string { return c.lists.values }

// Floats returns the floats in interning order.
func (c *Canon) Floats() []float32 { return c.floats.values }

// internPaint interns every float the binary encoding of p references.
// The driver calls it for both passes; in the frozen pass the interns are
// lookups that verify the dry run saw the same values.
func (c *Canon) internPaint(p *Paint) {
	p.eachFloat(func(v float32) { c.InternFloat(v) })
}
