package lr

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Item is an LR(1) item: a rule, a position within its RHS, and a
// lookahead terminal (by ID).
//
//     [A → α • β, a]
//
type Item struct {
	rule *Rule
	dot  int
	la   int
}

// StartItem returns the initial item [S' → • S, #eof] of a grammar.
func StartItem(g *Grammar) Item {
	return Item{rule: g.rules[0], dot: 0, la: g.eof.ID}
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the position of the dot within the rule's RHS.
func (i Item) Dot() int {
	return i.dot
}

// Lookahead returns the ID of the lookahead terminal.
func (i Item) Lookahead() int {
	return i.la
}

// PeekSymbol returns the symbol after the dot, or nil if the item is complete.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// IsComplete is true if the dot is behind the complete RHS.
func (i Item) IsComplete() bool {
	return i.dot >= len(i.rule.rhs)
}

// Advance returns a new item with the dot moved one position to the right.
// Advancing a complete item returns an item equal to i.
func (i Item) Advance() Item {
	if i.IsComplete() {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1, la: i.la}
}

// Prefix returns the symbols in front of the dot.
func (i Item) Prefix() []*Symbol {
	return i.rule.rhs[:i.dot]
}

// tail returns the symbols behind the symbol after the dot, i.e. β in [A → α • X β].
func (i Item) tail() []*Symbol {
	if i.dot+1 >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot+1:]
}

// String formats an item; the lookahead is printed by ID, see Format.
func (i Item) String() string {
	return i.format(fmt.Sprintf("#%d", i.la))
}

// Format returns a human readable representation with the lookahead's name.
func (i Item) Format(g *Grammar) string {
	return i.format(g.Symbol(i.la).Name)
}

func (i Item) format(la string) string {
	var b bytes.Buffer
	b.WriteString("[")
	b.WriteString(i.rule.LHS.Name)
	b.WriteString(" ::=")
	for k, A := range i.rule.rhs {
		if k == i.dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(A.Name)
	}
	if i.IsComplete() {
		b.WriteString(" •")
	}
	b.WriteString(", ")
	b.WriteString(la)
	b.WriteString("]")
	return b.String()
}

// itemComparator orders items by (rule, dot, lookahead).
func itemComparator(i1, i2 interface{}) int {
	a, b := i1.(Item), i2.(Item)
	if c := utils.IntComparator(a.rule.Serial, b.rule.Serial); c != 0 {
		return c
	}
	if c := utils.IntComparator(a.dot, b.dot); c != 0 {
		return c
	}
	return utils.IntComparator(a.la, b.la)
}

func asItem(x interface{}) Item {
	return x.(Item)
}

// --- Item sets -------------------------------------------------------------

// itemSet is an ordered set of LR(1) items.
type itemSet struct {
	*treeset.Set
}

func newItemSet(items ...Item) itemSet {
	S := itemSet{treeset.NewWith(itemComparator)}
	for _, i := range items {
		S.Add(i)
	}
	return S
}

// items returns all items in canonical order.
func (S itemSet) items() []Item {
	vals := S.Values()
	r := make([]Item, len(vals))
	for k, v := range vals {
		r[k] = asItem(v)
	}
	return r
}

// Equals compares two item sets by content.
func (S itemSet) Equals(other itemSet) bool {
	if S.Size() != other.Size() {
		return false
	}
	it1, it2 := S.Iterator(), other.Iterator()
	for it1.Next() && it2.Next() {
		if itemComparator(it1.Value(), it2.Value()) != 0 {
			return false
		}
	}
	return true
}

// fingerprint hashes the canonical item sequence. Equal sets have equal
// fingerprints; the reverse has to be checked with Equals.
func (S itemSet) fingerprint() uint64 {
	d := xxhash.New()
	var buf [12]byte
	it := S.Iterator()
	for it.Next() {
		i := asItem(it.Value())
		binary.LittleEndian.PutUint32(buf[0:], uint32(i.rule.Serial))
		binary.LittleEndian.PutUint32(buf[4:], uint32(i.dot))
		binary.LittleEndian.PutUint32(buf[8:], uint32(i.la))
		d.Write(buf[:])
	}
	return d.Sum64()
}

func (S itemSet) format(g *Grammar) string {
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	it := S.Iterator()
	for it.Next() {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(asItem(it.Value()).Format(g))
	}
	b.WriteString(" }")
	return b.String()
}
