package lr

import (
	"golang.org/x/tools/container/intsets"
)

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.3 LR(1) Parsing

// closure computes the LR(1) closure of a set of kernel items. For each
// item [A → α • B β, a] in the set and each rule B → γ, items [B → • γ, b] are
// added for every terminal b in FIRST(β a), until nothing changes.
func (ga *LRAnalysis) closure(kernel ...Item) itemSet {
	C := newItemSet(kernel...)
	work := append([]Item(nil), kernel...)
	var la intsets.Sparse
	var las []int
	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]
		B := item.PeekSymbol()
		if B == nil || B.IsTerminal() {
			continue
		}
		la.Clear()
		ga.firstWithLookahead(item.tail(), item.la, &la)
		las = la.AppendTo(las[:0])
		for _, r := range ga.g.RulesFor(B) {
			for _, b := range las {
				i := Item{rule: r, dot: 0, la: b}
				if !C.Contains(i) {
					C.Add(i)
					work = append(work, i)
				}
			}
		}
	}
	return C
}

// gotoSet computes goto(S, A): all items of S with A after the dot, advanced
// over A. The result is not closed.
func (ga *LRAnalysis) gotoSet(S itemSet, A *Symbol) []Item {
	var kernel []Item
	it := S.Iterator()
	for it.Next() {
		i := asItem(it.Value())
		if i.PeekSymbol() == A {
			kernel = append(kernel, i.Advance())
		}
	}
	return kernel
}

// gotoSetClosure computes the closure of goto(S, A). It returns an empty set
// if no item of S has A after the dot.
func (ga *LRAnalysis) gotoSetClosure(S itemSet, A *Symbol) itemSet {
	kernel := ga.gotoSet(S, A)
	if len(kernel) == 0 {
		return newItemSet()
	}
	C := ga.closure(kernel...)
	if debugging() {
		tracer().Debugf("goto(%s) --%s--> %s", S.format(ga.g), A, C.format(ga.g))
	}
	return C
}

// Closure returns the items of the closure of a single item, in canonical order.
func (ga *LRAnalysis) Closure(i Item) []Item {
	return ga.closure(i).items()
}

// Goto returns the closure of goto(items, A), in canonical order.
func (ga *LRAnalysis) Goto(items []Item, A *Symbol) []Item {
	return ga.gotoSetClosure(newItemSet(items...), A).items()
}
