package lr

import (
	"golang.org/x/tools/container/intsets"
)

// LRAnalysis is an object for grammar analysis (compute FIRST and FOLLOW sets).
// Sets are kept as sparse sets of symbol IDs. Within FIRST-sets, an
// internal marker represents epsilon.
type LRAnalysis struct {
	g      *Grammar
	first  []*intsets.Sparse // indexed by symbol ID
	follow []*intsets.Sparse // indexed by symbol ID, terminals left empty
	rounds int
}

// Analysis creates an analyser for a grammar and computes FIRST and FOLLOW sets.
// The analyser is immutable afterwards and may be shared between goroutines.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{g: g}
	n := g.SymbolCount()
	ga.first = make([]*intsets.Sparse, n)
	ga.follow = make([]*intsets.Sparse, n)
	for id := 0; id < n; id++ {
		ga.first[id] = &intsets.Sparse{}
		ga.follow[id] = &intsets.Sparse{}
		if g.Symbol(id).IsTerminal() {
			ga.first[id].Insert(id)
		}
	}
	for ga.firstRound() {
		ga.rounds++
	}
	ga.follow[g.rules[0].LHS.ID].Insert(g.eof.ID)
	for ga.followRound() {
		ga.rounds++
	}
	tracer().Debugf("grammar analysis of %s stable after %d rounds", g.Name, ga.rounds)
	return ga
}

// Grammar returns the grammar this analyser operates on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// firstRound runs one round of the FIRST fixed point. It returns true
// if any set changed.
func (ga *LRAnalysis) firstRound() bool {
	changed := false
	var f intsets.Sparse
	for _, r := range ga.g.rules {
		f.Clear()
		ga.firstOfSeq(r.rhs, &f)
		if addAll(ga.first[r.LHS.ID], &f) {
			changed = true
		}
	}
	return changed
}

// followRound runs one round of the FOLLOW fixed point.
//
// For A → α B β: FOLLOW(B) ⊇ FIRST(β) \ {ε}, and if β ⇒* ε, FOLLOW(B) ⊇ FOLLOW(A).
func (ga *LRAnalysis) followRound() bool {
	changed := false
	var f intsets.Sparse
	for _, r := range ga.g.rules {
		for i, B := range r.rhs {
			if B.IsTerminal() {
				continue
			}
			f.Clear()
			ga.firstOfSeq(r.rhs[i+1:], &f)
			if f.Has(epsilonID) {
				f.Remove(epsilonID)
				f.UnionWith(ga.follow[r.LHS.ID])
			}
			if addAll(ga.follow[B.ID], &f) {
				changed = true
			}
		}
	}
	return changed
}

// addAll adds all elements of src to dst and reports whether dst grew.
// The result of UnionWith is not reliable for this.
func addAll(dst, src *intsets.Sparse) bool {
	n := dst.Len()
	dst.UnionWith(src)
	return dst.Len() != n
}

// firstOfSeq adds FIRST(seq) to set into, including epsilon if seq is nullable.
func (ga *LRAnalysis) firstOfSeq(seq []*Symbol, into *intsets.Sparse) {
	for _, A := range seq {
		f := ga.first[A.ID]
		into.UnionWith(f)
		if !f.Has(epsilonID) {
			into.Remove(epsilonID)
			return
		}
	}
	into.Insert(epsilonID)
}

// firstWithLookahead adds FIRST(seq la) to set into. The result never contains
// epsilon, as la is a terminal.
func (ga *LRAnalysis) firstWithLookahead(seq []*Symbol, la int, into *intsets.Sparse) {
	for _, A := range seq {
		f := ga.first[A.ID]
		into.UnionWith(f)
		if !f.Has(epsilonID) {
			into.Remove(epsilonID)
			return
		}
	}
	into.Remove(epsilonID)
	into.Insert(la)
}

// First returns the terminals of FIRST(A), in ID order. Use DerivesEpsilon to
// check for epsilon.
func (ga *LRAnalysis) First(A *Symbol) []*Symbol {
	return ga.symbols(ga.first[A.ID])
}

// Follow returns FOLLOW(A) for a non-terminal A, in ID order.
func (ga *LRAnalysis) Follow(A *Symbol) []*Symbol {
	return ga.symbols(ga.follow[A.ID])
}

// DerivesEpsilon returns true if A ⇒* ε.
func (ga *LRAnalysis) DerivesEpsilon(A *Symbol) bool {
	return ga.first[A.ID].Has(epsilonID)
}

// FirstOfSequence returns FIRST(seq), and true if seq is nullable.
func (ga *LRAnalysis) FirstOfSequence(seq []*Symbol) ([]*Symbol, bool) {
	var f intsets.Sparse
	ga.firstOfSeq(seq, &f)
	return ga.symbols(&f), f.Has(epsilonID)
}

// Stable re-runs one round of both fixed points on a copy of the sets and
// reports whether nothing changed. For testing the analysis.
func (ga *LRAnalysis) Stable() bool {
	probe := &LRAnalysis{g: ga.g}
	probe.first = copySets(ga.first)
	probe.follow = copySets(ga.follow)
	return !probe.firstRound() && !probe.followRound()
}

func copySets(sets []*intsets.Sparse) []*intsets.Sparse {
	dup := make([]*intsets.Sparse, len(sets))
	for i, s := range sets {
		dup[i] = &intsets.Sparse{}
		dup[i].Copy(s)
	}
	return dup
}

func (ga *LRAnalysis) symbols(set *intsets.Sparse) []*Symbol {
	ids := set.AppendTo(nil)
	syms := make([]*Symbol, 0, len(ids))
	for _, id := range ids {
		if id == epsilonID {
			continue
		}
		syms = append(syms, ga.g.Symbol(id))
	}
	return syms
}
