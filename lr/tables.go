package lr

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/gconf"
	"golang.org/x/tools/container/intsets"
)

// https://www.cs.bgu.ac.il/~comp151/wiki.files/ps6.html#sec-2-7-3

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     int     // serial ID of this state, in order of discovery
	items  itemSet // LR(1) items within this state
	Accept bool    // does this state hold [S' → S •, #eof]?
	fp     uint64  // fingerprint of the item set
	out    []*cfsmEdge
}

// CFSM edge between 2 states, directed and labeled with a symbol.
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// Items returns the items of a state, in canonical order.
func (s *CFSMState) Items() []Item {
	return s.items.items()
}

// Dump is a debugging helper
func (s *CFSMState) Dump(g *Grammar) {
	tracer().Debugf("--- state %03d -----------", s.ID)
	for _, i := range s.items.items() {
		tracer().Debugf("    %s", i.Format(g))
	}
	tracer().Debugf("-------------------------")
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, i := range s.items.items() {
		if i.rule.Serial == 0 && i.IsComplete() {
			return true
		}
	}
	return false
}

// nextSymbols returns all symbols occuring after a dot, in ID order.
func (s *CFSMState) nextSymbols(g *Grammar) []*Symbol {
	var ids intsets.Sparse
	it := s.items.Iterator()
	for it.Next() {
		if A := asItem(it.Value()).PeekSymbol(); A != nil {
			ids.Insert(A.ID)
		}
	}
	syms := make([]*Symbol, 0, ids.Len())
	for _, id := range ids.AppendTo(nil) {
		syms = append(syms, g.Symbol(id))
	}
	return syms
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(1) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes.
type CFSM struct {
	g      *Grammar                // this CFSM is for Grammar g
	states *arraylist.List         // all the states, indexed by ID
	edges  *arraylist.List         // all the edges between states
	index  map[uint64][]*CFSMState // states by item set fingerprint
	S0     *CFSMState              // start state
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	return &CFSM{
		g:      g,
		states: arraylist.New(),
		edges:  arraylist.New(),
		index:  make(map[uint64][]*CFSMState),
	}
}

// StateCount returns the number of states.
func (c *CFSM) StateCount() int {
	return c.states.Size()
}

// State returns the state with ID id, or nil.
func (c *CFSM) State(id int) *CFSMState {
	x, ok := c.states.Get(id)
	if !ok {
		return nil
	}
	return x.(*CFSMState)
}

// Successor returns the state reached from s by symbol A, or nil.
func (c *CFSM) Successor(s *CFSMState, A *Symbol) *CFSMState {
	for _, e := range s.out {
		if e.label == A {
			return e.to
		}
	}
	return nil
}

// addState adds a state for an item set, if no state with an equal item set
// exists. It returns the state and true if it is new.
func (c *CFSM) addState(iset itemSet) (*CFSMState, bool) {
	fp := iset.fingerprint()
	if s := c.findStateByItems(iset, fp); s != nil {
		return s, false
	}
	s := &CFSMState{ID: c.states.Size(), items: iset, fp: fp}
	s.Accept = s.containsCompletedStartRule()
	c.states.Add(s)
	c.index[fp] = append(c.index[fp], s)
	return s, true
}

// Find a CFSM state by the contained item set. Candidates are found by
// fingerprint and then compared item by item.
func (c *CFSM) findStateByItems(iset itemSet, fp uint64) *CFSMState {
	for _, s := range c.index[fp] {
		if s.items.Equals(iset) {
			return s
		}
	}
	return nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) *cfsmEdge {
	e := &cfsmEdge{from: s0, to: s1, label: sym}
	c.edges.Add(e)
	s0.out = append(s0.out, e)
	return e
}

// --- Table Generator -------------------------------------------------------

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and the parser table for a canonical LR(1) parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	table        *Table
	overrides    map[overrideKey]Override
	overrideList []Override
	resolutions  []Resolution
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis, opts ...Option) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	for _, opt := range opts {
		opt(lrgen)
	}
	return lrgen
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// Table returns the parser table. The table has to be built by calling
// CreateTables() previously. If table construction failed, Table returns nil.
func (lrgen *TableGenerator) Table() *Table {
	if lrgen.table == nil {
		tracer().P("lr", "gen").Errorf("table not yet initialized")
	}
	return lrgen.table
}

// CreateTables creates the CFSM and the parser table. A conflict which is not
// resolved by an override results in a *ConflictError, and no table.
func (lrgen *TableGenerator) CreateTables() error {
	lrgen.table = nil
	lrgen.resolutions = nil
	lrgen.CFSM()
	T, err := lrgen.buildTable()
	if err != nil {
		tracer().Errorf("%v", err)
		return err
	}
	lrgen.table = T
	tracer().Infof("parser table for %s: %d states, %d entries",
		lrgen.g.Name, T.StateCount(), T.EntryCount())
	return nil
}

// AcceptingStates returns the IDs of all states of the CFSM containing
// the completed start rule.
func (lrgen *TableGenerator) AcceptingStates() []int {
	acc := treeset.NewWith(utils.IntComparator)
	it := lrgen.CFSM().states.Iterator()
	for it.Next() {
		if s := it.Value().(*CFSMState); s.Accept {
			acc.Add(s.ID)
		}
	}
	ids := make([]int, 0, acc.Size())
	for _, x := range acc.Values() {
		ids = append(ids, x.(int))
	}
	return ids
}

// Construct the characteristic finite state machine CFSM for a grammar.
// States are discovered breadth first; the start state has ID 0.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	cfsm.S0, _ = cfsm.addState(lrgen.ga.closure(StartItem(G)))
	for k := 0; k < cfsm.states.Size(); k++ {
		s := cfsm.State(k)
		for _, A := range s.nextSymbols(G) {
			gotoset := lrgen.ga.gotoSetClosure(s.items, A)
			snew, isnew := cfsm.addState(gotoset)
			if isnew {
				tracer().Debugf("new state %d from state %d on %s", snew.ID, s.ID, A)
			}
			cfsm.addEdge(s, snew, A)
		}
	}
	tracer().Infof("CFSM for %s has %d states", G.Name, cfsm.states.Size())
	if gconf.GetBool("lr-dump-states") {
		it := cfsm.states.Iterator()
		for it.Next() {
			it.Value().(*CFSMState).Dump(G)
		}
	}
	return cfsm
}

// ===========================================================================

// For building the table we iterate over all the states of the CFSM.
// Edges labeled with a terminal produce shift entries, edges labeled with a
// non-terminal produce goto entries. Every completed item [A → α •, a]
// produces a reduce entry for lookahead a, except for the completed start
// rule, which produces accept on #eof.
func (lrgen *TableGenerator) buildTable() (*Table, error) {
	dfa := lrgen.dfa
	T := newTable(lrgen.g, dfa.states.Size())
	states := dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, e := range state.out {
			a := Action{Kind: Goto, Target: e.to.ID}
			if e.label.IsTerminal() {
				a.Kind = Shift
			}
			if err := lrgen.enter(T, state, e.label, a); err != nil {
				return nil, err
			}
		}
		for _, i := range state.items.items() {
			if !i.IsComplete() {
				continue
			}
			la := lrgen.g.Symbol(i.la)
			a := Action{Kind: Reduce, Target: i.rule.Serial}
			if i.rule.Serial == 0 {
				a = Action{Kind: Accept}
			}
			if err := lrgen.enter(T, state, la, a); err != nil {
				return nil, err
			}
		}
	}
	return T, nil
}

// enter puts an action into the table, checking for conflicts.
func (lrgen *TableGenerator) enter(T *Table, state *CFSMState, A *Symbol, a Action) error {
	existing := T.Action(state.ID, A)
	if existing.IsNone() {
		tracer().Debugf("    action(%d, %s) = %v", state.ID, A, a)
		T.set(state.ID, A, a)
		return nil
	}
	if existing == a {
		return nil
	}
	if winner, ok := lrgen.resolve(state.ID, A, existing, a); ok {
		T.set(state.ID, A, winner)
		return nil
	}
	return &ConflictError{
		State:    state.ID,
		Symbol:   A,
		Existing: existing,
		Incoming: a,
		Items: []string{
			lrgen.responsibleItem(state, A, existing),
			lrgen.responsibleItem(state, A, a),
		},
	}
}

// responsibleItem finds the item of a state which produced action a on A.
func (lrgen *TableGenerator) responsibleItem(state *CFSMState, A *Symbol, a Action) string {
	for _, i := range state.items.items() {
		switch a.Kind {
		case Shift, Goto:
			if i.PeekSymbol() == A {
				return i.Format(lrgen.g)
			}
		case Reduce:
			if i.IsComplete() && i.rule.Serial == a.Target && i.la == A.ID {
				return i.Format(lrgen.g)
			}
		case Accept:
			if i.IsComplete() && i.rule.Serial == 0 {
				return i.Format(lrgen.g)
			}
		}
	}
	return a.String()
}
