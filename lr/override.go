package lr

import "fmt"

// Override is an explicit conflict resolution. If, in any state, a reduction
// by Rule on lookahead Symbol competes with a shift of Symbol, the action of
// kind Prefer wins. The classic use is the dangling else:
//
//     S → if E then S  |  if E then S else S
//
// where PreferShift(rule "S → if E then S", "else") binds an else to the
// innermost if.
//
// Overrides never resolve reduce/reduce conflicts.
type Override struct {
	Rule   *Rule
	Symbol *Symbol
	Prefer ActionKind // Shift or Reduce
}

// Pattern returns the item pattern of an override, i.e. the completed
// item of its rule with the override's lookahead.
func (o Override) Pattern() string {
	return Item{rule: o.Rule, dot: o.Rule.Len()}.format(o.Symbol.Name)
}

func (o Override) String() string {
	return fmt.Sprintf("%s ⇒ prefer %s", o.Pattern(), o.Prefer)
}

// Resolution records a conflict which has been decided by an override.
type Resolution struct {
	State     int
	Symbol    *Symbol
	Chosen    Action
	Discarded Action
	Override  Override
}

func (r Resolution) String() string {
	return fmt.Sprintf("state %d on %s: chose %v over %v", r.State, r.Symbol, r.Chosen, r.Discarded)
}

// Option configures a TableGenerator.
type Option func(*TableGenerator)

// PreferShift registers an override: when a reduction by rule on lookahead
// terminal la conflicts with a shift of la, shift.
func PreferShift(rule *Rule, la *Symbol) Option {
	return func(lrgen *TableGenerator) {
		lrgen.addOverride(Override{Rule: rule, Symbol: la, Prefer: Shift})
	}
}

// PreferReduce registers an override: when a reduction by rule on lookahead
// terminal la conflicts with a shift of la, reduce.
func PreferReduce(rule *Rule, la *Symbol) Option {
	return func(lrgen *TableGenerator) {
		lrgen.addOverride(Override{Rule: rule, Symbol: la, Prefer: Reduce})
	}
}

type overrideKey struct {
	rule int
	sym  int
}

func (lrgen *TableGenerator) addOverride(o Override) {
	if o.Rule == nil || o.Symbol == nil || !o.Symbol.IsTerminal() {
		tracer().Errorf("ignoring malformed override %v", o)
		return
	}
	if lrgen.overrides == nil {
		lrgen.overrides = make(map[overrideKey]Override)
	}
	lrgen.overrides[overrideKey{o.Rule.Serial, o.Symbol.ID}] = o
	lrgen.overrideList = append(lrgen.overrideList, o)
}

// Overrides returns the registered overrides, in order of registration.
func (lrgen *TableGenerator) Overrides() []Override {
	return append([]Override(nil), lrgen.overrideList...)
}

// Resolutions returns all conflicts which have been decided by an override
// during table construction.
func (lrgen *TableGenerator) Resolutions() []Resolution {
	return append([]Resolution(nil), lrgen.resolutions...)
}

// resolve decides a shift/reduce conflict using the override table. It
// returns the winning action and true, or false if no override applies.
func (lrgen *TableGenerator) resolve(state int, A *Symbol, existing, incoming Action) (Action, bool) {
	var shift, reduce Action
	switch {
	case existing.Kind == Shift && incoming.Kind == Reduce:
		shift, reduce = existing, incoming
	case existing.Kind == Reduce && incoming.Kind == Shift:
		shift, reduce = incoming, existing
	default:
		return Action{}, false
	}
	o, ok := lrgen.overrides[overrideKey{reduce.Target, A.ID}]
	if !ok {
		return Action{}, false
	}
	r := Resolution{State: state, Symbol: A, Override: o}
	if o.Prefer == Shift {
		r.Chosen, r.Discarded = shift, reduce
	} else {
		r.Chosen, r.Discarded = reduce, shift
	}
	tracer().Infof("resolved conflict by override: %v", r)
	lrgen.resolutions = append(lrgen.resolutions, r)
	return r.Chosen, true
}
