package earley

import (
	"bytes"
	"fmt"
)

func (p *Recognizer[S, T]) dumpState(pos int) {
	tracer().Debugf("--- state %04d ------------------------------------", pos)
	set := p.states.Segment(pos)
	for i := 0; i < set.Len(); i++ {
		tracer().Debugf("[%2d] %s", i+1, p.itemString(*set.At(i)))
	}
}

// itemString formats an item the usual way: LHS → prefix • suffix (origin).
func (p *Recognizer[S, T]) itemString(item Item) string {
	rule := p.g.Rule(int(item.Rule))
	var b bytes.Buffer
	fmt.Fprintf(&b, "%v →", rule.LHS)
	for i, sym := range rule.RHS {
		if i == int(item.Progress) {
			b.WriteString(" •")
		}
		fmt.Fprintf(&b, " %v", sym)
	}
	if int(item.Progress) == len(rule.RHS) {
		b.WriteString(" •")
	}
	fmt.Fprintf(&b, "  (%d)", item.Origin)
	return b.String()
}
