package earley

import "fmt"

// An Item is one Earley item: a rule, a dot position within the rule's
// right-hand side, and the index of the state set at which the match began.
// Items are compact 8-byte values; equality is field-wise.
type Item struct {
	Rule     uint16 // index into the grammar's rule table
	Progress uint16 // count of RHS symbols already matched (the dot)
	Origin   uint32 // state set where this match began
}

// advance returns a copy of the item with the dot moved right by one.
func (item Item) advance() Item {
	item.Progress++
	return item
}

func (item Item) String() string {
	return fmt.Sprintf("[rule=%d dot=%d, %d]", item.Rule, item.Progress, item.Origin)
}
