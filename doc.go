/*
Package earlybird is a generic Earley recognizer toolbox.

earlybird recognizes context-free languages with Earley's algorithm and
reconstructs a concrete derivation from the recognizer's state sets. It is
parameterized over the application's grammar-symbol type and input-token
type. Package structure is as follows:

■ grammar: Package grammar holds the immutable rule table together with its
index (rules grouped by left-hand side, nullability of nonterminals).

■ earley: Package earley implements the recognizer — prediction, scanning
and completion over a list of state sets — and the right-to-left walk which
extracts a derivation from a completed parse.

■ spanlist: Package spanlist implements the segmented, append-only container
holding every Earley item of a parse, one segment per input position.

■ varray: Package varray implements a stable-address append-only array over
a reserved virtual-memory range, the backing store for spanlist.

■ scanner: Package scanner defines a tokenizer interface and two adapters,
one over text/scanner and one over lexmachine.

The base package contains the data types and collaborator contracts which
are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package earlybird
