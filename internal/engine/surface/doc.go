// Package surface abstracts text-bearing editable regions behind a single
// splice/read contract.
//
// Two concrete kinds are provided: Flat, a linear value buffer with a
// selection range (inputs, textareas, line editors), and Tree, a structured
// tree of text-bearing leaf nodes addressed by cumulative character offset
// (rich editable regions). Both expose PlainText for reading and Splice for
// range replacement with cursor repositioning.
//
// A surface that has been detached from its owning document rejects all
// mutations with ErrDetached. Callers that captured a surface reference
// earlier (for example to undo an expansion) must be prepared for this.
package surface
