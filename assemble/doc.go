// Package assemble turns a unified answer into the ordered content sequence
// handed to a renderer.
//
// Answer text may reference out-of-band multimedia items with inline
// placeholder tokens of the form [TYPE:ID]. Assemble splits the text at every
// token and splices in the item the token's ID resolves to. Tokens whose ID is
// not present in the multimedia map are kept as literal text so no
// information is dropped.
//
// Assemble is a pure function. Calling it twice with the same answer yields
// identical sequences, so renderers may re-invoke it freely.
package assemble
