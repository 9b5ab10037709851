// Package contact implements the contact graph: the symmetric relation
// between identities that gates every relay operation.
//
// The graph is the single source of truth for who may message whom. Edges
// are created only by a completed handshake and removed only by an explicit
// delete. Removal is one-sided on purpose: deleting a contact removes them
// from the deleter's adjacency while the deleter stays visible on the other
// side ("remove from my list, they still see me").
package contact
