// Package themis is the scale on which queue access is weighed: permission
// sets built from path and criteria selectors, resolved against a directory
// into concrete queue identities, and combined with a small set algebra.
//
// A permission set starts Unresolved. Resolve walks its selectors, asks the
// directory for the queues they name, and caches the result as a mapping
// from casefolded format name to access mask. The algebra (Union, Intersect,
// IsSubsetOf) is defined over that resolved mapping and the reserved
// wildcard key "*"; it never consults the directory itself.
package themis

// Permission is the algebra surface. Implementations combine with
// operands of their own concrete type only; anything else fails with
// *InvalidOperandError.
//
// A nil operand means "no permission to combine with": Union returns a
// copy of the receiver, Intersect returns the absorbing nil result, and
// IsSubsetOf is true only for an empty, restricted receiver.
type Permission interface {
	Copy() Permission
	Union(other Permission) (Permission, error)
	Intersect(other Permission) (Permission, error)
	IsSubsetOf(other Permission) (bool, error)
}
