package protos

import "strings"

// internalLinkage is the storage class keyword that hides a function from
// other translation units.
const internalLinkage = "static"

// Exported reports whether the record describes a function with external
// linkage. Incomplete records are never exported.
//
// The check is a substring test on the specifier text, not a token compare.
func (r Record) Exported(src *Source) bool {
	if !r.Complete() {
		return false
	}
	if r.StorageClass != nil && strings.Contains(src.Text(r.StorageClass), internalLinkage) {
		return false
	}
	return true
}
