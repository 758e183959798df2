package protos

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Record is one query match folded into its roles. Each field is nil when
// the match carried no capture for that role.
type Record struct {
	Definition   *sitter.Node
	Body         *sitter.Node
	StorageClass *sitter.Node
	Name         *sitter.Node
}

// Complete reports whether the record has both a definition and a body,
// the minimum needed to reconstruct a signature.
func (r Record) Complete() bool {
	return r.Definition != nil && r.Body != nil
}

// Node returns the node bound to role, or nil.
func (r Record) Node(role Role) *sitter.Node {
	switch role {
	case RoleDefinition:
		return r.Definition
	case RoleBody:
		return r.Body
	case RoleStorageClass:
		return r.StorageClass
	case RoleName:
		return r.Name
	default:
		return nil
	}
}

func (r *Record) set(role Role, node *sitter.Node) {
	switch role {
	case RoleDefinition:
		r.Definition = node
	case RoleBody:
		r.Body = node
	case RoleStorageClass:
		r.StorageClass = node
	case RoleName:
		r.Name = node
	}
}

// UnclassifiedFunc receives captures whose index maps to no Role.
type UnclassifiedFunc func(captureName string, node sitter.Node)

// Resolve folds the captures of a single match into a Record. A later
// capture for the same role replaces an earlier one. Captures that map to
// no role are handed to unclassified, which may be nil.
func (r *Registry) Resolve(captures []sitter.QueryCapture, unclassified UnclassifiedFunc) Record {
	var rec Record
	for _, capture := range captures {
		node := capture.Node
		role, ok := r.RoleFor(uint(capture.Index))
		if !ok {
			if unclassified != nil {
				unclassified(r.CaptureName(uint(capture.Index)), node)
			}
			continue
		}
		rec.set(role, &node)
	}
	return rec
}
