package protos

import (
	"errors"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrNoLanguage is returned when a registry is built without a grammar.
var ErrNoLanguage = errors.New("no tree-sitter language")

// Role is a semantic part of a function definition captured by the query.
type Role int

const (
	RoleDefinition   Role = iota // whole function_definition node
	RoleBody                     // compound statement after the declarator
	RoleStorageClass             // leading storage_class_specifier, if any
	RoleName                     // identifier inside the function declarator
)

// roles lists every Role in declaration order.
var roles = [...]Role{RoleDefinition, RoleBody, RoleStorageClass, RoleName}

// Roles returns all known roles.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles[:])
	return out
}

// CaptureName returns the query capture name that produces the role.
func (r Role) CaptureName() string {
	switch r {
	case RoleDefinition:
		return "definition"
	case RoleBody:
		return "body"
	case RoleStorageClass:
		return "storage_class"
	case RoleName:
		return "name"
	default:
		return ""
	}
}

func (r Role) String() string {
	if name := r.CaptureName(); name != "" {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Registry holds the compiled function definition query and the mapping
// between roles and the capture indexes tree-sitter assigned to them.
type Registry struct {
	query   *sitter.Query
	names   []string
	indexes map[Role]uint
	byIndex map[uint]Role
}

// NewRegistry compiles the function definition patterns against language.
func NewRegistry(language *sitter.Language) (*Registry, error) {
	return compileRegistry(language, functionDefinitionQuery)
}

func compileRegistry(language *sitter.Language, source string) (*Registry, error) {
	if language == nil {
		return nil, ErrNoLanguage
	}

	query, qerr := sitter.NewQuery(language, source)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile function definition query: %w", qerr)
	}

	reg := &Registry{
		query:   query,
		names:   query.CaptureNames(),
		indexes: make(map[Role]uint, len(roles)),
		byIndex: make(map[uint]Role, len(roles)),
	}
	for _, role := range roles {
		index, ok := query.CaptureIndexForName(role.CaptureName())
		if !ok {
			continue
		}
		reg.indexes[role] = index
		reg.byIndex[index] = role
	}

	return reg, nil
}

// Index returns the capture index bound to role. ok is false when the
// compiled query never mentions the role.
func (r *Registry) Index(role Role) (index uint, ok bool) {
	index, ok = r.indexes[role]
	return index, ok
}

// RoleFor is the reverse of Index.
func (r *Registry) RoleFor(index uint) (Role, bool) {
	role, ok := r.byIndex[index]
	return role, ok
}

// CaptureName returns the name of the capture at index, or "" if the index
// is out of range.
func (r *Registry) CaptureName(index uint) string {
	if index >= uint(len(r.names)) {
		return ""
	}
	return r.names[index]
}

// Query exposes the compiled query for cursors.
func (r *Registry) Query() *sitter.Query {
	return r.query
}

// Close releases the compiled query.
func (r *Registry) Close() {
	if r.query != nil {
		r.query.Close()
		r.query = nil
	}
}
