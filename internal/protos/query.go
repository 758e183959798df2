package protos

// functionDefinitionQuery matches C function definitions in two shapes: a
// plain function declarator, and one wrapped in a pointer declarator for
// functions returning pointers. The storage class specifier is optional and
// anchored to the first child so that "static" is only seen in leading
// position.
//
// @parameters has no Role; it only shows up in the debug trace.
const functionDefinitionQuery = `
(function_definition
  .
  (storage_class_specifier)? @storage_class
  declarator: (function_declarator
    declarator: (identifier) @name
    parameters: (parameter_list) @parameters)
  body: (compound_statement) @body) @definition

(function_definition
  .
  (storage_class_specifier)? @storage_class
  declarator: (pointer_declarator
    declarator: (function_declarator
      declarator: (identifier) @name
      parameters: (parameter_list) @parameters))
  body: (compound_statement) @body) @definition
`
