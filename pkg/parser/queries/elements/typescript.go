package elements

// Query patterns for TypeScript (and TSX - both grammar variants accept
// the same patterns since the node names below are shared).
//
// Each pattern captures:
//   - @<kind>.name - the element's name identifier
//   - @<kind>.definition - the entire declaration node (for line ranges)

// TSFunctionQueries matches named function declarations plus the
// arrow-function-assigned-to-const form.
//
// function myFunction() { ... }
// const myFunc = () => { ... }
const TSFunctionQueries = `
(function_declaration
  name: (identifier) @function.name
) @function.definition

(lexical_declaration
  (variable_declarator
    name: (identifier) @function.name
    value: (arrow_function))
) @function.definition

(lexical_declaration
  (variable_declarator
    name: (identifier) @function.name
    value: (function_expression))
) @function.definition
`

// TSClassQueries matches class declarations.
// Used for listings and scope walks; line-extent computation for classes
// is regex plus brace balancing, not this query.
const TSClassQueries = `
(class_declaration
  name: (type_identifier) @class.name
) @class.definition
`

// TSMethodQueries matches method definitions inside class bodies,
// including getters and setters.
const TSMethodQueries = `
(method_definition
  name: (property_identifier) @method.name
) @method.definition
`

// TSFieldQueries matches class field declarations.
//
// class Foo { x: number = 1; onClick = () => {...} }
const TSFieldQueries = `
(public_field_definition
  name: (property_identifier) @field.name
) @field.definition
`

// TSInterfaceQueries matches interface declarations.
const TSInterfaceQueries = `
(interface_declaration
  name: (type_identifier) @interface.name
) @interface.definition
`

// TSTypeAliasQueries matches type alias declarations.
//
// type MyType = string | number;
const TSTypeAliasQueries = `
(type_alias_declaration
  name: (type_identifier) @type.name
) @type.definition
`

// TSImportQueries matches whole import statements.
const TSImportQueries = `
(import_statement) @import.definition
`
