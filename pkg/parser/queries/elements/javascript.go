package elements

// Query patterns for the JavaScript grammar. The shapes differ from
// TypeScript in two places: class names are plain identifiers and class
// fields are field_definition nodes. Interfaces and type aliases do not
// exist in JavaScript, so no patterns are defined for those kinds.

// JSFunctionQueries matches named function declarations plus the
// arrow-function-assigned-to-const form.
const JSFunctionQueries = `
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

// JSClassQueries matches class declarations.
const JSClassQueries = `
(class_declaration
  name: (identifier) @class.name
) @class.definition
`

// JSMethodQueries matches method definitions inside class bodies.
const JSMethodQueries = `
(method_definition
  name: (property_identifier) @method.name
) @method.definition
`

// JSFieldQueries matches class field declarations.
const JSFieldQueries = `
(field_definition
  property: (property_identifier) @field.name
) @field.definition
`

// JSImportQueries matches whole import statements.
const JSImportQueries = `
(import_statement) @import.definition
`
