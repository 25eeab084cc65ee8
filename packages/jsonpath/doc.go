// Package jsonpath compiles and evaluates JSONPath expressions against JSON
// documents parsed with gjson.
//
// Expressions are compiled once and can be evaluated any number of times.
// Evaluation always yields a list of matched nodes in document order; a path
// that does not exist in a given document yields an empty list rather than an
// error. Errors from Read are reserved for expressions that cannot be applied
// to the document, such as an aggregate function over non-numeric values.
//
// Supported syntax:
//   - Root and children: $, $.name, $['name'], $["name"], $['a','b']
//   - Arrays: [0], [-1], [0,2], [1:3], [::2], [*]
//   - Wildcards and deep scan: .*, ..name, ..*, ..[0]
//   - Filters: [?(@.price < 10 && @.tags)], [?(@.name =~ /^a/i)], [?(!@.hidden)]
//   - Trailing functions: length(), size(), min(), max(), sum(), avg(),
//     keys(), first(), last()
//
// Expressions without a leading $ are treated as relative to the root, so
// "greeting.name" is equivalent to "$.greeting.name".
package jsonpath
