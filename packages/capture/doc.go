// Package capture extracts values from HTTP responses for use in subsequent
// requests.
//
// A RuleSet maps variable names to compiled JSONPath expressions. On every
// response the Extractor parses the body once, evaluates each rule
// independently and returns an immutable Snapshot holding one Outcome per
// rule: Found with the matched value, NotFound, or Failed.
//
// Failures never escape. A rule that does not compile is dropped from the set,
// a body that is not valid JSON yields a skipped snapshot, and a rule that
// cannot be evaluated fails on its own without affecting the others. All of
// them are logged.
//
// Provider wraps an Extractor for a polling pipeline: it keeps the latest
// usable snapshot and answers lookups through the env.Resolver chain.
package capture
