// Package xlformula parses and evaluates spreadsheet formulas.
//
// A string beginning with "=" is a formula, e.g. "=SUM({1,2,3}, A) * 2". Any
// other string is a constant: a number if the whole string is numeric, and
// text otherwise. Parse never fails; a malformed formula evaluates to the
// #PARSE! error value, and Formula.Err reports why.
//
// Names in a formula are looked up through a Resolver supplied at evaluation
// time. A name may resolve to text which is itself a formula, in which case it
// is parsed and evaluated in turn with the same Resolver.
//
// Evaluation never returns a Go error. Failures are values of kind KindError,
// rendered as the usual sentinel codes like "#DIV/0!".
package xlformula
