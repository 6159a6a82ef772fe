// Package symbolic implements the expression kernel behind the function
// analysis engine: parsing, deterministic rule-based simplification,
// substitution, differentiation, numeric evaluation, limits, and
// polynomial utilities.
//
// Expressions are immutable trees built from a small set of node kinds
// (rational numbers, named constants, symbols, sums, products, powers,
// and elementary function calls). Arithmetic on literal values is exact
// (math/big.Rat); numeric evaluation degrades to float64.
package symbolic
