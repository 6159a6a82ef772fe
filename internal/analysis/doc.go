// Package analysis derives qualitative and quantitative properties of a
// single-variable real function: domain, intercepts, symmetry, asymptotes,
// critical and inflection points, monotonicity, and concavity.
//
// The entry point is NewFunction followed by Analyzer.Analyze, which
// produces an immutable AnalysisResult snapshot. Each sub-analysis is
// isolated: a failure degrades its own section to an error marker and
// never aborts the others. Only a parse failure is fatal.
//
// The engine is synchronous and single-threaded. Concurrent Bind and
// Analyze calls on the same Function must be serialized by the caller.
package analysis
