// Package analysis exposes the function analysis engine as a registry
// service provider.
//
// Tools:
//   - analysis.analyze: full AnalysisResult document
//   - analysis.summary: condensed headline facts
//   - analysis.derivative: symbolic derivative of a given order
//   - analysis.evaluate: numeric evaluation at a point
//
// Every tool accepts an expression in the single variable x plus optional
// free-parameter bindings. Results use the shared Result envelope.
package analysis
