// Package types provides shared data structures for the backend.
//
// It defines the service registry contract (Service, Tool, Parameter),
// the standard execution envelope (Context, Result), and the HTTP
// request payloads, keeping every component on one wire format.
package types
