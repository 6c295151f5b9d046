// Package api defines the core data types for Amazon States Language
// definitions
//
// This package contains the shared types used by the state and task
// constructs: rendered state objects, result selectors, JSONPath markers,
// retry and catch policies, and the rules for rendering payload templates
package api
