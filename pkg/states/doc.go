// Package states provides the constructs that make up an Amazon States
// Language definition
//
// A Definition is the scope that owns states. Each state is constructed
// inside a scope under a unique ID, transitions are wired with SetNext or
// Definition.Chain, and Render produces the state machine document
package states
