// Package tasks provides Task states that integrate with AWS services
//
// LambdaInvoke renders the optimized Lambda integration. ExtendedInvoke
// wraps it to also render a ResultSelector, which the base task has no
// option for
package tasks
