// Package compiler turns a validated mapping stream into the immutable node tree of
// package parser.
//
// Compilation resolves everything the runtime should not have to decide per record:
// node IDs, group orders, field positions and widths, static offsets of identifying
// fields, record length bounds, bound classes, type handlers, defaults and dynamic
// occurrence references. Problems are collected as diagnostics so one run reports every
// mistake in a mapping; a stream with errors is never returned.
//
// The physical format contributes a Strategy: how wide a field is and how a raw record
// is addressed. Delimited and csv streams count tokens, fixed-length streams count
// characters.
package compiler
