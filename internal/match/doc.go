// Package match resolves loosely spelled names: property names against struct fields,
// and unknown references in mapping files against the names that do exist.
package match
