// Package mapping defines the YAML mapping file format and loads it.
//
// A mapping file declares streams. Each stream names a physical format and a tree of
// groups, records, segments and fields:
//
//	streams:
//	  - name: orders
//	    format: csv
//	    children:
//	      - record:
//	          name: header
//	          children:
//	            - field: {name: type, rid: true, literal: H}
//	            - field: {name: date, type: date, format: "2006-01-02"}
//
// Files may import other files and declare templates that components pull in with
// "include". LoadFile resolves imports, Expand replaces includes with template
// children, and Validate reports structural problems as diagnostics. Layout and
// binding rules that depend on the physical format are checked by the compiler.
package mapping
