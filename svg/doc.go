// Package svg turns SVG documents into flattened polygonal paths.
//
// Curves and arcs are flattened at parse time and every coordinate is baked
// into absolute document space, so the resulting Document carries plain
// point lists with no live transforms. Input that cannot be understood
// (unknown units, colors, transform functions or elements) is logged as a
// warning and replaced by a safe default; parsing itself never fails on
// malformed attributes.
package svg
