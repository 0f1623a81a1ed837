// Package nodelink renders fixture graphs as node-link diagrams.
//
// # Overview
//
// Fixtures appear as rounded boxes with an arrow from each fixture to every
// fixture it depends on, so dependencies sit below their dependents.
//
// # Usage
//
// Convert a manifest to DOT format, then render to SVG:
//
//	dot, err := nodelink.ToDOT(m, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include the load position and the target.
//     Requires an acyclic manifest.
//
// Without Detailed, cyclic manifests still render, which is useful for
// spotting the loop reported by a failed check.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
