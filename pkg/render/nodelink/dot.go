package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/fixturegraph/pkg/fixture"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the load position and the target in node labels.
	// When false, only the fixture name is shown.
	Detailed bool
}

// ToDOT converts a manifest to Graphviz DOT format. The resulting DOT string
// can be rendered using [RenderSVG].
//
// Fixtures whose target differs from their name are drawn with a grey fill.
func ToDOT(m *fixture.Manifest, opts Options) (string, error) {
	g, err := m.Graph()
	if err != nil {
		return "", err
	}

	var position map[string]int
	if opts.Detailed {
		order, err := m.Order(context.Background())
		if err != nil {
			return "", err
		}
		position = make(map[string]int, len(order))
		for i, f := range order {
			position[f.Name] = i + 1
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, name := range g.Nodes() {
		f, _ := m.Lookup(name)
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(fmtAttrs(f, position[name]), ", "))
	}

	buf.WriteString("\n")
	for _, name := range g.Nodes() {
		for _, dep := range g.Dependencies(name) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", name, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(f *fixture.Fixture, position int) string {
	if position == 0 {
		return f.Name
	}
	return fmt.Sprintf("%s\n#%d → %s", f.Name, position, f.TargetName())
}

func fmtAttrs(f *fixture.Fixture, position int) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(f, position))}
	if f.Description != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", f.Description))
	}
	if f.Target != "" && f.Target != f.Name {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> tag with one whose viewBox
// starts at the origin, so the diagram scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
