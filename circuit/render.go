package circuit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ──────────────────────────── Wire diagram ────────────────────────────

// column is one drawn slot: a gate plus the conditions guarding it.
type column struct {
	g     Gate
	conds []Cond
}

func (c *Circuit) columns() []column {
	var cols []column
	for _, seg := range c.Segments {
		for _, g := range seg.Gates {
			cols = append(cols, column{g: g, conds: seg.Conds})
		}
	}
	return cols
}

// span returns the lowest and highest wire the column touches.
func (col column) span() (minQ, maxQ int) {
	minQ, maxQ = col.g.Target, col.g.Target
	for _, ctrl := range col.g.Controls {
		minQ = min(minQ, ctrl)
		maxQ = max(maxQ, ctrl)
	}
	return minQ, maxQ
}

// railFrom returns the wire the column's rail connection drops from, or -1
// when the column never touches the classical rail.
func (col column) railFrom() int {
	if col.g.IsMeasurement() || len(col.conds) > 0 {
		_, maxQ := col.span()
		return maxQ
	}
	return -1
}

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

// targetGlyph returns the target mark for controlled gates that draw as a
// symbol on the wire rather than a box.
func targetGlyph(kind string) (string, bool) {
	switch kind {
	case "X":
		return "⊕", true
	case "Z":
		return "●", true
	}
	return "", false
}

// ──────────────────────────── Cell rendering ────────────────────────────

// boxCell draws a boxed gate name, swapping a box edge for the connector
// row when a vertical line continues past it.
func boxCell(name, above, below string, openAbove, openBelow bool) (top, mid, bot string) {
	margin := (cellW - gateBoxW) / 2
	rightMargin := cellW - margin - gateBoxW
	top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
	mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+padCenter(name, gateNameW)+"├") + strings.Repeat("─", rightMargin)
	bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	if openAbove {
		top = above
	}
	if openBelow {
		bot = below
	}
	return
}

// renderCell returns the three lines for one cell of the grid, each cellW
// visual characters wide.
func renderCell(col column, qubit int) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + railLinkStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	g := col.g
	minQ, maxQ := col.span()
	rail := col.railFrom()

	// Wires outside the span: plain, or carrying the rail link through.
	if qubit < minQ || qubit > maxQ {
		if rail >= 0 && qubit > rail {
			top = dblVertRow
			mid = strings.Repeat("─", dashL) + railLinkStyle.Render("╫") + strings.Repeat("─", dashR)
			bot = dblVertRow
			return
		}
		top, mid, bot = emptyRow, strings.Repeat("─", cellW), emptyRow
		return
	}

	vertTop := emptyRow
	if qubit > minQ {
		vertTop = vertRow
	}
	vertBot := emptyRow
	if qubit < maxQ {
		vertBot = vertRow
	}
	if qubit == rail {
		vertBot = dblVertRow
	}

	switch {
	case qubit == g.Target:
		if sym, ok := targetGlyph(g.Kind); ok && len(g.Controls) > 0 {
			top = vertTop
			mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
			bot = vertBot
			return
		}
		name := g.Kind
		if g.IsMeasurement() {
			name = "M"
		}
		top, mid, bot = boxCell(name, vertTop, vertBot, qubit > minQ, qubit < maxQ || qubit == rail)
		return

	case slices.Contains(g.Controls, qubit):
		top = vertTop
		mid = strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR)
		bot = vertBot
		return

	default:
		top = vertTop
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertBot
		return
	}
}

// ──────────────────────────── Diagram assembly ────────────────────────────

// Draw renders the circuit as a wire diagram, one column per gate. A
// doubled rail under the qubit wires carries measurement results and
// condition checks once the circuit writes classical bits.
func (c *Circuit) Draw() string {
	cols := c.columns()
	var sb strings.Builder

	header := strings.Repeat(" ", labelVisualW)
	for i := range cols {
		header += dimStyle.Render(padCenter(strconv.Itoa(i), cellW))
	}
	sb.WriteString(header + "\n")

	for qubit := range c.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)
		for _, col := range cols {
			top, mid, bot := renderCell(col, qubit)
			topLine += top
			midLine += mid
			botLine += bot
		}
		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	if c.NumBits > 0 {
		sb.WriteString(c.drawRail(cols))
	}
	return sb.String()
}

// drawRail draws the separator row and the classical rail itself.
func (c *Circuit) drawRail(cols []column) string {
	var sb strings.Builder
	halfW := cellW / 2

	sep := strings.Repeat(" ", labelVisualW)
	for _, col := range cols {
		if col.railFrom() >= 0 {
			sep += strings.Repeat(" ", halfW) + railLinkStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)
		} else {
			sep += strings.Repeat(" ", cellW)
		}
	}
	sb.WriteString(sep + "\n")

	label := fmt.Sprintf("c%d", c.NumBits)
	rail := railLabelStyle.Render(fmt.Sprintf("%-5s", label)) + railWireStyle.Render("══")
	for _, col := range cols {
		tag := railTag(col)
		if tag == "" {
			rail += railWireStyle.Render(strings.Repeat("═", cellW))
			continue
		}
		dashL := (cellW - 1) / 2
		dashR := max(cellW-dashL-1-len(tag), 0)
		rail += railWireStyle.Render(strings.Repeat("═", dashL)) +
			railLinkStyle.Render("╩"+tag) +
			railWireStyle.Render(strings.Repeat("═", dashR))
	}
	sb.WriteString(rail + "\n")
	return sb.String()
}

// railTag labels a column's rail connection: the bit a measurement writes,
// or the conditions a guarded column reads.
func railTag(col column) string {
	if col.g.IsMeasurement() {
		return fmt.Sprintf("m%d", col.g.Bit)
	}
	if len(col.conds) == 0 {
		return ""
	}
	parts := make([]string, len(col.conds))
	for i, cd := range col.conds {
		v := 0
		if cd.Value {
			v = 1
		}
		parts[i] = fmt.Sprintf("m%d=%d", cd.Bit, v)
	}
	tag := strings.Join(parts, ",")
	if len(tag) > cellW-1 {
		tag = tag[:cellW-2] + "+"
	}
	return tag
}
