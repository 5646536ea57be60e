package markdown

import (
	"regexp"
	"strings"

	"github.com/dgallion1/notedoc/internal/doctree"
)

var separatorCellRe = regexp.MustCompile(`^[-:\s]+$`)

// parseTable builds a table from a run of pipe-prefixed lines. It reports
// false for fewer than two lines, which the caller treats as "emit nothing".
func parseTable(lines []string) (doctree.Node, bool) {
	if len(lines) < 2 {
		return doctree.Node{}, false
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, splitRow(line))
	}

	sep := -1
	for i, row := range rows {
		if isSeparatorRow(row) {
			sep = i
			break
		}
	}

	// The header row always leads the table, even if the separator
	// appeared further down.
	header := -1
	if sep > 0 {
		header = sep - 1
	}

	var tableRows []doctree.Node
	if header >= 0 {
		tableRows = append(tableRows, buildRow(rows[header], doctree.HeaderCell))
	}
	for i, row := range rows {
		if i == sep || i == header {
			continue
		}
		tableRows = append(tableRows, buildRow(row, doctree.DataCell))
	}
	return doctree.Table(tableRows...), true
}

func buildRow(row []string, cell func(...doctree.Node) doctree.Node) doctree.Node {
	cells := make([]doctree.Node, 0, len(row))
	for _, text := range row {
		cells = append(cells, cell(ParseInline(text)...))
	}
	return doctree.TableRow(cells...)
}

// splitRow strips the outer pipes and splits on unescaped ones. "\|" is
// kept as a literal pipe inside the cell.
func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}

	var cells []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' && i+1 < len(line) && line[i+1] == '|' {
			cur.WriteByte('|')
			i++
			continue
		}
		if c == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !separatorCellRe.MatchString(c) {
			return false
		}
	}
	return true
}
