package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable prints a pretty table to stdout
func RenderTable(headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: len(headers), WidthMax: 60, WidthMaxEnforcer: text.WrapSoft}})

	t.Render()
}

// RenderKV prints label/value pairs as a two-column table.
func RenderKV(pairs [][2]string) {
	rows := make([][]interface{}, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []interface{}{p[0], p[1]})
	}
	RenderTable([]string{"Field", "Value"}, rows)
}

// PrintJSON prints v indented.
func PrintJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// Tags joins tags for a table cell.
func Tags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
