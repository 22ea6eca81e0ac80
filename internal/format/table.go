package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
)

// Tabular is implemented by list payloads that have a column view.
type Tabular interface {
	Columns() []string
	Rows() [][]string
}

const maxColWidth = 48

func WriteTable(w io.Writer, t Tabular) error {
	rows := t.Rows()
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	tbl := uitable.New()
	tbl.MaxColWidth = maxColWidth
	tbl.Separator = "  "

	cols := t.Columns()
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = strings.ToUpper(c)
	}
	tbl.AddRow(header...)
	for _, r := range rows {
		cells := make([]interface{}, len(r))
		for i, c := range r {
			cells[i] = c
		}
		tbl.AddRow(cells...)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}
