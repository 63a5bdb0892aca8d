package core

import (
	"fmt"
	"io"
	"strings"

	"PartHunter/internal/models"
)

var separator = strings.Repeat("=", 50)

// Printer 终端输出。默认只打印原始数据中出现过的可选字段，
// ShowEmptyOptional 为 true 时与文件输出一致，总是打印全部字段。
type Printer struct {
	Out               io.Writer
	ShowEmptyOptional bool
}

func NewPrinter(out io.Writer, showEmptyOptional bool) *Printer {
	return &Printer{Out: out, ShowEmptyOptional: showEmptyOptional}
}

func (p *Printer) Print(batch models.ResultBatch) {
	if len(batch) == 0 {
		fmt.Fprintln(p.Out, "No results found.")
		return
	}
	for _, rec := range batch {
		p.PrintRecord(rec)
	}
}

func (p *Printer) PrintRecord(rec *models.ProductRecord) {
	fmt.Fprintf(p.Out, "\n%s\n", separator)
	fmt.Fprintf(p.Out, "Part Number: %s\n", rec.PartNumber)
	fmt.Fprintf(p.Out, "Manufacturer: %s\n", rec.Manufacturer)
	fmt.Fprintf(p.Out, "Description: %s\n", rec.Description)

	optional := []struct {
		field models.OptionalField
		label string
		value string
	}{
		{models.FieldCategory, "Category", rec.Category},
		{models.FieldDetailedDescription, "Detailed Description", rec.DetailedDescription},
		{models.FieldPrimaryPhoto, "Primary Photo", rec.PrimaryPhoto},
		{models.FieldUnitPrice, "Unit Price", rec.UnitPrice},
	}
	for _, o := range optional {
		if p.ShowEmptyOptional || rec.Has(o.field) {
			fmt.Fprintf(p.Out, "%s: %s\n", o.label, o.value)
		}
	}
	fmt.Fprintln(p.Out, separator)
}
