package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Apurer/storefront-console/internal/domains/invoices/domain"
	"github.com/Apurer/storefront-console/internal/domains/invoices/ports"
)

var _ ports.Renderer = Text{}

// Text renders invoices as aligned plain text.
type Text struct{}

func (Text) Format() string      { return "txt" }
func (Text) ContentType() string { return "text/plain; charset=utf-8" }

func (Text) Render(doc domain.Document, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if doc.Store != "" {
		fmt.Fprintln(tw, doc.Store)
	}
	fmt.Fprintln(tw, doc.Title)
	fmt.Fprintln(tw, strings.Repeat("=", len(doc.Title)))
	writeFields(tw, doc.Header)
	fmt.Fprintln(tw)
	writeFields(tw, doc.Customer)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, strings.Join(doc.Columns, "\t"))
	for _, row := range doc.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	fmt.Fprintln(tw)
	writeFields(tw, doc.Summary)
	return tw.Flush()
}

func writeFields(w io.Writer, fields []domain.Field) {
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(w, "%s:\t%s\n", f.Label, f.Value)
	}
}
