package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/715d/bdatconv/pkg/bdat"
	"github.com/715d/bdatconv/pkg/bdaterr"
	"github.com/715d/bdatconv/pkg/textfmt"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Deserialize one table and print it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}
	addDeserFlags(cmd)
	cmd.Flags().StringP("format", "f", "table", "Output format (table|md|csv)")
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errWithCode(&bdaterr.MissingArgumentError{Name: "path"}, exitError)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return errWithCode(err, exitError)
	}

	doc, err := textfmt.ReadFile(args[0])
	if err != nil {
		return errWithCode(err, exitError)
	}
	t, err := newDeserializer(cfg).Deserialize(cmd.Context(), doc)
	if err != nil {
		return errWithCode(fmt.Errorf("%s: %w", args[0], err), exitFailed)
	}

	if cfg.JSON {
		return renderJSON(cmd.OutOrStdout(), t)
	}
	return renderTable(cmd.OutOrStdout(), t, format)
}

func renderTable(w io.Writer, t *bdat.Table, format string) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(t.Name.String())

	header := make(table.Row, 0, len(t.Columns)+1)
	header = append(header, "ID")
	for _, c := range t.Columns {
		header = append(header, fmt.Sprintf("%s (%s)", c.Label, c.Type))
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := make(table.Row, 0, len(row.Values)+1)
		r = append(r, row.ID)
		for _, v := range row.Values {
			r = append(r, v.Text())
		}
		tw.AppendRow(r)
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d rows", len(t.Rows))})

	switch format {
	case "md", "markdown":
		tw.RenderMarkdown()
	case "csv":
		tw.RenderCSV()
	case "table", "":
		tw.Render()
	default:
		return errWithCode(fmt.Errorf("unknown format %q", format), exitError)
	}
	return nil
}

func renderJSON(w io.Writer, t *bdat.Table) error {
	data, err := jsonIndent(t)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
