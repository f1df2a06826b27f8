package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/715d/bdatconv/internal/config"
	"github.com/715d/bdatconv/pkg/bdaterr"
	"github.com/715d/bdatconv/pkg/deser"
)

// Report is the outcome of a batch, one entry per table in input order.
type Report struct {
	Tables []TableResult `json:"tables"`
	Stats  struct {
		Total     int           `json:"total"`
		Succeeded int           `json:"succeeded"`
		Failed    int           `json:"failed"`
		Rows      int           `json:"rows"`
		Duration  time.Duration `json:"duration"`
	} `json:"stats"`
}

// TableResult describes one table of a batch.
type TableResult struct {
	Table   string `json:"table"`
	Source  string `json:"source,omitempty"`
	Columns int    `json:"columns,omitempty"`
	Rows    int    `json:"rows,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Error   string `json:"error,omitempty"`
	Output  string `json:"output,omitempty"`
}

func buildReport(results []deser.Result, dur time.Duration) *Report {
	r := &Report{Tables: make([]TableResult, 0, len(results))}
	r.Stats.Duration = dur
	for _, res := range results {
		tr := TableResult{
			Table:  res.Doc.Label().String(),
			Source: res.Doc.Source,
		}
		r.Stats.Total++
		if res.Err != nil {
			tr.Kind = string(bdaterr.KindOf(res.Err))
			tr.Error = res.Err.Error()
			r.Stats.Failed++
		} else {
			tr.Columns = len(res.Table.Columns)
			tr.Rows = len(res.Table.Rows)
			r.Stats.Succeeded++
			r.Stats.Rows += tr.Rows
		}
		r.Tables = append(r.Tables, tr)
	}
	return r
}

func writeReport(w io.Writer, report *Report, c *config.Config) error {
	var output string
	var err error

	if c.JSON {
		output, err = formatJSONOutput(report)
	} else {
		output = formatTextOutput(report, c)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, output)
	return err
}

func formatJSONOutput(report *Report) (string, error) {
	data, err := json.MarshalIndent(jOutput{
		Report:    report,
		Version:   version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling json output: %w", err)
	}
	return string(data) + "\n", nil
}

func formatTextOutput(report *Report, c *config.Config) string {
	var output strings.Builder

	if c.Verbose {
		slog.Info("",
			"total_tables", report.Stats.Total,
			"failed_tables", report.Stats.Failed,
			"rows", report.Stats.Rows,
			"duration", report.Stats.Duration.String())
	}

	for _, t := range report.Tables {
		name := t.Table
		if t.Source != "" {
			name = t.Source
		}
		switch {
		case t.Error != "":
			output.WriteString(fmt.Sprintf("%s: %s\n", name, t.Error))
		case c.Verbose:
			output.WriteString(fmt.Sprintf("%s: ok (%d columns, %d rows)\n", name, t.Columns, t.Rows))
		}
	}

	if report.Stats.Failed == 0 {
		slog.Info("all tables deserialized", "num", report.Stats.Total)
	} else {
		output.WriteString(fmt.Sprintf("%d of %d tables failed\n", report.Stats.Failed, report.Stats.Total))
	}
	return output.String()
}

type jOutput struct {
	*Report
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
