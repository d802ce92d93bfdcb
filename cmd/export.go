package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/filter"
	"github.com/xolan/punch/internal/timeutil"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records as CSV, JSON or YAML",
	Long: `Export the records of the log for programmatic use, backup, or migration.

Formats:
  csv     The log format itself (Time,LogType,AddSeconds)
  json    Records with export metadata
  yaml    Same document as json

Without date flags every record is exported.

Examples:
  punch export                              All records as CSV
  punch export --format json > punch.json   All records as JSON
  punch export --format yaml --last 7       Last 7 days as YAML
  punch export --from 2024-01-01 --to 2024-01-31
  punch export --type breakadd              Only break corrections`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		lastDays, _ := cmd.Flags().GetInt("last")
		typeNames, _ := cmd.Flags().GetStringSlice("type")
		exportRecords(format, fromStr, toStr, lastDays, typeNames...)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "csv", "Output format: csv, json or yaml")
	exportCmd.Flags().StringSlice("type", nil, "Only export these record types (work, break, breakadd)")
	addRangeFlags(exportCmd)
}

// ExportRecord is one record in a JSON or YAML export
type ExportRecord struct {
	Time       time.Time `json:"time" yaml:"time"`
	Type       string    `json:"type" yaml:"type"`
	AddSeconds *int64    `json:"add_seconds,omitempty" yaml:"add_seconds,omitempty"`
}

// ExportFilters describes the date filter of an export
type ExportFilters struct {
	From  string   `json:"from,omitempty" yaml:"from,omitempty"`
	To    string   `json:"to,omitempty" yaml:"to,omitempty"`
	Types []string `json:"types,omitempty" yaml:"types,omitempty"`
}

// ExportDocument is the JSON and YAML export envelope
type ExportDocument struct {
	ExportedAt   time.Time      `json:"exported_at" yaml:"exported_at"`
	TotalRecords int            `json:"total_records" yaml:"total_records"`
	Filters      *ExportFilters `json:"filters,omitempty" yaml:"filters,omitempty"`
	Records      []ExportRecord `json:"records" yaml:"records"`
}

func exportRecords(format, fromStr, toStr string, lastDays int, typeNames ...string) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "json" && format != "yaml" {
		fail(fmt.Sprintf("Unsupported format '%s'", format), nil, "Valid formats: csv, json, yaml")
		return
	}

	types, err := filter.ParseTypes(typeNames)
	if err != nil {
		fail("Invalid record type", err, "Valid types: work, break, breakadd")
		return
	}

	services, ok := bootstrap()
	if !ok {
		return
	}

	f := filter.NewFilter(time.Time{}, time.Time{}, types...)
	var filters *ExportFilters

	if fromStr != "" || toStr != "" || lastDays != 0 {
		start, end, err := timeutil.ParseDateRangeFlags(fromStr, toStr, lastDays, services.Tracker.Now())
		if err != nil {
			fail("Invalid date range", err, "Use either --last N or --from/--to, dates as YYYY-MM-DD")
			return
		}
		f.From, f.To = start, end
		filters = &ExportFilters{From: start.Format("2006-01-02"), To: end.Format("2006-01-02")}
	}
	if len(types) > 0 {
		if filters == nil {
			filters = &ExportFilters{}
		}
		for _, t := range types {
			filters.Types = append(filters.Types, t.String())
		}
	}

	records := filter.Apply(services.Tracker.Records(), f)

	switch format {
	case "csv":
		err = writeCSV(records)
	case "json", "yaml":
		doc := ExportDocument{
			ExportedAt:   services.Tracker.Now(),
			TotalRecords: len(records),
			Filters:      filters,
			Records:      make([]ExportRecord, 0, len(records)),
		}
		for _, r := range records {
			doc.Records = append(doc.Records, ExportRecord{
				Time:       r.Time,
				Type:       r.Type.String(),
				AddSeconds: r.AddSeconds,
			})
		}
		if format == "json" {
			err = writeJSON(doc)
		} else {
			err = writeYAML(doc)
		}
	}

	if err != nil {
		fail(fmt.Sprintf("Failed to write %s export", strings.ToUpper(format)), err, "")
	}
}

func writeCSV(records []entry.Record) error {
	w := csv.NewWriter(deps.Stdout)
	if err := w.Write(entry.Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(doc ExportDocument) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeYAML(doc ExportDocument) error {
	enc := yaml.NewEncoder(deps.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
