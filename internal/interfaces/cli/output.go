package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"golang.org/x/text/language"
	"sigs.k8s.io/yaml"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var legalOutputTypes = []string{jsonFormat, yamlFormat}

// OutputOptions selects structured output instead of a table
type OutputOptions struct {
	Output string
}

func (o *OutputOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *OutputOptions) Validate() error {
	if o.Output != "" && !slices.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

// print writes v as json or yaml, or falls back to table
func (o *OutputOptions) print(w io.Writer, v any, table func(*tabwriter.Writer)) error {
	switch o.Output {
	case jsonFormat:
		marshalled, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling output: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", marshalled)
		return err
	case yamlFormat:
		marshalled, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshalling output: %w", err)
		}
		_, err = w.Write(marshalled)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func printJobTable(w *tabwriter.Writer, job *bulk.ImportJob, lang language.Tag) {
	view := bulk.ProjectStatus(job.Status, lang)
	fmt.Fprintln(w, "IMPORT ID\tSTATUS\tPROGRESS\tROWS\tSUCCESS\tERRORS")
	fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%d\t%d\n",
		job.ID, view.Label, job.Percent(), rows(job), job.SuccessCount, job.ErrorCount)
	for _, e := range job.DisplayErrors() {
		fmt.Fprintf(w, "  - %s\n", e)
	}
	if extra := len(job.Errors) - bulk.MaxDisplayedErrors; extra > 0 {
		fmt.Fprintf(w, "  ... %d more\n", extra)
	}
}

func rows(job *bulk.ImportJob) string {
	switch {
	case job.Processed != nil && job.Total != nil:
		return fmt.Sprintf("%d/%d", *job.Processed, *job.Total)
	case job.Processed != nil:
		return fmt.Sprintf("%d", *job.Processed)
	}
	return "-"
}

func printHistoryTable(w *tabwriter.Writer, entries []bulk.ImportHistoryEntry, lang language.Tag) {
	if len(entries) == 0 {
		fmt.Fprintln(w, bulk.Localize(lang, bulk.MsgNoImportsYet))
		return
	}
	fmt.Fprintln(w, "ID\tFILENAME\tSIZE\tSTATUS\tSUCCESS\tERRORS\tCREATED\tDURATION")
	for _, e := range entries {
		view := bulk.ProjectStatus(e.Status, lang)
		duration := e.Duration
		if duration == "" {
			duration = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%d\t%s\t%s\n",
			e.ID, e.Filename, e.FileSize, view.Label, e.SuccessCount, e.ErrorCount,
			e.CreatedAt.Local().Format(time.DateTime), duration)
	}
}

func printBotStatusTable(w *tabwriter.Writer, s *bulk.BotStatus) {
	fmt.Fprintln(w, "SECTION\tKEY\tVALUE")
	fmt.Fprintf(w, "telegram_bot\tstatus\t%s\n", s.TelegramBot.Status)
	fmt.Fprintf(w, "telegram_bot\tproducts_imported\t%d\n", s.TelegramBot.ProductsImported)
	fmt.Fprintf(w, "telegram_bot\tmessages_processed\t%d\n", s.TelegramBot.TotalMessagesProcessed)
	fmt.Fprintf(w, "telegram_bot\terrors\t%d\n", s.TelegramBot.Errors)
	fmt.Fprintf(w, "telegram_bot\tlast_activity\t%s\n", formatTime(s.TelegramBot.LastActivity))
	fmt.Fprintf(w, "csv_importer\trecent_imports\t%d\n", s.CSVImporter.RecentImports)
	fmt.Fprintf(w, "csv_importer\ttotal_imported\t%d\n", s.CSVImporter.TotalImported)
	fmt.Fprintf(w, "csv_importer\tlast_import\t%s\n", formatTime(s.CSVImporter.LastImport))
	fmt.Fprintf(w, "general\ttotal_products\t%d\n", s.GeneralStats.TotalProducts)
	fmt.Fprintf(w, "general\trecent_products\t%d\n", s.GeneralStats.RecentProducts)
	fmt.Fprintf(w, "general\tactive_imports\t%d\n", s.GeneralStats.ActiveImports)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
