package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/storefront/backoffice/internal/application/importtracker"
	"github.com/storefront/backoffice/internal/domain/bulk"
)

type UploadOptions struct {
	GlobalOptions
	OutputOptions

	Watch        bool
	PollInterval time.Duration
}

func DefaultUploadOptions() *UploadOptions {
	return &UploadOptions{
		GlobalOptions: DefaultGlobalOptions(),
		PollInterval:  importtracker.DefaultPollInterval,
	}
}

func NewCmdUpload() *cobra.Command {
	o := DefaultUploadOptions()
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a CSV or Excel product file for import.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, o.Complete, o.Validate, func() error {
				return o.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
			})
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *UploadOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	o.OutputOptions.Bind(fs)
	fs.BoolVarP(&o.Watch, "watch", "w", o.Watch, "Poll the import until it finishes")
	fs.DurationVar(&o.PollInterval, "interval", o.PollInterval, "Status poll interval with --watch")
}

func (o *UploadOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.PollInterval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return o.OutputOptions.Validate()
}

func (o *UploadOptions) Run(ctx context.Context, out io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	tracker := importtracker.New(o.Client(), importtracker.Config{
		PollInterval: o.PollInterval,
		Language:     o.Lang(),
		Logger:       o.Logger(),
	})
	defer tracker.Close()

	name := filepath.Base(path)
	if err := tracker.SelectFile(importtracker.ImportFile{
		Name:        name,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Data:        data,
	}); err != nil {
		return err
	}

	var done chan struct{}
	if o.Watch {
		done = o.watch(tracker, out)
	}

	job, err := tracker.Upload(ctx)
	if err != nil {
		return err
	}
	if !o.Watch {
		return o.print(out, job, func(w *tabwriter.Writer) {
			printJobTable(w, job, o.Lang())
		})
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	final := tracker.Job()
	if err := o.print(out, final, func(w *tabwriter.Writer) {
		printJobTable(w, final, o.Lang())
	}); err != nil {
		return err
	}
	if final.Status == bulk.ImportStatusFailed {
		return fmt.Errorf("import %s: %s", final.ID, bulk.ProjectStatus(final.Status, o.Lang()).Label)
	}
	return nil
}

// watch prints a line whenever the tracked job moves and closes the
// returned channel once it reaches a terminal status
func (o *UploadOptions) watch(tracker *importtracker.Tracker, out io.Writer) chan struct{} {
	done := make(chan struct{})
	var (
		mu       sync.Mutex
		once     sync.Once
		lastLine string
	)
	tracker.OnChange(func(s importtracker.Snapshot) {
		if s.Job == nil {
			return
		}
		line := fmt.Sprintf("%s %s %d%%", s.Job.ID, s.JobView.Label, s.Job.Percent())

		mu.Lock()
		// structured output stays machine readable
		if line != lastLine && o.Output == "" {
			fmt.Fprintln(out, line)
		}
		lastLine = line
		mu.Unlock()

		if s.JobView.Terminal {
			once.Do(func() { close(done) })
		}
	})
	return done
}
