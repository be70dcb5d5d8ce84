package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type TemplateOptions struct {
	GlobalOptions

	File string
}

func NewCmdTemplate() *cobra.Command {
	o := &TemplateOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Download the sample product import file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, o.Complete, o.Validate, func() error {
				return o.Run(cmd.Context(), cmd.OutOrStdout())
			})
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *TemplateOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	fs.StringVarP(&o.File, "file", "f", o.File, "Write the template to this file; \"-\" for stdout. Defaults to the server's file name.")
}

func (o *TemplateOptions) Run(ctx context.Context, out io.Writer) error {
	tmpl, err := o.Client().Template(ctx)
	if err != nil {
		return err
	}
	if o.File == "-" {
		_, err := io.WriteString(out, tmpl.CSVContent)
		return err
	}

	path := o.File
	if path == "" {
		path = tmpl.Filename
	}
	if err := os.WriteFile(path, []byte(tmpl.CSVContent), 0o644); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	_, err = fmt.Fprintf(out, "wrote %s\n", path)
	return err
}
