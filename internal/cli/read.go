package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kevinseim/beanio-sub003/internal/parser"
)

// recordLine is one record of JSON lines input and output.
type recordLine struct {
	Record string `json:"record"`
	Line   int    `json:"line,omitempty"`
	Value  any    `json:"value"`
}

func newReadCommand() *cobra.Command {
	var (
		skip      int
		keepGoing bool
	)

	cmd := &cobra.Command{
		Use:   "read [file]",
		Short: "Read a record file as JSON lines",
		Long: `Read records from file, or stdin, and print one JSON object per record with the
record name, its line number and the bound value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, s, err := loadFactory(cmd)
			if err != nil {
				return err
			}

			name, err := streamName(f, s)
			if err != nil {
				return err
			}

			in, done, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer done()

			r, err := f.NewReader(name, in)
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			if skip > 0 {
				if _, err := r.Skip(skip); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if s.Pretty {
				enc.SetIndent("", "  ")
			}

			for {
				obj, err := r.Read()
				if errors.Is(err, io.EOF) {
					return nil
				}

				var invalid *parser.InvalidRecordError
				if errors.As(err, &invalid) && keepGoing {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), invalid.Error())
					continue
				}

				if err != nil {
					return err
				}

				if err := enc.Encode(recordLine{Record: r.RecordName(), Line: r.LineNumber(), Value: obj}); err != nil {
					return err
				}
			}
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "records to skip before reading")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "report invalid records and continue")

	return cmd
}
