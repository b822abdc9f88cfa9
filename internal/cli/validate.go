package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a mapping file",
		Long: `Load and compile the mapping file with its imports. Errors fail the command;
warnings such as records shadowed by earlier ones are logged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, s, err := loadFactory(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s: ok\n", s.Mapping)

			for _, name := range f.Streams() {
				stream, _ := f.Stream(name)
				_, _ = fmt.Fprintf(out, "  stream %s (%s, %s): %d records\n",
					name, stream.Format, stream.Mode, len(stream.Records))
			}

			return nil
		},
	}
}
