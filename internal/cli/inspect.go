package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/kevinseim/beanio-sub003/internal/parser"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                2,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newInspectCommand() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the compiled tree of a stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, s, err := loadFactory(cmd)
			if err != nil {
				return err
			}

			name, err := streamName(f, s)
			if err != nil {
				return err
			}

			stream, _ := f.Stream(name)
			out := cmd.OutOrStdout()

			_, _ = fmt.Fprintf(out, "stream %s (%s, %s)\n", stream.Name, stream.Format, stream.Mode)

			stream.Walk(func(n parser.Node, depth int) {
				if depth == 0 {
					return
				}

				_, _ = fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", depth), describe(n))

				if dump {
					if r, ok := n.(*parser.Record); ok {
						dumpRecord(out, r, depth)
					}
				}
			})

			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump the identifying fields of every record")

	return cmd
}

func describe(n parser.Node) string {
	info := n.Info()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s [%d..%s] order=%d", n.Kind(), info.Name, info.MinOccurs, bound(info.MaxOccurs), info.Order)

	if info.OccursRef != nil {
		fmt.Fprintf(&sb, " occursRef=%s", info.OccursRef.Name)
	}

	switch n := n.(type) {
	case *parser.Field:
		fmt.Fprintf(&sb, " at=%d", n.Position)

		if n.Length > 0 {
			fmt.Fprintf(&sb, " length=%d", n.Length)
		}

		if n.Identifier {
			sb.WriteString(" rid")
		}

	case *parser.Record:
		if n.Class != "" {
			fmt.Fprintf(&sb, " class=%s", n.Class)
		}

		fmt.Fprintf(&sb, " length=%d..%s", n.MinLength, bound(n.MaxLength))

	case *parser.Segment:
		if n.Class != "" {
			fmt.Fprintf(&sb, " class=%s", n.Class)
		}

	case *parser.Group:
		if !n.Ordered {
			sb.WriteString(" unordered")
		}
	}

	return sb.String()
}

func bound(n int) string {
	if n == parser.Unbounded {
		return "*"
	}

	return fmt.Sprint(n)
}

func dumpRecord(out io.Writer, r *parser.Record, depth int) {
	prefix := strings.Repeat("  ", depth+1)

	for _, line := range strings.Split(strings.TrimRight(dumpConfig.Sdump(r.Identifiers), "\n"), "\n") {
		_, _ = fmt.Fprintf(out, "%s%s\n", prefix, line)
	}
}
