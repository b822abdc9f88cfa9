package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"
)

func newWriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write [file]",
		Short: "Write JSON lines as records",
		Long: `Read JSON objects of the form {"record": "name", "value": {...}} from file, or
stdin, and write each value with the named record. Without a record name the record
is chosen by the value's class and identifying fields.`,
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

			w, err := f.NewWriter(name, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			dec := json.NewDecoder(in)

			for n := 1; ; n++ {
				var line recordLine
				if err := dec.Decode(&line); errors.Is(err, io.EOF) {
					break
				} else if err != nil {
					return fmt.Errorf("input object %d: %w", n, err)
				}

				value := normalize(line.Value)

				if line.Record != "" {
					err = w.WriteRecord(line.Record, value)
				} else {
					err = w.Write(value)
				}

				if err != nil {
					return fmt.Errorf("input object %d: %w", n, err)
				}
			}

			return w.Flush()
		},
	}
}

// normalize turns integral JSON numbers into int64 so integer fields format without a
// fraction.
func normalize(v any) any {
	switch v := v.(type) {
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v)
		}

		return v
	case map[string]any:
		for k, item := range v {
			v[k] = normalize(item)
		}

		return v
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}

		return v
	}

	return v
}
