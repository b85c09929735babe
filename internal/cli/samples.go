package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcre/estate-import/internal/samples"
)

func newSamplesCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Write sample CSV files for both entity kinds",
		RunE: func(_ *cobra.Command, _ []string) error {
			written, err := samples.Write(dir)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Println(path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "samples", "Directory to write sample files into")
	return cmd
}
