package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "print partition geometry and volume information",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := mountPartition()
			if err != nil {
				return err
			}

			label, err := p.VolumeLabelString()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "volume label:        %q\n", label)
			fmt.Fprintf(out, "bytes per sector:    %d\n", p.BytesPerSector)
			fmt.Fprintf(out, "sectors per cluster: %d\n", p.SectorsPerCluster)
			fmt.Fprintf(out, "reserved sectors:    %d\n", p.ReservedSectors)
			fmt.Fprintf(out, "number of FATs:      %d\n", p.NumFATs)
			fmt.Fprintf(out, "sectors per FAT:     %d\n", p.SectorsPerFAT)
			fmt.Fprintf(out, "root cluster:        %d\n", p.RootCluster)
			return nil
		},
	}
}
