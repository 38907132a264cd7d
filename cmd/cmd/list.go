package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otterflash/sdnav/internal/fat32"
	"github.com/otterflash/sdnav/internal/hostsink"
)

func newListCommand() *cobra.Command {
	var longFormat bool

	cmd := &cobra.Command{
		Use:   "list [folder]",
		Short: "list the contents of a folder on the card (root if omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := mountPartition()
			if err != nil {
				return err
			}

			firstCluster := uint32(0)
			if len(args) == 1 {
				fc, err := resolveFolder(p, args[0])
				if err != nil {
					return err
				}
				firstCluster = fc
			}

			entries, err := p.List(firstCluster)
			if err != nil {
				return err
			}

			shown := 0
			for _, e := range entries {
				short := e.ShortName()
				if short == "." || short == ".." {
					continue
				}
				shown++

				name := hostsink.ComposeShortNameFromRaw(e.RawName)
				if e.IsDir() {
					fmt.Fprintf(cmd.OutOrStdout(), "%-13s <DIR>\n", name)
					continue
				}
				if longFormat {
					fmt.Fprintf(cmd.OutOrStdout(), "%-13s %10d bytes  cluster %d\n", name, e.Size, e.FirstCluster)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%-13s %10d bytes\n", name, e.Size)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries\n", shown)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&longFormat, "long", "l", false, "show starting cluster alongside size")
	return cmd
}

// resolveFolder walks path, a slash-separated sequence of 8.3 names
// relative to the partition root, returning the first cluster of the
// final folder named.
func resolveFolder(p *fat32.Partition, path string) (uint32, error) {
	cluster := uint32(0)
	for _, part := range splitPath(path) {
		entries, err := p.List(cluster)
		if err != nil {
			return 0, err
		}
		found := false
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if e.ShortName() == part {
				cluster = e.FirstCluster
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("folder not found: %s", part)
		}
	}
	return cluster, nil
}

func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' || path[i] == '\\' {
			if i > start {
				parts = append(parts, path[start:i])
			}
			start = i + 1
		}
	}
	return parts
}
