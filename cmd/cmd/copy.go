package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/otterflash/sdnav/internal/copier"
	"github.com/otterflash/sdnav/internal/hostsink"
	"github.com/otterflash/sdnav/pkg/manifest"
	"github.com/otterflash/sdnav/pkg/pbar"
	sdos "github.com/otterflash/sdnav/pkg/util/os"
)

// forceReader feeds an endless stream of "a\n" answers to a Prompter, so
// --force can reuse the same overwrite policy FSM instead of special-casing
// it in the copier.
type forceReader struct{}

func (forceReader) Read(p []byte) (int, error) {
	n := copy(p, "a\n")
	return n, nil
}

func newCopyCommand() *cobra.Command {
	var (
		destDir    string
		force      bool
		xmlReport  string
		csvReport  string
	)

	cmd := &cobra.Command{
		Use:   "copy [folder]",
		Short: "recursively copy a folder from the card to the host (root if omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if destDir == "" {
				return fmt.Errorf("--out is required")
			}

			p, err := mountPartition()
			if err != nil {
				return err
			}

			firstCluster := uint32(0)
			var rootName [11]byte
			if len(args) == 1 {
				fc, err := resolveFolder(p, args[0])
				if err != nil {
					return err
				}
				firstCluster = fc
				if parts := splitPath(args[0]); len(parts) > 0 {
					copy(rootName[:], parts[len(parts)-1])
				}
			}

			if _, err := sdos.EnsureDir(destDir, false); err != nil {
				return err
			}

			tree, err := copier.Enumerate(p, firstCluster, rootName)
			if err != nil {
				return err
			}
			if tree.Overflowed() {
				log.Warnf("folder queue capacity reached; some deeply nested subfolders were skipped")
			}

			var prompter *hostsink.Prompter
			if force {
				prompter = hostsink.NewPrompter(forceReader{}, io.Discard)
			} else {
				prompter = hostsink.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			sink := hostsink.NewOSSink(prompter)

			label, err := p.VolumeLabelString()
			if err != nil {
				label = ""
			}

			res, err := copier.CopyTree(p, tree, sink, destDir)
			if res == nil {
				return err
			}

			for _, fr := range res.Files {
				if fr.Outcome == "failed" {
					log.Errorf("%s: %v", fr.SourcePath, fr.Err)
					continue
				}
				if fr.Outcome == "skipped" {
					continue
				}
				ts := pbar.NewTransferState(fr.DestPath, int64(fr.Bytes))
				ts.StartTime = time.Now().Add(-fr.Elapsed)
				ts.WrittenBytes = int64(fr.Bytes)
				ts.Finish()
			}

			if xmlReport != "" {
				if werr := writeXMLReport(xmlReport, label, res); werr != nil {
					log.Errorf("writing XML report: %v", werr)
				}
			}
			if csvReport != "" {
				if werr := writeCSVReport(csvReport, res); werr != nil {
					log.Errorf("writing CSV report: %v", werr)
				}
			}

			return err
		},
	}

	cmd.Flags().StringVar(&destDir, "out", "", "destination directory on the host (required)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files without prompting")
	cmd.Flags().StringVar(&xmlReport, "xml-report", "", "write a DFXML-style copy manifest to this path")
	cmd.Flags().StringVar(&csvReport, "csv-report", "", "write a CSV copy summary to this path")
	return cmd
}

func writeXMLReport(path, volumeLabel string, res *copier.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := manifest.NewWriter(f)
	hdr := manifest.Header{
		XMLOutput: manifest.XMLOutputVersion,
		Metadata:  manifest.DefaultMetadata,
		Creator: manifest.Creator{
			Package:              AppName,
			Version:              "dev",
			ExecutionEnvironment: manifest.GetExecEnv(),
		},
		Source: manifest.Source{
			DevicePath:  flagDevice + flagImage,
			VolumeLabel: volumeLabel,
			SectorSize:  512,
		},
	}
	if err := w.WriteHeader(hdr); err != nil {
		return err
	}
	for _, fr := range res.Files {
		obj := manifest.FileObject{
			SourcePath:  fr.SourcePath,
			DestPath:    fr.DestPath,
			FileSize:    fr.Bytes,
			ByteRuns:    manifest.ByteRunsFromClusters(fr.Clusters),
			ElapsedMS:   fr.Elapsed.Milliseconds(),
			CopyOutcome: fr.Outcome,
		}
		if err := w.WriteFileObject(obj); err != nil {
			return err
		}
	}
	return w.Close()
}

func writeCSVReport(path string, res *copier.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var rows []manifest.CSVRow
	for _, fr := range res.Files {
		rows = append(rows, manifest.RowFromFileObject(manifest.FileObject{
			SourcePath:  fr.SourcePath,
			DestPath:    fr.DestPath,
			FileSize:    fr.Bytes,
			ElapsedMS:   fr.Elapsed.Milliseconds(),
			CopyOutcome: fr.Outcome,
		}))
	}
	return manifest.WriteCSV(rows, f)
}
