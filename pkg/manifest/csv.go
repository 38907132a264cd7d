package manifest

import (
	"io"

	"github.com/gocarina/gocsv"
)

// CSVRow is one line of the flat transfer summary: one row per file, the
// way a spreadsheet-friendly companion to the XML manifest would be
// consumed by a script rather than an XML parser. Modeled on the
// csv-tagged struct style in _examples/dargueta-disko/disks/disks.go.
type CSVRow struct {
	SourcePath string `csv:"source_path"`
	DestPath   string `csv:"dest_path"`
	Bytes      uint64 `csv:"bytes"`
	ElapsedMS  int64  `csv:"elapsed_ms"`
	Outcome    string `csv:"outcome"`
}

// RowFromFileObject projects a FileObject into its CSV row.
func RowFromFileObject(obj FileObject) CSVRow {
	return CSVRow{
		SourcePath: obj.SourcePath,
		DestPath:   obj.DestPath,
		Bytes:      obj.FileSize,
		ElapsedMS:  obj.ElapsedMS,
		Outcome:    obj.CopyOutcome,
	}
}

// WriteCSV marshals rows to w as a header row plus one row per entry.
func WriteCSV(rows []CSVRow, w io.Writer) error {
	return gocsv.Marshal(rows, w)
}
