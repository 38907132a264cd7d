// Package manifest records what a copy operation actually did: a DFXML-
// flavored XML report describing every transferred file's cluster chain and
// destination path, plus (in csv.go) a flat CSV summary of the same run.
//
// Adapted from _examples/ostafen-digler/pkg/dfxml, which described forensic
// file-carve results the same shape this package now uses to describe
// tree-copy results: a FileObject per transferred file, its ByteRuns
// describing which clusters its bytes came from rather than which raw
// image offsets a carver recovered them from.
package manifest

import (
	"encoding/xml"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"time"

	"github.com/otterflash/sdnav/pkg/sysinfo"
)

const XMLOutputVersion = "1.0"

var DefaultMetadata = Metadata{
	Xmlns:    "http://www.forensicswiki.org/wiki/Category:Digital_Forensics_XML",
	XmlnsXsi: "http://www.w3.org/2001/XMLSchema-instance",
	XmlnsDC:  "http://purl.org/dc/elements/1.1/",
	Type:     "SD Card Copy Report",
}

// Header is the root element of a copy manifest document.
type Header struct {
	XMLName   xml.Name `xml:"dfxml"`
	XMLOutput string   `xml:"xmloutputversion,attr,omitempty"`
	Metadata  Metadata `xml:"metadata"`
	Creator   Creator  `xml:"creator"`
	Source    Source   `xml:"source"`
}

type Metadata struct {
	Xmlns    string `xml:"xmlns,attr"`
	XmlnsXsi string `xml:"xmlns:xsi,attr"`
	XmlnsDC  string `xml:"xmlns:dc,attr"`
	Type     string `xml:"dc:type"`
}

// Creator describes the software and environment used to generate the
// report.
type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

type ExecEnv struct {
	OS      string `xml:"os_sysname"`
	Release string `xml:"os_release"`
	Version string `xml:"os_version"`
	Host    string `xml:"host"`
	Arch    string `xml:"arch"`
	UID     int    `xml:"uid"`
	Start   string `xml:"start_time"`
}

// Source describes the SD card partition this copy was read from, in place
// of digler's forensic image file.
type Source struct {
	DevicePath  string `xml:"device_path"`
	VolumeLabel string `xml:"volume_label"`
	SectorSize  int    `xml:"sectorsize"`
}

// FileObject describes one copied file: its destination path, size, and
// the cluster chain its bytes were streamed from.
type FileObject struct {
	XMLName     xml.Name `xml:"fileobject"`
	SourcePath  string   `xml:"source_path"`
	DestPath    string   `xml:"dest_path"`
	FileSize    uint64   `xml:"filesize"`
	ByteRuns    ByteRuns `xml:"byte_runs"`
	ElapsedMS   int64    `xml:"elapsed_ms"`
	CopyOutcome string   `xml:"outcome"` // "created", "overwritten", "skipped", "failed"
}

type ByteRuns struct {
	Runs []ByteRun `xml:"byte_run"`
}

// ByteRun describes a contiguous cluster run, in place of digler's raw
// image-offset byte run.
type ByteRun struct {
	StartCluster uint32 `xml:"start_cluster,attr"`
	NumClusters  uint32 `xml:"num_clusters,attr"`
}

// ByteRunsFromClusters groups a resolved FAT cluster chain into contiguous
// runs. Digler's scan engine only ever emits one ByteRun per file, because a
// carved file occupies one contiguous image range; a FAT cluster chain has
// no such guarantee, so adjacent cluster numbers are coalesced into a single
// run and a fragmented chain produces more than one.
func ByteRunsFromClusters(clusters []uint32) ByteRuns {
	var runs []ByteRun
	for _, c := range clusters {
		if n := len(runs); n > 0 {
			last := &runs[n-1]
			if last.StartCluster+last.NumClusters == c {
				last.NumClusters++
				continue
			}
		}
		runs = append(runs, ByteRun{StartCluster: c, NumClusters: 1})
	}
	return ByteRuns{Runs: runs}
}

// GetExecEnv gathers the same runtime/host metadata digler's DFXML writer
// did, unchanged, since this ambient concern has nothing domain-specific
// about it.
func GetExecEnv() ExecEnv {
	sinfo, err := sysinfo.Stat()
	if err != nil {
		sinfo = &sysinfo.SysUnknown
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown_host"
	}

	uid := 0
	if currentUser, err := user.Current(); err == nil {
		if uidInt, parseErr := strconv.Atoi(currentUser.Uid); parseErr == nil {
			uid = uidInt
		}
	}

	return ExecEnv{
		OS:      sinfo.Name,
		Release: sinfo.Release,
		Version: sinfo.Version,
		Host:    host,
		Arch:    runtime.GOARCH,
		UID:     uid,
		Start:   time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}
}
