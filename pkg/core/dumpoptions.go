package core

import (
	"github.com/google/uuid"

	"github.com/kjetilpp/mysqldumpall/pkg/compression"
	"github.com/kjetilpp/mysqldumpall/pkg/database"
	"github.com/kjetilpp/mysqldumpall/pkg/filter"
)

// OutputMode selects what remains on disk when a run completes.
type OutputMode int

const (
	// Directory leaves the per-database dump files in the staging directory.
	Directory OutputMode = iota
	// Tar bundles the staging directory into a .tar.gz, or a plain .tar when
	// the dump files are compressed individually, and removes it.
	Tar
	// Zip bundles the staging directory into a .zip, with stored entries
	// when the dump files are compressed individually, and removes it.
	Zip
)

// DumpOptions is the one immutable configuration value for a dump run.
type DumpOptions struct {
	DBConn       database.Connection
	Filter       *filter.List
	Mode         OutputMode
	Compressor   compression.Compressor // nil leaves dump files uncompressed
	NameTemplate string
	WorkDir      string   // where the staging directory is created; "" is the current directory
	DumpToolArgs []string // forwarded verbatim to mysqldump only
	Run          uuid.UUID
}
