package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kjetilpp/mysqldumpall/pkg/archive"
	"github.com/kjetilpp/mysqldumpall/pkg/database"
)

const dumpTool = "mysqldump"

// Dump runs a single dump, based on the provided opts: list the databases,
// dump each included one into a freshly created staging directory, then
// finalize per the output mode.
func (e *Executor) Dump(ctx context.Context, opts DumpOptions) (results DumpResults, err error) {
	results = DumpResults{Start: time.Now()}
	defer func() { results.End = time.Now() }()

	logger := e.Logger.WithField("run", opts.Run.String())

	ctx, span := otel.Tracer("core").Start(ctx, "dump",
		trace.WithAttributes(attribute.String("run", opts.Run.String())))
	defer span.End()

	base, err := BaseName(opts.NameTemplate, results.Start)
	if err != nil {
		return results, err
	}
	results.Basename = base
	logger.Infof("beginning dump %s", base)

	workdir := opts.WorkDir
	if workdir == "" {
		workdir = "."
	}
	staging := filepath.Join(workdir, base)
	if _, err := os.Stat(staging); err == nil {
		return results, fmt.Errorf("staging directory %s already exists, refusing to overwrite", staging)
	} else if !os.IsNotExist(err) {
		return results, fmt.Errorf("failed to check staging directory %s: %v", staging, err)
	}
	if err := os.Mkdir(staging, 0o755); err != nil {
		return results, fmt.Errorf("failed to create staging directory %s: %v", staging, err)
	}

	names, err := e.lister()(ctx, opts.DBConn)
	if err != nil {
		return results, fmt.Errorf("failed to list databases: %v", err)
	}

	for _, name := range names {
		if name == database.InternalSchema {
			continue
		}
		if opts.Filter != nil && !opts.Filter.Includes(name) {
			logger.Debugf("skipping %s", name)
			results.Skipped = append(results.Skipped, name)
			continue
		}
		if err := e.dumpOne(ctx, opts, staging, name); err != nil {
			// best effort: an individual failure never stops the run and
			// does not change the exit status
			logger.Warnf("failed to dump %s: %v", name, err)
			results.Failed = append(results.Failed, name)
			continue
		}
		fmt.Fprintln(e.stdout(), name)
		results.Dumped = append(results.Dumped, name)
	}

	archivePath, err := e.finalize(opts, staging)
	if err != nil {
		return results, err
	}
	if archivePath != "" {
		logger.Infof("wrote archive %s", archivePath)
	}
	results.Archive = archivePath
	return results, nil
}

// dumpOne writes a single database to <staging>/<name>.sql, through the
// compressor to <name>.sql.<ext> when one is set.
func (e *Executor) dumpOne(ctx context.Context, opts DumpOptions, staging, name string) error {
	ctx, span := otel.Tracer("core").Start(ctx, "dump-database",
		trace.WithAttributes(attribute.String("database", name)))
	defer span.End()

	outFile := filepath.Join(staging, name+".sql")
	if opts.Compressor != nil {
		outFile += "." + opts.Compressor.Extension()
	}
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create dump file '%s': %v", outFile, err)
	}
	defer f.Close()

	var out io.Writer = f
	var cw io.WriteCloser
	if opts.Compressor != nil {
		if cw, err = opts.Compressor.Compress(f); err != nil {
			return fmt.Errorf("failed to create compressor: %v", err)
		}
		out = cw
	}
	if err := e.runner().Run(ctx, out, dumpTool, opts.DBConn.DumpArgs(name, opts.DumpToolArgs)...); err != nil {
		return err
	}
	if cw != nil {
		if err := cw.Close(); err != nil {
			return fmt.Errorf("failed to flush compressor: %v", err)
		}
	}
	return f.Close()
}

// finalize archives the staging directory per the output mode and removes
// it. Directory mode leaves everything in place. On an archiver error the
// staging directory stays intact for manual recovery.
func (e *Executor) finalize(opts DumpOptions, staging string) (string, error) {
	if opts.Mode == Directory {
		return "", nil
	}
	if _, err := os.Stat(staging); err != nil {
		return "", fmt.Errorf("staging directory %s missing at archive time: %v", staging, err)
	}
	var (
		archivePath string
		err         error
	)
	switch opts.Mode {
	case Tar:
		// skip the gzip layer when the dump files are already compressed
		archivePath, err = archive.Tar(staging, opts.Compressor == nil)
	case Zip:
		archivePath, err = archive.Zip(staging, opts.Compressor != nil)
	default:
		return "", fmt.Errorf("unknown output mode %d", opts.Mode)
	}
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(staging); err != nil {
		return archivePath, fmt.Errorf("failed to remove staging directory %s: %v", staging, err)
	}
	return archivePath, nil
}
