package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	mobyarchive "github.com/moby/go-archive"
)

// Tar bundles the staging directory into an archive next to it and returns
// the archive path. The directory itself is the single top-level entry.
// compress selects .tar.gz output; when the dump files inside are already
// compressed individually, callers pass false and get a plain .tar so the
// data is not compressed twice.
func Tar(stagingDir string, compress bool) (string, error) {
	parent := filepath.Dir(stagingDir)
	base := filepath.Base(stagingDir)

	compression := mobyarchive.Uncompressed
	ext := ".tar"
	if compress {
		compression = mobyarchive.Gzip
		ext = ".tar.gz"
	}
	rc, err := mobyarchive.TarWithOptions(parent, &mobyarchive.TarOptions{
		Compression:  compression,
		IncludeFiles: []string{base},
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive %s: %v", stagingDir, err)
	}
	defer rc.Close()

	outPath := filepath.Join(parent, base+ext)
	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open archive file %s: %v", outPath, err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return "", fmt.Errorf("error writing archive %s: %v", outPath, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing archive %s: %v", outPath, err)
	}
	return outPath, nil
}
