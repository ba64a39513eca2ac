package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Zip bundles the staging directory into <dir>.zip and returns the archive
// path. Entries keep the directory as their first path element. stored
// switches every entry to the Store method, for dump files that are already
// compressed individually.
func Zip(stagingDir string, stored bool) (string, error) {
	parent := filepath.Dir(stagingDir)
	base := filepath.Base(stagingDir)

	outPath := filepath.Join(parent, base+".zip")
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive file %s: %v", outPath, err)
	}

	method := zip.Deflate
	if stored {
		method = zip.Store
	}
	zw := zip.NewWriter(f)
	err = filepath.WalkDir(stagingDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(parent, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		hdr.Method = method
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		src, err := os.Open(p)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		zw.Close()
		f.Close()
		return "", fmt.Errorf("error writing archive %s: %v", outPath, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("error finishing archive %s: %v", outPath, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing archive %s: %v", outPath, err)
	}
	return outPath, nil
}
