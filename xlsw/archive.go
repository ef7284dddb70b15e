package xlsw

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/flate"
)

// zipStorage writes container parts into a zip archive. Small generated
// parts arrive as blobs; finalized sheet streams are copied from their
// temp files without buffering.
type zipStorage struct {
	z *zip.Writer
}

func newZipStorage(out io.Writer) *zipStorage {
	z := zip.NewWriter(out)
	z.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestSpeed)
	})
	return &zipStorage{z: z}
}

func (zs *zipStorage) WriteBlob(path string, blob []byte) error {
	f, err := zs.z.Create(strings.TrimPrefix(path, "/"))
	if err != nil {
		return err
	}
	_, err = f.Write(blob)
	return err
}

// WriteFile copies a file verbatim into the archive under path.
func (zs *zipStorage) WriteFile(path string, filename string) error {
	src, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open part source: %w", err)
	}
	defer src.Close()
	f, err := zs.z.Create(strings.TrimPrefix(path, "/"))
	if err != nil {
		return err
	}
	_, err = io.Copy(f, src)
	return err
}

// Close finalizes the archive directory. Without it the container is
// unreadable.
func (zs *zipStorage) Close() error {
	return zs.z.Close()
}
