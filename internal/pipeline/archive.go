package pipeline

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// ArchiveEntry is the name of the single file inside the release zip.
const ArchiveEntry = "index.html"

// dosDate1980 is 1980-01-01 in MS-DOS date format.
const dosDate1980 = 1<<5 | 1

// Archive packs page into a zip with one deflated entry.
//
// Only the legacy DOS timestamp is set: leaving Modified zero keeps the
// writer from adding the extended-timestamp extra field, and the fixed
// date makes the archive reproducible.
func Archive(page string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	hdr := &zip.FileHeader{
		Name:         ArchiveEntry,
		Method:       zip.Deflate,
		ModifiedDate: dosDate1980,
	}
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	if _, err := io.WriteString(w, page); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}

	return buf.Bytes(), nil
}
