// Package digestio reads and writes digest sets as msgpack documents,
// optionally zstd-compressed.
package digestio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/agbru/digestagg/internal/digest"
	apperrors "github.com/agbru/digestagg/internal/errors"
)

// FormatVersion is the version written into every set file.
const FormatVersion = 1

// CompressedExt marks files that are zstd-compressed.
const CompressedExt = ".zst"

// setFile is the on-disk document. Each entry of Digests is the
// little-endian encoding of one digest.
type setFile struct {
	Version int      `msgpack:"version"`
	Width   int      `msgpack:"width"`
	Count   int      `msgpack:"count"`
	Digests [][]byte `msgpack:"digests"`
}

// Write encodes digests to w.
func Write(w io.Writer, digests []digest.Digest) error {
	doc := setFile{
		Version: FormatVersion,
		Width:   digest.Width,
		Count:   len(digests),
		Digests: make([][]byte, len(digests)),
	}
	for i := range digests {
		doc.Digests[i] = digests[i].Bytes()
	}
	if err := msgpack.NewEncoder(w).Encode(&doc); err != nil {
		return apperrors.WrapError(err, "encode digest set")
	}
	return nil
}

// Read decodes a digest set written by Write. Sets written for a different
// digest width or format version are rejected.
func Read(r io.Reader) ([]digest.Digest, error) {
	var doc setFile
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.WrapError(err, "decode digest set")
	}
	if doc.Version != FormatVersion {
		return nil, apperrors.ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported digest set version %d", doc.Version),
		}
	}
	if doc.Width != digest.Width {
		return nil, apperrors.ValidationError{
			Field:   "width",
			Message: fmt.Sprintf("digest set has width %d, expected %d", doc.Width, digest.Width),
		}
	}
	if doc.Count != len(doc.Digests) {
		return nil, apperrors.ValidationError{
			Field:   "count",
			Message: fmt.Sprintf("header declares %d digests, found %d", doc.Count, len(doc.Digests)),
		}
	}
	out := make([]digest.Digest, len(doc.Digests))
	for i, raw := range doc.Digests {
		d, err := digest.FromBytes(raw)
		if err != nil {
			return nil, apperrors.WrapError(err, "digest %d", i)
		}
		out[i] = d
	}
	return out, nil
}

// WriteFile writes digests to path, creating parent directories. Paths
// ending in CompressedExt are zstd-compressed.
func WriteFile(path string, digests []digest.Digest) (err error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "create directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.WrapError(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = apperrors.WrapError(cerr, "close %s", path)
		}
	}()

	bw := bufio.NewWriter(f)
	if isCompressed(path) {
		enc, err := zstd.NewWriter(bw)
		if err != nil {
			return apperrors.WrapError(err, "zstd writer")
		}
		if err := Write(enc, digests); err != nil {
			enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return apperrors.WrapError(err, "flush zstd stream")
		}
	} else if err := Write(bw, digests); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadFile reads a digest set from path, decompressing it when the name ends
// in CompressedExt.
func ReadFile(path string) ([]digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "open %s", path)
	}
	defer f.Close()

	r := io.Reader(bufio.NewReader(f))
	if isCompressed(path) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, apperrors.WrapError(err, "zstd reader")
		}
		defer dec.Close()
		r = dec
	}
	return Read(r)
}

func isCompressed(path string) bool {
	return strings.HasSuffix(path, CompressedExt)
}
