package serialization

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MmapReader gives read-only memory-mapped access to an archive file. The
// fixed header is parsed on open; entries are decoded on demand by Archive.
type MmapReader struct {
	file   *os.File
	data   mmap.MMap
	fixed  fixedHeader
	closed bool
}

// NewMmapReader maps the archive at path. Always Close the reader.
func NewMmapReader(path string) (*MmapReader, error) {
	//nolint:gosec // G304: path comes from the caller
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "failed to stat file")
	}
	if stat.Size() < FixedHeaderSize {
		_ = file.Close()
		return nil, errors.Wrapf(ErrTruncated, "file is %d bytes", stat.Size())
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "mmap failed")
	}

	r := &MmapReader{file: file, data: data}
	if r.fixed, err = parseFixedHeader(data); err != nil {
		_ = r.Close()
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(data),
	}).Debug("mapped archive")
	return r, nil
}

// PayloadSize returns the payload size recorded in the fixed header.
func (r *MmapReader) PayloadSize() uint64 {
	return r.fixed.payloadSize
}

// Checksum returns the payload checksum recorded in the fixed header.
func (r *MmapReader) Checksum() [ChecksumSize]byte {
	return r.fixed.checksum
}

// Bytes returns the mapped file contents. The slice is invalid after Close.
func (r *MmapReader) Bytes() []byte {
	return r.data
}

// Archive decodes the mapped file. Decoded views own their buffers, so they
// stay valid after Close.
func (r *MmapReader) Archive(opts ReaderOptions) (*Archive, error) {
	if r.closed {
		return nil, errors.New("reader is closed")
	}
	return Decode(r.data, opts)
}

// Close unmaps and closes the file.
func (r *MmapReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.data != nil {
		err = r.data.Unmap()
		r.data = nil
	}
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	return errors.Wrap(err, "failed to close archive")
}

// OpenFile maps the archive at path, decodes it and unmaps it.
func OpenFile(path string, opts ReaderOptions) (*Archive, error) {
	r, err := NewMmapReader(path)
	if err != nil {
		return nil, err
	}
	a, err := r.Archive(opts)
	if cerr := r.Close(); err == nil && cerr != nil {
		return nil, cerr
	}
	return a, err
}
