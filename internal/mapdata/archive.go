package mapdata

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// WriteArchive writes md as a zstd-compressed binary stream.
func WriteArchive(w io.Writer, md *MapData) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := EncodeBinary(enc, md); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadArchive reads a stream written by WriteArchive.
func ReadArchive(r io.Reader) (*MapData, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return DecodeBinary(dec)
}

// Compress returns the archive bytes of md.
func Compress(md *MapData) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteArchive(&buf, md); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress decodes archive bytes produced by Compress.
func Decompress(data []byte) (*MapData, error) {
	return ReadArchive(bytes.NewReader(data))
}

// WriteFile stores md as an archive at path, creating parent directories.
func WriteFile(path string, md *MapData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := WriteArchive(f, md); err != nil {
		f.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	return f.Close()
}

// ReadFile loads an archive written by WriteFile.
func ReadFile(path string) (*MapData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	md, err := ReadArchive(f)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", path, err)
	}
	return md, nil
}
