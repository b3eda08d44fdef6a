package heightmap

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Snapshot format errors.
var (
	ErrInvalidMagic       = errors.New("invalid heightmap magic: expected 'GMHF'")
	ErrUnsupportedVersion = errors.New("unsupported heightmap version")
	ErrTruncatedData      = errors.New("truncated heightmap data")
)

// SnapshotExt is the file extension used for snapshots.
const SnapshotExt = ".ghf"

const (
	snapshotMagic   = "GMHF"
	snapshotVersion = uint16(1)
)

// snapshotHeader is the uncompressed prefix of a snapshot file.
// The samples follow as a zstd stream of little-endian float32 values.
type snapshotHeader struct {
	Magic    [4]byte
	Version  uint16
	Reserved uint16
	Size     uint32
	Spacing  float32
}

// Encode writes g as a snapshot.
func Encode(w io.Writer, g *Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}

	hdr := snapshotHeader{
		Version: snapshotVersion,
		Size:    uint32(g.Size),
		Spacing: g.Spacing,
	}
	copy(hdr.Magic[:], snapshotMagic)
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(zw, 64*1024)
	var buf [4]byte
	for _, h := range g.Samples {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(h))
		if _, err := bw.Write(buf[:]); err != nil {
			_ = zw.Close()
			return fmt.Errorf("writing samples: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = zw.Close()
		return fmt.Errorf("writing samples: %w", err)
	}
	return zw.Close()
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*Grid, error) {
	var hdr snapshotHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedData)
	}
	if string(hdr.Magic[:]) != snapshotMagic {
		return nil, ErrInvalidMagic
	}
	if hdr.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, hdr.Version)
	}
	if hdr.Size < 2 || hdr.Size > MaxSize {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidDimensions, hdr.Size)
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	g := NewGrid(int(hdr.Size), hdr.Spacing)
	br := bufio.NewReaderSize(zr, 64*1024)
	var buf [4]byte
	for i := range g.Samples {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: sample %d", ErrTruncatedData, i)
		}
		g.Samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Save writes a snapshot file, creating parent directories as needed.
func Save(path string, g *Grid) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a height field from disk. Files with the snapshot extension are
// decoded as snapshots; anything else is decoded as an image.
func Load(path string, spacing, heightScale float32) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if filepath.Ext(path) == SnapshotExt {
		g, err := Decode(bufio.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return g, nil
	}
	g, err := DecodeImage(f, spacing, heightScale)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return g, nil
}
