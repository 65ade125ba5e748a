package mapdata

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/talgya/hexmap/internal/world"
)

const (
	binaryMagic   = "HXMD"
	binaryVersion = uint16(1)

	// maxCount bounds every length prefix read from a stream.
	maxCount = 1 << 24
)

// EncodeBinary writes md in the little-endian length-prefixed layout:
// magic and version, the scalar fields, each layer as a count followed by
// its codes, then the river tiles ordered by row and column, each as q, r,
// s, a direction count and the directions.
func EncodeBinary(w io.Writer, md *MapData) error {
	if md == nil {
		return ErrEmpty
	}
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw}
	e.bytes([]byte(binaryMagic))
	e.put(binaryVersion)
	e.int32(md.Rows)
	e.int32(md.Columns)
	e.put(md.Seed)
	e.int32(int(md.Type))
	e.int32(int(md.Size))
	e.int32(int(md.Temperature))
	e.int32(int(md.Humidity))
	for _, layer := range [][]int{md.TerrainMap, md.LandscapeMap, md.RiverMap} {
		e.int32(len(layer))
		for _, v := range layer {
			e.int32(v)
		}
	}
	keys := md.SortedRiverTiles()
	e.int32(len(keys))
	for _, c := range keys {
		dirs := md.RiverTileDirections[c]
		e.int32(c.Q)
		e.int32(c.R)
		e.int32(c.S)
		e.int32(len(dirs))
		for _, d := range dirs {
			e.int32(int(d))
		}
	}
	if e.err != nil {
		return e.err
	}
	return bw.Flush()
}

// DecodeBinary reads a map written by EncodeBinary and validates it.
func DecodeBinary(r io.Reader) (*MapData, error) {
	d := &decoder{r: bufio.NewReader(r)}
	magic := make([]byte, len(binaryMagic))
	d.read(magic)
	if d.err != nil {
		if errors.Is(d.err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, d.err)
	}
	if string(magic) != binaryMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalid, magic)
	}
	var version uint16
	d.read(&version)
	if d.err == nil && version != binaryVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalid, version)
	}

	md := &MapData{}
	md.Rows = d.int32()
	md.Columns = d.int32()
	d.read(&md.Seed)
	md.Type = world.MapType(d.int32())
	md.Size = world.MapSize(d.int32())
	md.Temperature = world.Temperature(d.int32())
	md.Humidity = world.Humidity(d.int32())
	if d.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, d.err)
	}
	if md.Rows <= 0 || md.Columns <= 0 || md.Rows > maxCount/md.Columns {
		return nil, fmt.Errorf("%w: dimensions %dx%d out of range", ErrInvalid, md.Columns, md.Rows)
	}
	tiles := md.Rows * md.Columns
	md.TerrainMap = d.layer(tiles)
	md.LandscapeMap = d.layer(tiles)
	md.RiverMap = d.layer(tiles)

	n := d.count(tiles)
	md.RiverTileDirections = make(RiverDirections, n)
	for i := 0; i < n && d.err == nil; i++ {
		c := world.HexCoord{Q: d.int32(), R: d.int32(), S: d.int32()}
		k := d.count(len(world.Directions))
		dirs := make([]world.Direction, 0, min(k, len(world.Directions)))
		for j := 0; j < k && d.err == nil; j++ {
			dirs = append(dirs, world.Direction(d.int32()))
		}
		md.RiverTileDirections[c] = dirs
	}
	if d.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, d.err)
	}
	if err := md.Validate(); err != nil {
		return nil, err
	}
	return md, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (md *MapData) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeBinary(&buf, md); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (md *MapData) UnmarshalBinary(data []byte) error {
	decoded, err := DecodeBinary(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*md = *decoded
	return nil
}

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) put(v any) {
	if e.err == nil {
		e.err = binary.Write(e.w, binary.LittleEndian, v)
	}
}

func (e *encoder) bytes(b []byte) {
	if e.err == nil {
		_, e.err = e.w.Write(b)
	}
}

func (e *encoder) int32(v int) {
	e.put(int32(v))
}

type decoder struct {
	r   io.Reader
	err error
}

func (d *decoder) read(v any) {
	if d.err != nil {
		return
	}
	if b, ok := v.([]byte); ok {
		_, d.err = io.ReadFull(d.r, b)
		return
	}
	d.err = binary.Read(d.r, binary.LittleEndian, v)
}

func (d *decoder) int32() int {
	var v int32
	d.read(&v)
	return int(v)
}

// count reads a length prefix of at most limit.
func (d *decoder) count(limit int) int {
	n := d.int32()
	if d.err == nil && (n < 0 || n > limit) {
		d.err = fmt.Errorf("length prefix %d out of range [0,%d]", n, limit)
	}
	if d.err != nil {
		return 0
	}
	return n
}

// layer reads a length-prefixed layer that must hold exactly tiles values.
func (d *decoder) layer(tiles int) []int {
	n := d.count(tiles)
	if d.err == nil && n != tiles {
		d.err = fmt.Errorf("layer has %d tiles, want %d", n, tiles)
	}
	if d.err != nil {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = d.int32()
	}
	if d.err != nil {
		return nil
	}
	return out
}
