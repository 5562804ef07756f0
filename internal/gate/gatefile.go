package gate

import (
	"bytes"
	"encoding/binary"
	"io"

	"t3/internal/terrors"
	"t3/internal/trit"
)

// magic and version are the §6 persisted gate-table file header:
// 8-byte magic "T3GATES\0" followed by a 4-byte little-endian version.
var magic = [8]byte{'T', '3', 'G', 'A', 'T', 'E', 'S', 0}

const fileVersion uint32 = 1

// WriteTables serializes the DYADIC and MONADIC tables to w in the
// little-endian, uncompressed, magic-prefixed wire format of §6.
func WriteTables(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return terrors.Wrap(terrors.AllocationFailure, err, "write gate table magic")
	}
	if err := binary.Write(w, binary.LittleEndian, fileVersion); err != nil {
		return terrors.Wrap(terrors.AllocationFailure, err, "write gate table version")
	}
	for id := 0; id < DyadicCount; id++ {
		row := dyadic[id]
		var buf [9]int8
		for i, t := range row {
			buf[i] = int8(t)
		}
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return terrors.Wrap(terrors.AllocationFailure, err, "write dyadic row")
		}
	}
	for id := 0; id < MonadicCount; id++ {
		row := monadic[id]
		var buf [3]int8
		for i, t := range row {
			buf[i] = int8(t)
		}
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return terrors.Wrap(terrors.AllocationFailure, err, "write monadic row")
		}
	}
	return nil
}

// Tables holds a deserialized copy of the gate tables, independent of
// the package-level singleton (used for round-trip verification).
type Tables struct {
	Dyadic  [DyadicCount][9]trit.Trit
	Monadic [MonadicCount][3]trit.Trit
}

// ReadTables parses the §6 wire format back into a Tables value.
func ReadTables(r io.Reader) (*Tables, error) {
	var gotMagic [8]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, terrors.Wrap(terrors.InvalidArgument, err, "read gate table magic")
	}
	if !bytes.Equal(gotMagic[:], magic[:]) {
		return nil, terrors.New(terrors.InvalidArgument, "bad gate table magic")
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, terrors.Wrap(terrors.InvalidArgument, err, "read gate table version")
	}
	out := &Tables{}
	for id := 0; id < DyadicCount; id++ {
		var buf [9]int8
		if err := binary.Read(r, binary.LittleEndian, &buf); err != nil {
			return nil, terrors.Wrap(terrors.InvalidArgument, err, "read dyadic row").With("id", id)
		}
		for i, v := range buf {
			out.Dyadic[id][i] = trit.Trit(v)
		}
	}
	for id := 0; id < MonadicCount; id++ {
		var buf [3]int8
		if err := binary.Read(r, binary.LittleEndian, &buf); err != nil {
			return nil, terrors.Wrap(terrors.InvalidArgument, err, "read monadic row").With("id", id)
		}
		for i, v := range buf {
			out.Monadic[id][i] = trit.Trit(v)
		}
	}
	return out, nil
}
