package graph

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/paulmach/orb"
)

// Serialized file format: magic, version, gob-encoded snapshot, CRC32
// trailer, atomic temp-file-then-rename write — the same envelope the
// teacher's CH binary format uses (pkg/graph/binary.go), adapted here
// to the new arena Graph instead of a CSR CHGraph.
const (
	magicBytes = "STRTCOVR"
	version    = uint32(1)
)

type fileHeader struct {
	Magic   [8]byte
	Version uint32
}

// snapshot is the gob-friendly flattened form of a Graph. Geometry
// coordinates are flattened into shared slices with a per-edge point
// count, so variable-length polylines serialize as a few flat arrays.
type snapshot struct {
	NodeLat, NodeLon []float64

	EdgeFrom, EdgeTo []NodeID
	EdgeLengthM      []float64
	EdgeTimeS        []float64
	EdgeHighway      []string
	EdgeName         []string
	EdgeIsConnector  []bool
	EdgeGeomCount    []uint32
	GeomLon, GeomLat []float64
}

func toSnapshot(g *Graph) *snapshot {
	s := &snapshot{
		NodeLat: make([]float64, len(g.Nodes)),
		NodeLon: make([]float64, len(g.Nodes)),
	}
	for i, n := range g.Nodes {
		s.NodeLat[i] = n.Lat
		s.NodeLon[i] = n.Lon
	}

	s.EdgeFrom = make([]NodeID, len(g.Edges))
	s.EdgeTo = make([]NodeID, len(g.Edges))
	s.EdgeLengthM = make([]float64, len(g.Edges))
	s.EdgeTimeS = make([]float64, len(g.Edges))
	s.EdgeHighway = make([]string, len(g.Edges))
	s.EdgeName = make([]string, len(g.Edges))
	s.EdgeIsConnector = make([]bool, len(g.Edges))
	s.EdgeGeomCount = make([]uint32, len(g.Edges))

	for i, e := range g.Edges {
		s.EdgeFrom[i] = e.From
		s.EdgeTo[i] = e.To
		s.EdgeLengthM[i] = e.LengthM
		s.EdgeTimeS[i] = e.TimeS
		s.EdgeHighway[i] = e.Highway
		s.EdgeName[i] = e.Name
		s.EdgeIsConnector[i] = e.IsConnector
		s.EdgeGeomCount[i] = uint32(len(e.Geometry))
		for _, p := range e.Geometry {
			s.GeomLon = append(s.GeomLon, p[0])
			s.GeomLat = append(s.GeomLat, p[1])
		}
	}
	return s
}

func (s *snapshot) toGraph() *Graph {
	g := New()
	for i := range s.NodeLat {
		g.AddNode(s.NodeLat[i], s.NodeLon[i])
	}

	geomOffset := 0
	for i := range s.EdgeFrom {
		n := int(s.EdgeGeomCount[i])
		geom := make(orb.LineString, n)
		for j := 0; j < n; j++ {
			geom[j] = orb.Point{s.GeomLon[geomOffset+j], s.GeomLat[geomOffset+j]}
		}
		geomOffset += n

		g.AddEdge(s.EdgeFrom[i], s.EdgeTo[i], s.EdgeLengthM[i], s.EdgeTimeS[i],
			geom, s.EdgeHighway[i], s.EdgeName[i], s.EdgeIsConnector[i])
	}
	return g
}

// WriteBinary serializes g to path using an atomic temp-file-then-rename
// write, with a CRC32 trailer over the gob payload.
func WriteBinary(path string, g *Graph) error {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(toSnapshot(g)); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	var hdr fileHeader
	copy(hdr.Magic[:], magicBytes)
	hdr.Version = version
	if err := binary.Write(f, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	checksum := crc32.ChecksumIEEE(payload.Bytes())
	if _, err := f.Write(payload.Bytes()); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadBinary deserializes a Graph previously written by WriteBinary.
func ReadBinary(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var hdr fileHeader
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}

	rest, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if len(rest) < 4 {
		return nil, fmt.Errorf("truncated file")
	}
	payload, storedCRC := rest[:len(rest)-4], rest[len(rest)-4:]

	expected := crc32.ChecksumIEEE(payload)
	got := binary.LittleEndian.Uint32(storedCRC)
	if got != expected {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", got, expected)
	}

	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return s.toGraph(), nil
}
