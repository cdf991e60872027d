package moga

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const gzipExt = ".gz"

// ASQG record type tokens. Records appear in strict stage order:
// headers, then vertices, then edges.
const (
	asqgHeaderTag = "HT"
	asqgVertexTag = "VT"
	asqgEdgeTag   = "ED"
)

type asqgStage int

const (
	stageHead asqgStage = iota
	stageVertex
	stageEdge
)

// VertexRecord is a VT line: a read id and its sequence.
type VertexRecord struct {
	Id  string
	Seq string
}

func parseVertexRecord(fields []string) (VertexRecord, error) {
	if len(fields) < 3 {
		return VertexRecord{}, fmt.Errorf(
			"Vertex record has %d fields; want at least 3.", len(fields))
	}
	return VertexRecord{Id: fields[1], Seq: fields[2]}, nil
}

// EdgeRecord is an ED line: two read ids, the matched interval on each
// read as an inclusive [s, e] pair with the read length, and the
// reverse-complement flag.
type EdgeRecord struct {
	Overlap Overlap
}

func parseEdgeRecord(fields []string) (EdgeRecord, error) {
	if len(fields) < 10 {
		return EdgeRecord{}, fmt.Errorf(
			"Edge record has %d fields; want at least 10.", len(fields))
	}
	nums := make([]int, 7)
	for i, field := range fields[3:10] {
		n, err := strconv.Atoi(field)
		if err != nil {
			return EdgeRecord{}, fmt.Errorf(
				"Edge record field %q is not an integer.", field)
		}
		nums[i] = n
	}
	if nums[6] != 0 && nums[6] != 1 {
		return EdgeRecord{}, fmt.Errorf(
			"Edge record RC flag is %d; want 0 or 1.", nums[6])
	}

	var record EdgeRecord
	record.Overlap.Ids[0] = fields[1]
	record.Overlap.Ids[1] = fields[2]
	// The on-disk intervals are inclusive; coords are half-open.
	record.Overlap.Match.Coords[0] = SeqCoord{Start: nums[0], End: nums[1] + 1, SeqLen: nums[2]}
	record.Overlap.Match.Coords[1] = SeqCoord{Start: nums[3], End: nums[4] + 1, SeqLen: nums[5]}
	record.Overlap.Match.IsRC = nums[6] == 1
	return record, nil
}

// LoadASQG parses a stream of ASQG records into g. Vertex records are
// inserted directly; edge records at or above conf.MinOverlap are fed
// to an EdgeCreator. Malformed records, out-of-order stages and
// duplicate vertex ids fail the load; the caller discards the partial
// graph.
func LoadASQG(r io.Reader, conf *AssembleConf, g *Bigraph) error {
	g.SetMinOverlap(conf.MinOverlap)
	creator := NewEdgeCreator(g, conf.AllowContainments, conf.MaxEdges)

	stage := stageHead
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<24)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case asqgHeaderTag:
			if stage != stageHead {
				return fmt.Errorf("Unexpected header record at line %q.", line)
			}
		case asqgVertexTag:
			if stage == stageHead {
				stage = stageVertex
			}
			if stage != stageVertex {
				return fmt.Errorf("Unexpected vertex record at line %q.", line)
			}
			record, err := parseVertexRecord(fields)
			if err != nil {
				return err
			}
			if !g.AddVertex(NewVertex(record.Id, record.Seq)) {
				return fmt.Errorf(
					"Duplicate vertex id %q; all reads must have a unique identifier.",
					record.Id)
			}
		case asqgEdgeTag:
			if stage == stageVertex {
				stage = stageEdge
			}
			if stage != stageEdge {
				return fmt.Errorf("Unexpected edge record at line %q.", line)
			}
			record, err := parseEdgeRecord(fields)
			if err != nil {
				return err
			}
			if record.Overlap.Match.Length() >= conf.MinOverlap {
				// A false return is a soft skip: unknown vertex,
				// non-extreme interval or a vertex past the degree cap.
				creator.Create(&record.Overlap)
			}
		default:
			return fmt.Errorf("Unknown record type %q at line %q.", fields[0], line)
		}
	}
	return scanner.Err()
}

// LoadASQGFile loads an ASQG file into g, transparently decompressing
// when the pathname ends in .gz.
func LoadASQGFile(filename string, conf *AssembleConf, g *Bigraph) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var r io.Reader = bufio.NewReader(file)
	if strings.HasSuffix(filename, gzipExt) {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		r = gzipReader
	}
	return LoadASQG(r, conf, g)
}
