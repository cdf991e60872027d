package moga

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// AssembleConf carries the knobs of graph loading and simplification.
type AssembleConf struct {
	MinOverlap        int
	MaxEdges          int
	AllowContainments bool
	MinLength         int
	MaxDistance       int
	SampleRate        int
}

var DefaultAssembleConf = &AssembleConf{
	MinOverlap:        10,
	MaxEdges:          128,
	AllowContainments: true,
	MinLength:         64,
	MaxDistance:       10,
	SampleRate:        128,
}

// LoadAssembleConf reads a "key: value" configuration, one entry per
// line, '#' comments allowed. Unset keys keep their defaults.
func LoadAssembleConf(r io.Reader) (conf *AssembleConf, err error) {
	defer func() {
		if perr := recover(); perr != nil {
			err = perr.(error)
		}
	}()
	c := *DefaultAssembleConf
	conf = &c
	csvReader := csv.NewReader(r)
	csvReader.Comma = ':'
	csvReader.Comment = '#'
	csvReader.FieldsPerRecord = 2
	csvReader.TrimLeadingSpace = true

	lines, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		atoi := func() int {
			var i64 int64
			var err error
			if i64, err = strconv.ParseInt(strings.TrimSpace(line[1]), 10, 32); err != nil {
				panic(err)
			}
			return int(i64)
		}
		switch line[0] {
		case "MinOverlap":
			conf.MinOverlap = atoi()
		case "MaxEdges":
			conf.MaxEdges = atoi()
		case "AllowContainments":
			conf.AllowContainments = strings.TrimSpace(line[1]) == "1"
		case "MinLength":
			conf.MinLength = atoi()
		case "MaxDistance":
			conf.MaxDistance = atoi()
		case "SampleRate":
			conf.SampleRate = atoi()
		default:
			return nil, fmt.Errorf("Invalid AssembleConf flag: %s", line[0])
		}
	}

	return conf, nil
}

// Write saves the configuration in the format LoadAssembleConf reads.
func (conf *AssembleConf) Write(w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = ':'

	b2s := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	records := [][]string{
		{"MinOverlap", fmt.Sprintf("%d", conf.MinOverlap)},
		{"MaxEdges", fmt.Sprintf("%d", conf.MaxEdges)},
		{"AllowContainments", b2s(conf.AllowContainments)},
		{"MinLength", fmt.Sprintf("%d", conf.MinLength)},
		{"MaxDistance", fmt.Sprintf("%d", conf.MaxDistance)},
		{"SampleRate", fmt.Sprintf("%d", conf.SampleRate)},
	}
	for _, record := range records {
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
