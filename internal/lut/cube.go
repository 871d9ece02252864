// Package lut parses 3D color lookup tables and builds the color-transform
// filter expressions applied during transcoding.
package lut

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Cube table size bounds. Sizes outside this range are rejected.
const (
	MinCubeSize = 2
	MaxCubeSize = 128
)

// LutSpec is a parsed 3D lookup table. Samples holds exactly Size³ RGB
// triples in red-fastest order as read from the file.
type LutSpec struct {
	Title     string
	Size      int
	DomainMin [3]float64
	DomainMax [3]float64
	Samples   [][3]float64
}

// ParseCubeFile opens and parses a .cube file from disk.
func ParseCubeFile(path string) (*LutSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open LUT %q: %w", path, err)
	}
	defer f.Close()

	spec, err := ParseCube(f)
	if err != nil {
		return nil, fmt.Errorf("parse LUT %q: %w", path, err)
	}
	return spec, nil
}

// ParseCube parses the cube text format: an optional TITLE, a LUT_3D_SIZE
// declaration, optional DOMAIN_MIN/DOMAIN_MAX, and Size³ data rows of three
// floats. Comment lines (#) and blank lines are skipped anywhere.
func ParseCube(r io.Reader) (*LutSpec, error) {
	spec := &LutSpec{
		DomainMax: [3]float64{1, 1, 1},
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "TITLE":
			spec.Title = strings.Trim(strings.TrimPrefix(line, "TITLE"), ` "`)

		case "LUT_3D_SIZE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: malformed LUT_3D_SIZE", lineNo)
			}
			size, err := strconv.Atoi(fields[1])
			if err != nil || size < MinCubeSize || size > MaxCubeSize {
				return nil, fmt.Errorf("line %d: LUT size must be %d-%d, got %q",
					lineNo, MinCubeSize, MaxCubeSize, fields[1])
			}
			spec.Size = size

		case "LUT_1D_SIZE":
			return nil, fmt.Errorf("line %d: 1D LUTs are not supported", lineNo)

		case "DOMAIN_MIN":
			if err := parseTriple(fields, &spec.DomainMin); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}

		case "DOMAIN_MAX":
			if err := parseTriple(fields, &spec.DomainMax); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}

		default:
			var sample [3]float64
			if err := parseSample(fields, &sample); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			spec.Samples = append(spec.Samples, sample)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if spec.Size == 0 {
		return nil, fmt.Errorf("missing LUT_3D_SIZE declaration")
	}
	want := spec.Size * spec.Size * spec.Size
	if len(spec.Samples) != want {
		return nil, fmt.Errorf("sample count %d does not match size %d^3 = %d",
			len(spec.Samples), spec.Size, want)
	}
	return spec, nil
}

func parseTriple(fields []string, out *[3]float64) error {
	if len(fields) != 4 {
		return fmt.Errorf("%s needs three values", fields[0])
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return fmt.Errorf("bad %s value %q", fields[0], fields[i+1])
		}
		out[i] = v
	}
	return nil
}

func parseSample(fields []string, out *[3]float64) error {
	if len(fields) != 3 {
		return fmt.Errorf("unrecognized line %q", strings.Join(fields, " "))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("bad sample value %q", f)
		}
		out[i] = v
	}
	return nil
}
