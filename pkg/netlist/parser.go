// Package netlist parses a line-oriented description of an atomic model
// into the arrays the Hamiltonian assembler consumes. The format is a small
// card deck:
//
//	* rubidium-like ladder (comment)
//	levels 0 100meg 100meg 200meg 200meg 300meg
//	field 1 2:1 3:1
//	field 2 4:1 5:1 6:1
//	dipole z 2 1 1.0
//
// Level values are transition frequencies in Hz (SI suffixes allowed) and
// are stored as angular frequencies. Field cards list the one-based
// upper:lower level pairs the field drives. Dipole cards give one cartesian
// component of the position operator below the diagonal, in Bohr radii.
package netlist

import (
	"bufio"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"optical-bloch/internal/consts"
	"optical-bloch/pkg/atom"
)

// Data is one parsed model description.
type Data struct {
	Title string
	Model *atom.Model
}

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var componentIndex = map[string]int{"x": 0, "y": 1, "z": 2}

func Parse(input string) (*Data, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	data := &Data{}

	var levels []float64
	fieldPairs := map[int][][2]int{}
	type dipole struct {
		p, i, j int
		value   float64
	}
	var dipoles []dipole
	maxField := 0

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		fields := strings.Fields(line)
		card := strings.ToLower(fields[0])
		switch card {
		case "title":
			data.Title = strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

		case "levels":
			if levels != nil {
				return nil, fmt.Errorf("line %d: duplicate levels card", lineNo)
			}
			for _, f := range fields[1:] {
				v, err := ParseValue(f)
				if err != nil {
					return nil, fmt.Errorf("line %d: %v", lineNo, err)
				}
				levels = append(levels, 2*math.Pi*v)
			}
			if len(levels) == 0 {
				return nil, fmt.Errorf("line %d: levels card without values", lineNo)
			}

		case "field":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: field card needs an index and pairs", lineNo)
			}
			l, err := strconv.Atoi(fields[1])
			if err != nil || l < 1 {
				return nil, fmt.Errorf("line %d: bad field index %q", lineNo, fields[1])
			}
			if _, dup := fieldPairs[l-1]; dup {
				return nil, fmt.Errorf("line %d: duplicate field %d", lineNo, l)
			}
			if l > maxField {
				maxField = l
			}
			var pairs [][2]int
			for _, f := range fields[2:] {
				upper, lower, err := parsePair(f)
				if err != nil {
					return nil, fmt.Errorf("line %d: %v", lineNo, err)
				}
				pairs = append(pairs, [2]int{upper, lower})
			}
			fieldPairs[l-1] = pairs

		case "dipole":
			if len(fields) != 5 {
				return nil, fmt.Errorf("line %d: dipole card needs component, levels and value", lineNo)
			}
			p, ok := componentIndex[strings.ToLower(fields[1])]
			if !ok {
				return nil, fmt.Errorf("line %d: bad dipole component %q", lineNo, fields[1])
			}
			i, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad level index %q", lineNo, fields[2])
			}
			j, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad level index %q", lineNo, fields[3])
			}
			if i <= j || j < 1 {
				return nil, fmt.Errorf("line %d: dipole levels must satisfy upper > lower >= 1", lineNo)
			}
			v, err := ParseValue(fields[4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNo, err)
			}
			dipoles = append(dipoles, dipole{p: p, i: i - 1, j: j - 1, value: v * consts.BOHR})

		default:
			return nil, fmt.Errorf("line %d: unknown card %q", lineNo, fields[0])
		}
	}

	if levels == nil {
		return nil, fmt.Errorf("model has no levels card")
	}
	ne := len(levels)
	if maxField == 0 {
		return nil, fmt.Errorf("model has no field card")
	}

	pairLists := make([][][2]int, maxField)
	for l := 0; l < maxField; l++ {
		pairs, ok := fieldPairs[l]
		if !ok {
			return nil, fmt.Errorf("field %d missing (fields must be numbered 1..%d)", l+1, maxField)
		}
		for _, p := range pairs {
			if p[0] > ne || p[1] < 1 {
				return nil, fmt.Errorf("field %d pair %d:%d outside 1..%d", l+1, p[0], p[1], ne)
			}
		}
		for i := range pairs {
			pairs[i][0]--
			pairs[i][1]--
		}
		pairLists[l] = pairs
	}

	rm := make([][][]complex128, 3)
	for p := range rm {
		rm[p] = make([][]complex128, ne)
		for i := range rm[p] {
			rm[p][i] = make([]complex128, ne)
		}
	}
	for _, d := range dipoles {
		if d.i >= ne {
			return nil, fmt.Errorf("dipole level %d outside 1..%d", d.i+1, ne)
		}
		rm[d.p][d.i][d.j] = complex(d.value, 0)
	}

	data.Model = &atom.Model{
		OmegaLevel: levels,
		Xi:         atom.NewXi(maxField, ne, pairLists),
		Rm:         rm,
	}
	if err := data.Model.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}

func parsePair(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad pair %q, want upper:lower", s)
	}
	upper, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad pair %q: %v", s, err)
	}
	lower, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad pair %q: %v", s, err)
	}
	if upper <= lower {
		return 0, 0, fmt.Errorf("bad pair %q: upper must exceed lower", s)
	}
	return upper, lower, nil
}

var valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGKkmunpf])?$`)

// ParseValue parses a number with an optional SI suffix.
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	if matches[2] != "" {
		if multiplier, ok := unitMap[matches[2]]; ok {
			num *= multiplier
		}
	}

	return num, nil
}
