package netlist_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"optical-bloch/internal/consts"
	"optical-bloch/pkg/netlist"
)

const ladder = `title three-level ladder
* probe drives 2<-1, control drives 3<-2
levels 0 100meg 300meg
field 1 2:1
field 2 3:2
dipole z 2 1 1.0
dipole z 3 2 2.5
`

func TestParseLadder(t *testing.T) {
	data, err := netlist.Parse(ladder)
	require.NoError(t, err)
	require.Equal(t, "three-level ladder", data.Title)

	m := data.Model
	require.Equal(t, 3, m.Ne())
	require.Equal(t, 2, m.Nl())

	// Level frequencies in Hz become angular frequencies.
	require.InDelta(t, 2*math.Pi*100e6, m.OmegaLevel[1], 1)
	require.InDelta(t, 2*math.Pi*300e6, m.OmegaLevel[2], 1)

	require.Equal(t, 1.0, m.Xi[0][1][0])
	require.Equal(t, 1.0, m.Xi[0][0][1])
	require.Equal(t, 0.0, m.Xi[0][2][1])
	require.Equal(t, 1.0, m.Xi[1][2][1])

	// Dipole values in Bohr radii become meters.
	require.InDelta(t, consts.BOHR, real(m.Rm[2][1][0]), 1e-22)
	require.InDelta(t, 2.5*consts.BOHR, real(m.Rm[2][2][1]), 1e-22)
	require.Equal(t, complex128(0), m.Rm[2][0][1])
}

func TestParseCommentsAndBlankLines(t *testing.T) {
	data, err := netlist.Parse("* header\n\nlevels 0 1k\nfield 1 2:1\n\n* trailing\ndipole x 2 1 1\n")
	require.NoError(t, err)
	require.Equal(t, 2, data.Model.Ne())
	require.InDelta(t, 2*math.Pi*1e3, data.Model.OmegaLevel[1], 1e-6)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no levels", "field 1 2:1\n"},
		{"no fields", "levels 0 1k\n"},
		{"unknown card", "levels 0 1k\nresistor r1 1 0 1k\n"},
		{"duplicate levels", "levels 0 1k\nlevels 0 2k\nfield 1 2:1\n"},
		{"bad pair order", "levels 0 1k\nfield 1 1:2\n"},
		{"pair out of range", "levels 0 1k\nfield 1 3:1\n"},
		{"field gap", "levels 0 1k\nfield 2 2:1\n"},
		{"duplicate field", "levels 0 1k\nfield 1 2:1\nfield 1 2:1\n"},
		{"bad dipole component", "levels 0 1k\nfield 1 2:1\ndipole q 2 1 1\n"},
		{"dipole above diagonal", "levels 0 1k\nfield 1 2:1\ndipole z 1 2 1\n"},
		{"dipole out of range", "levels 0 1k\nfield 1 2:1\ndipole z 3 1 1\n"},
		{"unsorted levels", "levels 1k 0\nfield 1 2:1\n"},
		{"bad value", "levels 0 abc\nfield 1 2:1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := netlist.Parse(tc.input)
			require.Error(t, err)
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"1.5k", 1500},
		{"2meg", 2e6},
		{"3G", 3e9},
		{"4T", 4e12},
		{"10m", 0.01},
		{"5u", 5e-6},
		{"7n", 7e-9},
		{"8p", 8e-12},
		{"9f", 9e-15},
		{"-2.5", -2.5},
		{"1e3", 1000},
		{"1.2e-6", 1.2e-6},
	}
	for _, tc := range tests {
		got, err := netlist.ParseValue(tc.in)
		require.NoError(t, err, tc.in)
		require.InDelta(t, tc.want, got, math.Abs(tc.want)*1e-12, tc.in)
	}

	_, err := netlist.ParseValue("abc")
	require.Error(t, err)
	_, err = netlist.ParseValue("1.2.3")
	require.Error(t, err)
}
