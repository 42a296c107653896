package util

import (
	"fmt"
	"math"
	"math/cmplx"
)

func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

func FormatFrequency(freq float64) string {
	abs := math.Abs(freq)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%7.3f GHz", freq/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%7.3f MHz", freq/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%7.3f kHz", freq/1e3)
	default:
		return fmt.Sprintf("%7.3f Hz ", freq)
	}
}

// AngularToMHz converts an angular frequency in rad/s to MHz.
func AngularToMHz(omega float64) float64 {
	return omega / (2 * math.Pi) / 1e6
}

// FormatEnergyMHz renders a Hamiltonian entry (in J) as a frequency in MHz.
func FormatEnergyMHz(energy complex128, hbar float64) string {
	omega := energy / complex(hbar, 0)
	re := AngularToMHz(real(omega))
	im := AngularToMHz(imag(omega))
	if im == 0 {
		return fmt.Sprintf("%12.6f", re)
	}
	return fmt.Sprintf("%12.6f%+.6fi", re, im)
}

func FormatMagnitudePhase(name string, value complex128) string {
	mag := cmplx.Abs(value)
	phase := cmplx.Phase(value) * 180 / math.Pi
	var magStr string
	if mag >= 1000 || (mag < 0.001 && mag != 0) {
		magStr = fmt.Sprintf("%8.2e", mag)
	} else {
		magStr = fmt.Sprintf("%8.3g", mag)
	}
	return fmt.Sprintf("%s=%s<%6.1fdeg", name, magStr, phase)
}

func FormatMagnitude(value float64) string {
	if value >= 1000 || (value < 0.001 && value != 0) {
		return fmt.Sprintf("%8.2e", value)
	}
	return fmt.Sprintf("%8.3g", value)
}
