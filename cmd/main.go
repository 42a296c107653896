package main // import "obe"

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"optical-bloch/internal/consts"
	"optical-bloch/pkg/hamiltonian"
	"optical-bloch/pkg/netlist"
	"optical-bloch/pkg/phase"
	"optical-bloch/pkg/scan"
	"optical-bloch/pkg/util"
)

var (
	epFlag    = flag.String("ep", "", "comma-separated field amplitudes in V/m (empty leaves them free)")
	knobFlag  = flag.String("knob", "", "comma-separated detuning knobs in rad/s")
	scanFlag  = flag.String("scan", "", "detuning sweep start:stop:points, applied to every knob (rad/s)")
	builtinEx = flag.Bool("example", false, "use the built-in six-level two-field model instead of a file")
)

// builtinModel is a six-level ladder driven by two fields, with two
// degenerate pairs. Levels are in Hz; the parser converts to rad/s.
const builtinModel = `title six-level two-field ladder
levels 0 100meg 100meg 200meg 200meg 300meg
field 1 2:1 3:1
field 2 4:2 5:2 4:3 5:3 6:2 6:3
dipole z 2 1 1.0
dipole z 3 1 1.0
dipole z 4 2 1.0
dipole z 5 2 1.0
dipole z 4 3 1.0
dipole z 5 3 1.0
dipole z 6 2 1.0
dipole z 6 3 1.0
`

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := netlist.ParseValue(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func printMatrix(h *hamiltonian.Hamiltonian, args hamiltonian.Args) {
	m, err := h.Evaluate(args)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	fmt.Println("\nHamiltonian / (hbar 2 pi) in MHz:")
	for i := 0; i < h.Ne(); i++ {
		for j := 0; j < h.Ne(); j++ {
			fmt.Printf("  %s", util.FormatEnergyMHz(m.At(i, j), consts.HBAR))
		}
		fmt.Println()
	}
}

func runScan(h *hamiltonian.Hamiltonian, sweep string) {
	parts := strings.Split(sweep, ":")
	if len(parts) != 3 {
		log.Fatal("scan wants start:stop:points")
	}
	start, err := netlist.ParseValue(parts[0])
	if err != nil {
		log.Fatalf("Bad scan start: %v", err)
	}
	stop, err := netlist.ParseValue(parts[1])
	if err != nil {
		log.Fatalf("Bad scan stop: %v", err)
	}
	points, err := strconv.Atoi(parts[2])
	if err != nil {
		log.Fatalf("Bad scan points: %v", err)
	}

	starts := make([]float64, h.Nl())
	stops := make([]float64, h.Nl())
	for l := range starts {
		starts[l] = start
		stops[l] = stop
	}
	sc, err := scan.NewDetuning(h, starts, stops, points)
	if err != nil {
		log.Fatalf("Scan setup failed: %v", err)
	}
	res, err := sc.Execute()
	if err != nil {
		log.Fatalf("Scan execution failed: %v", err)
	}

	fmt.Printf("\nDetuning scan (%d points), eigenenergies in MHz:\n", points)
	for p := range res.Knobs {
		fmt.Printf("%-13s", util.FormatFrequency(res.Knobs[p][0]/(2*math.Pi)))
		for _, e := range res.Energies[p] {
			fmt.Printf("  %10.4f", util.AngularToMHz(e/consts.HBAR))
		}
		fmt.Println()
	}
}

func main() {
	flag.Parse()

	var content string
	switch {
	case *builtinEx:
		content = builtinModel
	case flag.NArg() == 1:
		raw, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("Error reading model file: %v", err)
		}
		content = string(raw)
	default:
		log.Fatal("Usage: obe [-ep a,b] [-knob a,b] [-scan start:stop:points] <model_file | -example>")
	}

	data, err := netlist.Parse(content)
	if err != nil {
		log.Fatalf("Error parsing model: %v", err)
	}
	m := data.Model
	if data.Title != "" {
		fmt.Printf("Model: %s\n", data.Title)
	}
	fmt.Printf("Levels: %d  Fields: %d\n", m.Ne(), m.Nl())

	theta, err := phase.Transform(m)
	if err != nil {
		log.Fatalf("Phase transformation failed: %v", err)
	}
	fmt.Println("\nRotating-frame phases:")
	for i, th := range theta {
		fmt.Printf("  theta_%d = %s\n", i+1, th)
	}

	ep, err := parseFloats(*epFlag)
	if err != nil {
		log.Fatalf("Bad -ep: %v", err)
	}
	knob, err := parseFloats(*knobFlag)
	if err != nil {
		log.Fatalf("Bad -knob: %v", err)
	}

	cfg := hamiltonian.Config{
		Rm:         m.Rm,
		OmegaLevel: m.OmegaLevel,
		Xi:         m.Xi,
		Theta:      theta,
	}
	if ep != nil {
		cfg.Ep = make([]complex128, len(ep))
		for i, v := range ep {
			cfg.Ep[i] = complex(v, 0)
		}
	}
	// Polarizations stay fixed along z for the CLI.
	cfg.Epsilonp = make([][3]complex128, m.Nl())
	for l := range cfg.Epsilonp {
		cfg.Epsilonp[l] = [3]complex128{0, 0, 1}
	}
	if *scanFlag == "" && knob != nil {
		cfg.DetuningKnob = knob
	}

	h, err := hamiltonian.New(cfg)
	if err != nil {
		log.Fatalf("Hamiltonian construction failed: %v", err)
	}

	fmt.Printf("\n%s", h.Code())

	if *scanFlag != "" {
		if cfg.Ep == nil {
			log.Fatal("scan needs fixed amplitudes; pass -ep")
		}
		runScan(h, *scanFlag)
		return
	}

	var args hamiltonian.Args
	sig := h.Signature()
	if sig.FreeEp {
		args.Ep = make([]complex128, m.Nl())
		for l := range args.Ep {
			args.Ep[l] = 1
		}
	}
	if sig.FreeDetuning {
		args.DetuningKnob = make([]float64, m.Nl())
	}
	printMatrix(h, args)
}
