package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"qugo/circuit"
	"qugo/sim"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

func main() {
	if err := rootCmd().Execute(); err != nil {
		logger.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	var (
		cfgPath string
		verbose bool
		cfg     Config
	)
	root := &cobra.Command{
		Use:           "qugo",
		Short:         "Trace, compile, and run quantum programs on a simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
			var err error
			cfg, err = loadConfig(cfgPath)
			return err
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(listCmd(), drawCmd(), qasmCmd(), runCmd(&cfg), tuiCmd(&cfg))
	return root
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in demo programs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, d := range demos {
				fmt.Fprintf(w, "%s  %s\n",
					titleStyle.Render(fmt.Sprintf("%-10s", d.name)),
					dimStyle.Render(d.blurb))
			}
		},
	}
}

func drawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draw <demo>",
		Short: "Compile a demo and draw its circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := demoCircuit(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), c.Draw())
			return nil
		},
	}
}

func qasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qasm <demo>",
		Short: "Compile a demo and export it as OPENQASM 2.0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := demoCircuit(args[0])
			if err != nil {
				return err
			}
			text, err := c.ToQASM()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func runCmd(cfg *Config) *cobra.Command {
	var (
		shots int
		seed  uint64
		par   int
	)
	cmd := &cobra.Command{
		Use:   "run <demo>",
		Short: "Execute a demo program and tally its outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := findDemo(args[0])
			if !ok {
				return fmt.Errorf("unknown demo %q, try: qugo list", args[0])
			}
			if !cmd.Flags().Changed("shots") && cfg.Shots > 0 {
				shots = cfg.Shots
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Seed
			}
			if !cmd.Flags().Changed("parallelism") {
				par = cfg.Parallelism
			}
			seed = effectiveSeed(seed)
			exec := sim.New(seed)
			logger.Debug("sampling", "demo", d.name, "shots", shots, "seed", seed)

			if shots == 1 {
				out, err := d.prog.Run(cmd.Context(), exec)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			counts, err := sim.Sample(cmd.Context(), d.prog, exec, shots, par)
			if err != nil {
				return err
			}
			printHistogram(cmd.OutOrStdout(), counts, shots)
			return nil
		},
	}
	cmd.Flags().IntVar(&shots, "shots", 1024, "number of shots to sample")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "simulator seed, 0 picks one at random")
	cmd.Flags().IntVar(&par, "parallelism", 0, "concurrent shots, 0 for one per CPU")
	return cmd
}

// effectiveSeed turns the 0 sentinel into a fresh random seed so repeated
// runs differ unless the user pins one.
func effectiveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return rand.Uint64()
}

// demoCircuit compiles a named demo against a fresh simulator and returns
// the circuit it built.
func demoCircuit(name string) (*circuit.Circuit, error) {
	d, ok := findDemo(name)
	if !ok {
		return nil, fmt.Errorf("unknown demo %q, try: qugo list", name)
	}
	return buildCircuit(d)
}

func buildCircuit(d demo) (*circuit.Circuit, error) {
	e, err := d.prog.Compile(sim.New(0))
	if err != nil {
		return nil, err
	}
	if e.Builder == nil {
		return nil, fmt.Errorf("%s reaches no measurements, nothing to build", d.name)
	}
	c := e.Builder.(*sim.Job).Circuit()
	logger.Debug("compiled", "demo", d.name, "qubits", c.NumQubits, "gates", c.NumGates(), "bits", c.NumBits)
	return c, nil
}

// printHistogram writes counts most frequent first, with a bar sized by
// each outcome's share of the shots.
func printHistogram(w io.Writer, counts map[string]int, shots int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})
	for _, k := range keys {
		n := counts[k]
		bar := strings.Repeat("█", max(n*40/shots, 1))
		fmt.Fprintf(w, "%6d  %-28s %s\n", n, k, accentStyle.Render(bar))
	}
}
