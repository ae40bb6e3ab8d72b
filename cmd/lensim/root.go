package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/lensim/pkg/lens"
	"github.com/abworrall/lensim/pkg/output"
	"github.com/abworrall/lensim/pkg/simulation"
)

// Flags shared by most subcommands
type commonFlags struct {
	verbosity   int
	lensFile    string
	band        string
	numPix      int
	observatory string
	noNoise     bool
	seed        uint64
	overrides   []string
	kernelFile  string
	out         string
}

func newRootCmd() *cobra.Command {
	var cf commonFlags

	cmd := &cobra.Command{
		Use:          "lensim",
		Short:        "lensim - simulated images of strongly lensed galaxies and quasars",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().IntVarP(&cf.verbosity, "verbosity", "v", 0, "how verbose to get")
	cmd.PersistentFlags().StringVarP(&cf.lensFile, "lens", "l", "", "lens description (yaml)")
	cmd.PersistentFlags().StringVarP(&cf.band, "band", "b", "i", "imaging band")
	cmd.PersistentFlags().IntVarP(&cf.numPix, "numpix", "n", 64, "pixels per side of the image")
	cmd.PersistentFlags().StringVar(&cf.observatory, "observatory", "LSST", "observatory: LSST, DES or Euclid")
	cmd.PersistentFlags().BoolVar(&cf.noNoise, "nonoise", false, "leave out instrument noise")
	cmd.PersistentFlags().Uint64Var(&cf.seed, "seed", 0, "noise seed (0 means seed from the clock)")
	cmd.PersistentFlags().StringArrayVar(&cf.overrides, "set", nil, "band setting override, key=value (repeatable)")
	cmd.PersistentFlags().StringVar(&cf.kernelFile, "kernel", "", "PSF kernel (fits), for --set psf_type=PIXEL")
	cmd.PersistentFlags().StringVarP(&cf.out, "out", "o", "lensim", "output filename stem")

	cmd.AddCommand(
		bandsCmd(&cf),
		simulateCmd(&cf),
		sharpCmd(&cf),
		rgbCmd(&cf),
		propsCmd(&cf),
		pointSourceCmd(&cf),
		montageCmd(&cf),
	)
	return cmd
}

func (cf *commonFlags) loadLens() (*lens.GalaxyGalaxyLens, error) {
	if cf.lensFile == "" {
		return nil, fmt.Errorf("no lens given, use --lens")
	}
	gg, err := lens.Load(cf.lensFile)
	if err != nil {
		return nil, err
	}
	if cf.verbosity > 0 {
		log.Printf("Loaded %s", gg)
	}
	return gg, nil
}

// config builds the simulation config from the flags.
func (cf *commonFlags) config() (simulation.Config, error) {
	cfg := simulation.DefaultConfig()
	cfg.Verbosity = cf.verbosity
	cfg.Observatory = cf.observatory
	cfg.AddNoise = !cf.noNoise
	cfg.NoiseSeed = cf.seed

	overrides, err := parseOverrides(cf.overrides)
	if err != nil {
		return cfg, err
	}
	cfg.Overrides = overrides

	if cf.kernelFile != "" {
		k, err := output.ReadKernel(cf.kernelFile)
		if err != nil {
			return cfg, err
		}
		cfg.Kernel = k
	}

	if cf.verbosity > 0 {
		log.Printf("Configuration:-\n\n%s\n", cfg.AsYaml())
	}
	return cfg, nil
}

// parseOverrides turns key=value pairs into a map; the values are parsed
// as yaml scalars, so numbers come through as numbers.
func parseOverrides(pairs []string) (map[string]interface{}, error) {
	overrides := map[string]interface{}{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("override '%s' is not key=value", pair)
		}
		var val interface{}
		if err := yaml.Unmarshal([]byte(v), &val); err != nil {
			return nil, fmt.Errorf("override '%s': %v", pair, err)
		}
		overrides[k] = val
	}
	return overrides, nil
}

// parseParams turns key=value pairs into numeric parameters.
func parseParams(pairs []string) (map[string]float64, error) {
	params := map[string]float64{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("parameter '%s' is not key=value", pair)
		}
		var f float64
		if err := yaml.Unmarshal([]byte(v), &f); err != nil {
			return nil, fmt.Errorf("parameter '%s': %v", pair, err)
		}
		params[k] = f
	}
	return params, nil
}

func splitBands(s string) []string {
	bands := []string{}
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			bands = append(bands, b)
		}
	}
	return bands
}
