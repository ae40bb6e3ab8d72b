package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/lensim/pkg/emath"
	"github.com/abworrall/lensim/pkg/output"
	"github.com/abworrall/lensim/pkg/psf"
	"github.com/abworrall/lensim/pkg/simulation"
	"github.com/abworrall/lensim/pkg/variability"
)

type pointSourceFlags struct {
	zp       float64
	deltaPix float64
}

func (pf *pointSourceFlags) register(c *cobra.Command) {
	c.Flags().Float64Var(&pf.zp, "zp", 27.79, "magnitude zero point")
	c.Flags().Float64Var(&pf.deltaPix, "deltapix", 0.2, "pixel scale, arcsec")
}

func propsCmd(cf *commonFlags) *cobra.Command {
	var pf pointSourceFlags
	var rows bool

	c := &cobra.Command{
		Use:   "props",
		Short: "Show where the deflector and point source images land on the pixel grid",
		RunE: func(_ *cobra.Command, _ []string) error {
			gg, err := cf.loadLens()
			if err != nil {
				return err
			}
			props, err := simulation.PointSourceImageProperties(gg, cf.band, pf.zp, pf.deltaPix, cf.numPix)
			if err != nil {
				return err
			}

			var v interface{} = props
			if rows {
				v = props.Rows()
			}
			b, err := yaml.Marshal(v)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(b)
			return err
		},
	}

	pf.register(c)
	c.Flags().BoolVar(&rows, "rows", false, "one row per image, instead of one record")
	return c
}

func pointSourceCmd(cf *commonFlags) *cobra.Command {
	var pf pointSourceFlags
	var kernels []string
	var seeing float64
	var times, unit, model string
	var params []string

	c := &cobra.Command{
		Use:   "pointsource",
		Short: "Render each point source image with its own PSF, optionally at many epochs",
		RunE: func(_ *cobra.Command, _ []string) error {
			gg, err := cf.loadLens()
			if err != nil {
				return err
			}
			ra, _ := gg.ImagePositions()

			ks, err := loadKernels(kernels, len(ra), seeing, pf.deltaPix)
			if err != nil {
				return err
			}

			var v *variability.Spec
			if times != "" {
				vals, err := parseFloats(times)
				if err != nil {
					return err
				}
				p, err := parseParams(params)
				if err != nil {
					return err
				}
				v = &variability.Spec{Times: variability.Times{Values: vals, Unit: unit}, Model: model, Params: p}
			}

			stamps, err := simulation.PointSourceImage(gg, cf.band, pf.zp, pf.deltaPix, cf.numPix, ks, v)
			if err != nil {
				return err
			}
			for i, epochs := range stamps {
				file := fmt.Sprintf("%s-image%d.fits", cf.out, i)
				err := output.WriteFITS(file, epochs,
					output.Card("FILTER", cf.band, "band"),
					output.Card("IMAGE", i, "point source image, in order of arrival"),
					output.Card("BUNIT", "counts/s", "pixel units"))
				if err != nil {
					return err
				}
				log.Printf("Wrote %s (%d epochs)", file, len(epochs))
			}
			return nil
		},
	}

	pf.register(c)
	c.Flags().StringArrayVar(&kernels, "psf", nil, "PSF kernel (fits) per image, in order (repeatable); one kernel is shared")
	c.Flags().Float64Var(&seeing, "seeing", 0.7, "gaussian PSF FWHM in arcsec, if no --psf given")
	c.Flags().StringVar(&times, "times", "", "observation times, comma separated; turns on variability")
	c.Flags().StringVar(&unit, "unit", "day", "unit of --times")
	c.Flags().StringVar(&model, "model", "sinusoidal", "variability model: "+strings.Join(variability.Models(), ", "))
	c.Flags().StringArrayVar(&params, "param", []string{"amp=1", "freq=0.1"}, "variability parameter, key=value (repeatable)")
	return c
}

func loadKernels(files []string, n int, seeing, deltaPix float64) ([]emath.FloatGrid, error) {
	ks := []emath.FloatGrid{}
	switch {
	case len(files) == 0:
		p, err := psf.NewGaussian(seeing, deltaPix)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			ks = append(ks, p.Kernel)
		}
	case len(files) == 1:
		k, err := output.ReadKernel(files[0])
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			ks = append(ks, k)
		}
	default:
		for _, f := range files {
			k, err := output.ReadKernel(f)
			if err != nil {
				return nil, err
			}
			ks = append(ks, k)
		}
	}
	return ks, nil
}

func parseFloats(s string) ([]float64, error) {
	out := []float64{}
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number '%s': %v", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
