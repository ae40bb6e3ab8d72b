package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/abworrall/lensim/pkg/emath"
	"github.com/abworrall/lensim/pkg/output"
	"github.com/abworrall/lensim/pkg/simulation"
)

func simulateCmd(cf *commonFlags) *cobra.Command {
	var scale int

	c := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate an observation of the lens in one band",
		RunE: func(_ *cobra.Command, _ []string) error {
			gg, err := cf.loadLens()
			if err != nil {
				return err
			}
			cfg, err := cf.config()
			if err != nil {
				return err
			}

			img, err := simulation.SimulateImage(gg, cf.band, cf.numPix, cfg)
			if err != nil {
				return err
			}
			log.Printf("%s/%s: %s", cfg.Observatory, cf.band, output.GridStats(img))

			return writeGrid(img, cf.out, scale,
				output.Card("OBSERVAT", cfg.Observatory, "observatory"),
				output.Card("FILTER", cf.band, "band"),
				output.Card("BUNIT", "counts/s", "pixel units"))
		},
	}

	c.Flags().IntVar(&scale, "scale", 4, "upscaling factor for the png preview")
	return c
}

func sharpCmd(cf *commonFlags) *cobra.Command {
	var zp, deltaPix float64
	var noDeflector bool
	var scale int

	c := &cobra.Command{
		Use:   "sharp",
		Short: "Render the lens without PSF or noise, at any pixel scale",
		RunE: func(_ *cobra.Command, _ []string) error {
			gg, err := cf.loadLens()
			if err != nil {
				return err
			}
			img, err := simulation.SharpImage(gg, cf.band, zp, deltaPix, cf.numPix, !noDeflector)
			if err != nil {
				return err
			}
			if cf.verbosity > 0 {
				log.Printf("sharp %s: %s", cf.band, output.GridStats(img))
			}
			if err := output.WriteTIFF(img, cf.out+".tiff"); err != nil {
				return err
			}
			return writeGrid(img, cf.out, scale,
				output.Card("FILTER", cf.band, "band"),
				output.Card("MAGZP", zp, "magnitude zero point"),
				output.Card("PIXSCALE", deltaPix, "arcsec per pixel"))
		},
	}

	c.Flags().Float64Var(&zp, "zp", 27, "magnitude zero point")
	c.Flags().Float64Var(&deltaPix, "deltapix", 0.05, "pixel scale, arcsec")
	c.Flags().BoolVar(&noDeflector, "nodeflector", false, "leave out the deflector's light")
	c.Flags().IntVar(&scale, "scale", 1, "upscaling factor for the png preview")
	return c
}

// writeGrid writes the grid as FITS, plus a north-up grayscale png preview.
func writeGrid(img emath.FloatGrid, stem string, scale int, cards ...output.FITSCard) error {
	if err := output.WriteFITS(stem+".fits", []emath.FloatGrid{img}, cards...); err != nil {
		return err
	}
	if err := output.WriteSkyPNG(output.Gray(img), scale, stem+".png"); err != nil {
		return err
	}
	log.Printf("Wrote %s.fits, %s.png", stem, stem)
	return nil
}
