package main

import (
	"fmt"
	"image"
	"log"

	"github.com/spf13/cobra"

	"github.com/abworrall/lensim/pkg/ecolor"
	"github.com/abworrall/lensim/pkg/output"
	"github.com/abworrall/lensim/pkg/simulation"
)

type rgbFlags struct {
	bands      string
	sharp      bool
	zp         float64
	deltaPix   float64
	lupton     ecolor.LuptonParams
	tonemapper string
	scale      int
}

func (rf *rgbFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&rf.bands, "bands", "i,r,g", "three bands, for red, green and blue")
	c.Flags().BoolVar(&rf.sharp, "sharp", false, "composite sharp images (no PSF or noise)")
	c.Flags().Float64Var(&rf.zp, "zp", 27, "magnitude zero point, for --sharp")
	c.Flags().Float64Var(&rf.deltaPix, "deltapix", 0.05, "pixel scale in arcsec, for --sharp")
	c.Flags().Float64Var(&rf.lupton.Minimum, "minimum", 0, "lupton black level")
	c.Flags().Float64Var(&rf.lupton.Stretch, "stretch", ecolor.DefaultStretch, "lupton stretch")
	c.Flags().Float64Var(&rf.lupton.Q, "Q", ecolor.DefaultQ, "lupton asinh softening")
	c.Flags().IntVar(&rf.scale, "scale", 4, "upscaling factor for the png")
}

// composite makes the rgb image of one lens, in grid orientation.
func (rf *rgbFlags) composite(cf *commonFlags, sys simulation.LensSystem) (*image.RGBA, error) {
	bands := splitBands(rf.bands)
	if rf.sharp {
		return simulation.SharpRGBImage(sys, bands, rf.zp, rf.deltaPix, cf.numPix)
	}
	cfg, err := cf.config()
	if err != nil {
		return nil, err
	}
	return simulation.RGBImage(sys, bands, cf.numPix, cfg, rf.lupton)
}

func rgbCmd(cf *commonFlags) *cobra.Command {
	var rf rgbFlags

	c := &cobra.Command{
		Use:   "rgb",
		Short: "Make a colour composite of the lens from three bands",
		RunE: func(_ *cobra.Command, _ []string) error {
			gg, err := cf.loadLens()
			if err != nil {
				return err
			}
			img, err := rf.composite(cf, gg)
			if err != nil {
				return err
			}
			if err := output.WriteSkyPNG(img, rf.scale, cf.out+".png"); err != nil {
				return err
			}
			log.Printf("Wrote %s.png", cf.out)

			if rf.tonemapper != "" {
				return writeHDR(cf, gg, rf)
			}
			return nil
		},
	}

	rf.register(c)
	c.Flags().StringVar(&rf.tonemapper, "tonemapper", "", fmt.Sprintf("also write linear HDR and a tonemapped png: %v, or all", output.Tonemappers))
	return c
}

// writeHDR keeps the full dynamic range of the three bands, as Radiance
// HDR, and tonemaps it.
func writeHDR(cf *commonFlags, sys simulation.LensSystem, rf rgbFlags) error {
	cfg, err := cf.config()
	if err != nil {
		return err
	}
	images, err := simulation.SimulateBands(sys, splitBands(rf.bands), cf.numPix, cfg)
	if err != nil {
		return err
	}
	fr, err := ecolor.NewFloatRGB(images[0], images[1], images[2])
	if err != nil {
		return err
	}
	fr = fr.NorthUp()
	if err := output.WriteHDR(fr, cf.out+".hdr"); err != nil {
		return err
	}
	if err := output.WritePNG(output.Upscale(fr.Preview(), rf.scale), cf.out+"-linear.png"); err != nil {
		return err
	}

	names := []string{rf.tonemapper}
	if rf.tonemapper == "all" {
		names = output.Tonemappers
	}
	for _, name := range names {
		log.Printf("Tonemapping: %s", name)
		img, err := output.Tonemap(name, fr)
		if err != nil {
			return err
		}
		if err := output.WritePNG(output.Upscale(img, rf.scale), fmt.Sprintf("%s-tmo-%s.png", cf.out, name)); err != nil {
			return err
		}
	}
	return nil
}

func montageCmd(cf *commonFlags) *cobra.Command {
	var rf rgbFlags
	var cols, cell int

	c := &cobra.Command{
		Use:   "montage lens.yaml...",
		Short: "Tile colour composites of many lenses into one image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tiles := []image.Image{}
			for _, file := range args {
				cf.lensFile = file
				gg, err := cf.loadLens()
				if err != nil {
					return err
				}
				img, err := rf.composite(cf, gg)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				tiles = append(tiles, output.NorthUp(img))
			}

			m, err := output.Montage(tiles, cols, cell, 4)
			if err != nil {
				return err
			}
			if err := output.WritePNG(m, cf.out+"-montage.png"); err != nil {
				return err
			}
			log.Printf("Wrote %d lenses to %s-montage.png", len(tiles), cf.out)
			return nil
		},
	}

	rf.register(c)
	c.Flags().IntVar(&cols, "cols", 4, "tiles per row")
	c.Flags().IntVar(&cell, "cell", 256, "tile size in pixels")
	return c
}
