package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abworrall/lensim/pkg/emath"
	"github.com/abworrall/lensim/pkg/output"
	"github.com/abworrall/lensim/pkg/psf"
)

func TestParseOverrides(t *testing.T) {
	o, err := parseOverrides([]string{"pixel_scale=0.1", "psf_type=NONE", "coadd_years=5"})
	if err != nil {
		t.Fatal(err)
	}
	if o["pixel_scale"] != 0.1 || o["psf_type"] != "NONE" || o["coadd_years"] != 5 {
		t.Errorf("overrides %v", o)
	}
	if _, err := parseOverrides([]string{"pixel_scale"}); err == nil {
		t.Error("missing value accepted")
	}
}

func TestParseParams(t *testing.T) {
	p, err := parseParams([]string{"amp=0.5", "freq=2"})
	if err != nil || p["amp"] != 0.5 || p["freq"] != 2 {
		t.Errorf("params %v, %v", p, err)
	}
	if _, err := parseParams([]string{"amp=big"}); err == nil {
		t.Error("non-numeric parameter accepted")
	}
}

func TestParseFloatsAndBands(t *testing.T) {
	f, err := parseFloats("0, 1.5,3")
	if err != nil || len(f) != 3 || f[1] != 1.5 {
		t.Errorf("floats %v, %v", f, err)
	}
	if b := splitBands("i, r,g,"); len(b) != 3 || b[1] != "r" {
		t.Errorf("bands %v", b)
	}
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	lensFile := "../../pkg/lens/testdata/sis.yaml"

	for name, args := range map[string][]string{
		"bands":       {"bands", "--all"},
		"band":        {"bands", "--observatory", "DES", "--band", "Y"},
		"simulate":    {"simulate", "--lens", lensFile, "--numpix", "32", "--seed", "1", "--out", filepath.Join(dir, "sim")},
		"sharp":       {"sharp", "--lens", lensFile, "--numpix", "32", "--out", filepath.Join(dir, "sharp")},
		"rgb":         {"rgb", "--lens", lensFile, "--numpix", "32", "--seed", "1", "--tonemapper", "linear", "--out", filepath.Join(dir, "rgb")},
		"props":       {"props", "--lens", lensFile, "--rows"},
		"pointsource": {"pointsource", "--lens", lensFile, "--numpix", "32", "--times", "0,10", "--out", filepath.Join(dir, "ps")},
		"montage":     {"montage", lensFile, lensFile, "--sharp", "--numpix", "24", "--cell", "48", "--out", filepath.Join(dir, "m")},
	} {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	for _, f := range []string{"sim.fits", "sim.png", "sharp.tiff", "rgb.png", "rgb.hdr", "rgb-tmo-linear.png", "ps-image0.fits", "m-montage.png"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"simulate"})
	if err := cmd.Execute(); err == nil {
		t.Error("simulate without a lens succeeded")
	}
}

func TestKernelFiles(t *testing.T) {
	dir := t.TempDir()
	lensFile := "../../pkg/lens/testdata/sis.yaml"

	p, err := psf.NewGaussian(0.7, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	kernelFile := filepath.Join(dir, "kernel.fits")
	if err := output.WriteFITS(kernelFile, []emath.FloatGrid{p.Kernel}); err != nil {
		t.Fatal(err)
	}

	for name, args := range map[string][]string{
		"shared psf":    {"pointsource", "--lens", lensFile, "--numpix", "32", "--psf", kernelFile, "--out", filepath.Join(dir, "shared")},
		"psf per image": {"pointsource", "--lens", lensFile, "--numpix", "32", "--psf", kernelFile, "--psf", kernelFile, "--times", "0,5", "--out", filepath.Join(dir, "each")},
		"pixel psf":     {"simulate", "--lens", lensFile, "--numpix", "32", "--seed", "1", "--set", "psf_type=PIXEL", "--kernel", kernelFile, "--out", filepath.Join(dir, "pixel")},
	} {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	for _, f := range []string{"shared-image0.fits", "shared-image1.fits", "each-image1.fits", "pixel.fits"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}

	stamps, err := output.ReadFITS(filepath.Join(dir, "each-image1.fits"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stamps) != 2 || stamps[0].Dx() != 32 {
		t.Errorf("read back %d stamps", len(stamps))
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"pointsource", "--lens", lensFile, "--psf", kernelFile, "--psf", kernelFile, "--psf", kernelFile, "--out", filepath.Join(dir, "bad")})
	if err := cmd.Execute(); err == nil {
		t.Error("three kernels for two images accepted")
	}
}
