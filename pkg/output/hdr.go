package output

import (
	"fmt"
	"image"
	"log"
	"os"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/tmo"

	"github.com/abworrall/lensim/pkg/fattal02"
)

var (
	Tonemappers = []string{"drago03", "durand", "fattal02", "icam06", "linear", "reinhard05"}
)

// WriteHDR outputs a Radiance HDR image, for HDR tools to explore the
// full dynamic range of a composite.
func WriteHDR(img hdr.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("WriteHDR, open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		err := rgbe.Encode(writer, img)
		if err != nil {
			log.Printf("WriteHDR, encoding RGBE file: %v\n", err)
		}
		return err
	}
}

// Tonemapper looks up a tone mapping operator by name. Astronomical
// images are mostly black, so the defaults are nudged to keep the faint
// arcs visible.
func Tonemapper(name string, img hdr.Image) (tmo.ToneMappingOperator, error) {
	switch name {
	case "drago03":
		op := tmo.NewDefaultDrago03(img)
		op.Bias = 0.7
		return op, nil
	case "durand":
		return tmo.NewDefaultDurand(img), nil
	case "fattal02":
		op := fattal02.NewDefaultFattal02(img)
		if err := op.Validate(); err != nil {
			return nil, err
		}
		return op, nil
	case "icam06":
		op := tmo.NewDefaultICam06(img)
		op.MaxClipping = 0.999
		return op, nil
	case "linear":
		return tmo.NewLinear(img), nil
	case "reinhard05":
		op := tmo.NewDefaultReinhard05(img)
		op.Light = 0.5
		return op, nil
	}
	return nil, fmt.Errorf("tonemapper %q not recognized, wanted one of %v", name, Tonemappers)
}

func Tonemap(name string, img hdr.Image) (image.Image, error) {
	op, err := Tonemapper(name, img)
	if err != nil {
		return nil, err
	}
	return op.Perform(), nil
}
