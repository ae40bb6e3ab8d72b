package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abworrall/lensim/pkg/band"
)

func bandsCmd(cf *commonFlags) *cobra.Command {
	var all bool

	c := &cobra.Command{
		Use:   "bands",
		Short: "List the observatories and bands, or show one band's settings",
		RunE: func(_ *cobra.Command, _ []string) error {
			if !all {
				overrides, err := parseOverrides(cf.overrides)
				if err != nil {
					return err
				}
				s, err := band.Lookup(cf.observatory, cf.band, overrides)
				if err != nil {
					return err
				}
				fmt.Print(s.AsYaml())
				fmt.Printf("total_exposure_time: %g\nbackground_sigma: %g\n", s.TotalExposureTime(), s.BackgroundSigma())
				return nil
			}

			for _, obs := range band.Observatories() {
				fmt.Printf("%s: %v\n", obs, band.Bands(obs))
			}
			return nil
		},
	}

	c.Flags().BoolVar(&all, "all", false, "list every observatory and band")
	return c
}
