package ecolor

// LSSTToSDSS converts LSST u,g,r,i,z magnitudes to SDSS magnitudes, with
// quadratic colour terms. Only valid for red galaxies.
func LSSTToSDSS(u, g, r, i, z float64) [5]float64 {
	ug, gr, ri, iz := u-g, g-r, r-i, i-z
	return [5]float64{
		u - 0.014285 + 0.191787*ug - 0.062736*ug*ug,
		g + 0.008059 + 0.029470*gr + 0.031589*gr*gr,
		r - 0.001168 + 0.017418*ri + 0.021144*ri*ri,
		i - 0.000026 + 0.044532*iz - 0.013802*iz*iz,
		z - 0.030518 - 0.206242*iz + 0.084968*iz*iz,
	}
}
