package assembler

import "fmt"

const (
	// DensityScale converts the native m^-3 densities to cm^-3.
	DensityScale = 1e-6

	unitsDensity = "cm^-3"
	unitsKelvin  = "K"
	unitsKM      = "km"
	unitsDegrees = "degrees"
	unitsHours   = "hours"
)

type channel struct {
	name     string
	row      int
	longName string
}

var densityChannels = []channel{
	{"Ne", 0, "Electron Density"},
	{"O+", 4, "Oxygen Ion Density"},
	{"H+", 5, "Hydrogen Ion Density"},
	{"He+", 6, "Helium Ion Density"},
	{"O2+", 7, "Oxygen Molecular Ion Density"},
	{"NO+", 8, "Nitric Oxide Ion Density"},
	{"Cluster", 9, "Cluster Ion Density"},
	{"N+", 10, "Nitrogen Ion Density"},
}

var temperatureChannels = []channel{
	{"Tn", 1, "Neutral Temperature"},
	{"Te", 3, "Electron Temperature"},
	{"Ti", 2, "Ion Temperature"},
}

// scalarDef maps one override slot to a named quantity.
type scalarDef struct {
	slot        int
	name        string
	scale       float64
	units       string
	longName    string
	description string
}

func attr(slot int, name, units, longName, description string) scalarDef {
	return scalarDef{slot: slot, name: name, scale: 1, units: units, longName: longName, description: description}
}

func density(slot int, name, longName, description string) scalarDef {
	return scalarDef{slot: slot, name: name, scale: DensityScale, units: unitsDensity, longName: longName, description: description}
}

var scalarTable = buildScalarTable()

// unmappedTable lists slots the native model fills but nothing assigns a
// meaning to yet.
var unmappedTable = []scalarDef{
	attr(36, "TEC", "m^-2", "Total Electron Content", "Total electron content along a vertical column through the ionosphere"),
	attr(37, "TEC_top", "m^-2", "Total Electron Content top of ionosphere", ""),
}

func buildScalarTable() []scalarDef {
	t := []scalarDef{
		density(0, "nmF2", "F2 Peak Density", "F2 layer peak electron density"),
		attr(1, "hmF2", unitsKM, "F2 Peak Height", "F2 layer peak height"),
		density(2, "nmF1", "F1 Peak Density", "F1 layer peak electron density"),
		attr(3, "hmF1", unitsKM, "F1 Peak Height", "F1 layer peak height"),
		density(4, "nmE", "E Layer Peak Density", "E layer peak electron density"),
		attr(5, "hmE", unitsKM, "E Layer Peak Height", "E layer peak height"),
		density(6, "nmD", "D Layer inflection point density", ""),
		attr(7, "hmD", unitsKM, "D-region inflection point", ""),
		attr(8, "hhalf", unitsKM, "Half Height", "Height used by Gulyaeva B0 model"),
		attr(9, "B0", unitsKM, "B0", "Bottomside thickness parameter"),
		density(10, "valley_base", "Density at E-valley base", ""),
		attr(11, "valley_top", unitsKM, "Height of E-valley top", ""),
		attr(12, "Te-Peak", unitsKelvin, "Te Peak", ""),
		attr(13, "hTe-Peak", unitsKM, "hTe Peak", "Peak Te altitude"),
	}
	for i, alt := range []int{300, 400, 600, 1400, 3000} {
		t = append(t, attr(14+i, fmt.Sprintf("Te-MOD(%dkm)", alt), unitsKelvin,
			fmt.Sprintf("Te MOD(%dkm)", alt),
			fmt.Sprintf("Electron temperature at %d km altitude", alt)))
	}
	t = append(t,
		attr(19, "Te-MOD(120km)", unitsKelvin, "Te MOD(120km)", "Electron temperature at 120 km altitude, Te = Ti = Tn"),
		attr(20, "Ti-MOD(430km)", unitsKelvin, "Ti MOD(430km)", "Ion temperature at 430 km altitude"),
		attr(21, "Ti-Te-Eq", unitsKM, "Ti-Te-Eq", "Height at which ion and electron temperatures are at equilibrium"),
		attr(22, "sza", unitsDegrees, "Solar Zenith Angle", "Solar zenith angle at the specified location and time"),
		attr(23, "sun_dec", unitsDegrees, "Solar Declination", "Solar declination angle at the specified time"),
		attr(24, "dip", unitsDegrees, "Magnetic Dip Angle", "Magnetic dip angle at the specified location"),
		attr(25, "dip-lat", unitsDegrees, "Magnetic Dip Latitude", "Magnetic dip latitude"),
		attr(26, "dip-lat-mod", unitsDegrees, "Magnetic Dip Latitude (Modified)", "Modified magnetic dip latitude"),
		attr(27, "lat", unitsDegrees, "Latitude", "Geographic Latitude"),
		attr(28, "sunrise", unitsHours, "Sunrise Time", "Local time of sunrise"),
		attr(29, "sunset", unitsHours, "Sunset Time", "Local time of sunset"),
		attr(30, "season", "", "Season", "Season indicator: 1=Spring, 2=Summer, 3=Fall, 4=Winter"),
		attr(31, "lon", unitsDegrees, "Longitude", "Geographic Longitude"),
		attr(32, "RZ12", "", "RZ12 Solar Index", "12-month running average of the solar radio flux at 10.7 cm"),
		attr(33, "cov", "", "Covington Index", ""),
		attr(34, "B1", "", "B1", "Bottomside shape parameter"),
		attr(35, "M(3000)F2", "MHz", "M(3000)F2", "Maximum usable frequency for a 3000 km path in the F2 layer"),
		attr(38, "IG12", "", "IG12 Solar Index", "12-month running average of the IG12 solar index"),
		attr(39, "F1_prob", "", "F1 Layer Probability", "Probability of occurrence of the F1 layer"),
		attr(40, "F10.7", "sfu", "F10.7 Solar Flux", "Daily solar radio flux at 10.7 cm wavelength"),
		attr(41, "c1", "", "c1 Coefficient", "Coefficient c1 used in F1 shape calculation"),
		attr(42, "daynr", "", "Day Numeric", "Day number within the year (1-365/366)"),
		attr(43, "vert_ion_drift", "m/s", "Equatorial Vertical Ion Drift", "Vertical ion drift velocity"),
		attr(44, "foF2_rat", "", "Storm foF2 / Quiet foF2", "Ratio of the F2 layer critical frequency during storm conditions to quiet conditions"),
		attr(45, "F10.7_81", "sfu", "81-day Averaged F10.7 Solar Flux", "81-day averaged solar radio flux at 10.7 cm wavelength"),
		attr(46, "foE_rat", "", "Storm foE / Quiet foE", "Ratio of the E layer critical frequency during storm conditions to quiet conditions"),
		attr(47, "spread_f_prob", "", "Spread F Probability", "Probability of occurrence of spread F conditions"),
		attr(48, "geomag_lat", unitsDegrees, "Geomagnetic Latitude", "Geomagnetic latitude at the specified location"),
		attr(49, "geomag_lon", unitsDegrees, "Geomagnetic Longitude", "Geomagnetic longitude at the specified location"),
		attr(50, "ap", "", "Ap Geomagnetic Index", "Planetary geomagnetic index Ap"),
		attr(51, "ap_daily", "", "Daily Ap Geomagnetic Index", "Daily planetary geomagnetic index Ap"),
		attr(52, "invdip", unitsDegrees, "Invariant Dip Latitude", "Invariant dip latitude"),
		attr(53, "MLT-Te", unitsHours, "MLT-Te", ""),
		attr(54, "cgm_lat", unitsDegrees, "CGM Latitude", "Corrected geomagnetic latitude"),
		attr(55, "cgm_lon", unitsDegrees, "CGM Longitude", "Corrected geomagnetic longitude"),
		attr(56, "cgm_mlt", unitsHours, "CGM MLT", "Corrected geomagnetic local time"),
		attr(57, "cgm_lat_auroral_boundary", unitsDegrees, "CGM Latitude Auroral Boundary", "Corrected geomagnetic latitude of the auroral boundary"),
	)
	for h := 0; h < 24; h++ {
		t = append(t, attr(58+h, fmt.Sprintf("cgm_lat_mlt_%02d", h), unitsDegrees,
			fmt.Sprintf("CGM Latitude MLT %02d", h),
			fmt.Sprintf("Corrected geomagnetic latitude at magnetic local time %02d", h)))
	}
	t = append(t,
		attr(82, "kp", "", "Kp Geomagnetic Index", "Planetary geomagnetic index Kp"),
		attr(83, "declination", unitsDegrees, "Magnetic Declination", "Magnetic declination angle at the specified location"),
		attr(84, "L-value", "", "L-value", "McIlwain L-parameter"),
		attr(85, "dipole-moment", "Unknown", "Dipole Moment", "Earth's magnetic dipole moment"),
		attr(86, "SAX300", unitsHours, "SAX300", "Sunrise at 300km altitude"),
		attr(87, "SUX300", unitsHours, "SUX300", "Sunset at 300km altitude"),
		attr(88, "HNEA", unitsKM, "HNEA", "Lower boundary of Ne valid range"),
		attr(89, "HNEE", unitsKM, "HNEE", "Upper boundary of Ne valid range"),
		attr(90, "es_occ_prob", "%", "Es Occurrence Probability", "Sporadic E layer occurrence probability"),
	)
	return t
}
