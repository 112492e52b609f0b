// Package settings translates IRI-2020 model settings into the switch and
// override arrays expected by the native library.
package settings

import (
	"encoding/json"
)

// TeNeCorrelation switches the electron temperature to the Te/Ne correlation
// model, driven by electron densities (m^-3) at two fixed altitudes: 300 km
// and 550 km with TBT-2012, 300 km and 400 km with Bil-1985.
type TeNeCorrelation struct {
	NeLower float64 `json:"ne_lower" yaml:"ne_lower" toml:"ne_lower"`
	NeUpper float64 `json:"ne_upper" yaml:"ne_upper" toml:"ne_upper"`
}

// SolarFlux forces the daily F10.7 and its 81-day average.
type SolarFlux struct {
	Daily  float64 `json:"daily" yaml:"daily" toml:"daily"`
	Mean81 float64 `json:"mean_81" yaml:"mean_81" toml:"mean_81"`
}

// Settings is the user-facing IRI-2020 configuration. Start from Default.
type Settings struct {
	// Bottomside B0/B1 model
	B0B1Model B0B1Model `json:"b0_b1_model" yaml:"b0_b1_model" toml:"b0_b1_model"`
	// F2 peak critical frequency coefficients
	FoF2Model FoF2Model `json:"fof2_model" yaml:"fof2_model" toml:"fof2_model"`
	// Ion composition model
	NiModel NiModel `json:"ni_model" yaml:"ni_model" toml:"ni_model"`
	// Limit F10.7 to below 188 for electron densities
	NeF107Limit bool `json:"ne_f107_limit" yaml:"ne_f107_limit" toml:"ne_f107_limit"`
	// foF2 in MHz or NmF2 in m^-3
	FoF2 *float64 `json:"foF2,omitempty" yaml:"foF2,omitempty" toml:"foF2,omitempty"`
	// hmF2 in km or M(3000)F2
	HmF2 *float64 `json:"hmF2,omitempty" yaml:"hmF2,omitempty" toml:"hmF2,omitempty"`
	// Te/Ne correlation; nil uses the Te model
	TeMode *TeNeCorrelation `json:"te_mode,omitempty" yaml:"te_mode,omitempty" toml:"te_mode,omitempty"`
	NeMode NeMode           `json:"ne_mode" yaml:"ne_mode" toml:"ne_mode"`
	// Diagnostic log file; empty disables logging
	LogFile string `json:"logfile" yaml:"logfile" toml:"logfile"`
	// foF1 in MHz or NmF1 in m^-3
	FoF1 *float64 `json:"foF1,omitempty" yaml:"foF1,omitempty" toml:"foF1,omitempty"`
	// hmF1 in km
	HmF1 *float64 `json:"hmF1,omitempty" yaml:"hmF1,omitempty" toml:"hmF1,omitempty"`
	// foE in MHz or NmE in m^-3
	FoE *float64 `json:"foE,omitempty" yaml:"foE,omitempty" toml:"foE,omitempty"`
	// hmE in km
	HmE *float64 `json:"hmE,omitempty" yaml:"hmE,omitempty" toml:"hmE,omitempty"`
	// Rz12; nil reads ig_rz.dat
	Rz12     *float64 `json:"rz12,omitempty" yaml:"rz12,omitempty" toml:"rz12,omitempty"`
	MagField MagField `json:"magfield" yaml:"magfield" toml:"magfield"`
	F1Model  F1Model  `json:"F1_model" yaml:"F1_model" toml:"F1_model"`
	IonDrift bool     `json:"ion_drift" yaml:"ion_drift" toml:"ion_drift"`
	// Topside electron temperature model
	TeTopside TeTopModel   `json:"te_topside" yaml:"te_topside" toml:"te_topside"`
	DRegion   DRegionModel `json:"d_region" yaml:"d_region" toml:"d_region"`
	// F10.7 and F10.7A; nil reads apf107.dat
	F107               *SolarFlux   `json:"f107,omitempty" yaml:"f107,omitempty" toml:"f107,omitempty"`
	FoF2StormModel     bool         `json:"fof2_storm_model" yaml:"fof2_storm_model" toml:"fof2_storm_model"`
	IG12               *float64     `json:"ig12,omitempty" yaml:"ig12,omitempty" toml:"ig12,omitempty"`
	SpreadFProbability bool         `json:"spread_f_probability" yaml:"spread_f_probability" toml:"spread_f_probability"`
	TopsideModel       TopsideModel `json:"topside_model" yaml:"topside_model" toml:"topside_model"`
	AuroralBoundary    bool         `json:"auroral_boundary" yaml:"auroral_boundary" toml:"auroral_boundary"`
	FoEStorm           bool         `json:"foe_storm" yaml:"foe_storm" toml:"foe_storm"`
	// hmF2 follows the foF2 storm model
	HmF2WithFoF2Storm bool `json:"hmf2_with_fof2_storm" yaml:"hmf2_with_fof2_storm" toml:"hmf2_with_fof2_storm"`
	// topside varies without the foF2 storm model
	TopsideWithoutFoF2Storm bool      `json:"topside_without_fof2_storm" yaml:"topside_without_fof2_storm" toml:"topside_without_fof2_storm"`
	HmF2Model               HmF2Model `json:"hmf2_model" yaml:"hmf2_model" toml:"hmf2_model"`
	// true: F10.7 yearly average from the data file, false: derived from IG12
	CovSource            bool     `json:"cov_src" yaml:"cov_src" toml:"cov_src"`
	TeWithF107Dependency bool     `json:"te_with_f107_dependency" yaml:"te_with_f107_dependency" toml:"te_with_f107_dependency"`
	B0                   *float64 `json:"b0_value,omitempty" yaml:"b0_value,omitempty" toml:"b0_value,omitempty"`
	B1                   *float64 `json:"b1_value,omitempty" yaml:"b1_value,omitempty" toml:"b1_value,omitempty"`
	// Sporadic E occurrence probability
	EsOccProb       bool              `json:"es_occ_prob" yaml:"es_occ_prob" toml:"es_occ_prob"`
	EsProbNoSolar   bool              `json:"es_prob_no_solar" yaml:"es_prob_no_solar" toml:"es_prob_no_solar"`
	CGMCompute      bool              `json:"cgm_compute" yaml:"cgm_compute" toml:"cgm_compute"`
	IonTempModel    IonTempModel      `json:"ion_temp_model" yaml:"ion_temp_model" toml:"ion_temp_model"`
	Plasmasphere    PlasmasphereModel `json:"plasmasphere" yaml:"plasmasphere" toml:"plasmasphere"`
	Plasmapause     bool              `json:"plasmapause" yaml:"plasmapause" toml:"plasmapause"`
}

// Default returns the recommended IRI-2020 settings.
func Default() Settings {
	return Settings{
		B0B1Model:               B0B1ABT2009,
		FoF2Model:               FoF2URSI,
		NiModel:                 NiRBV2010TBT,
		NeF107Limit:             true,
		NeMode:                  NeStandard,
		MagField:                MagFieldIGRF,
		F1Model:                 F1Probabilistic,
		IonDrift:                true,
		TeTopside:               TeTopTBT2012,
		DRegion:                 DRegionIRI90,
		FoF2StormModel:          true,
		SpreadFProbability:      true,
		TopsideModel:            TopsideIRICor2,
		AuroralBoundary:         false,
		FoEStorm:                false,
		HmF2WithFoF2Storm:       true,
		TopsideWithoutFoF2Storm: true,
		HmF2Model:               HmF2Shubin,
		CovSource:               true,
		TeWithF107Dependency:    true,
		EsOccProb:               true,
		EsProbNoSolar:           true,
		CGMCompute:              false,
		IonTempModel:            IonTempTru2021,
		Plasmasphere:            PlasmasphereOzhogin,
		Plasmapause:             true,
	}
}

// Float returns a pointer to v, for the optional override fields.
func Float(v float64) *float64 {
	return &v
}

// MarshalJSON writes the logfile as null when logging is disabled.
func (s Settings) MarshalJSON() ([]byte, error) {
	type plain Settings
	var logfile *string
	if s.LogFile != "" {
		logfile = &s.LogFile
	}
	return json.Marshal(struct {
		plain
		LogFile *string `json:"logfile"`
	}{plain: plain(s), LogFile: logfile})
}

// Clone returns a deep copy so callers can't reach into a compiled record.
func (s Settings) Clone() Settings {
	c := s
	c.FoF2 = cloneFloat(s.FoF2)
	c.HmF2 = cloneFloat(s.HmF2)
	c.FoF1 = cloneFloat(s.FoF1)
	c.HmF1 = cloneFloat(s.HmF1)
	c.FoE = cloneFloat(s.FoE)
	c.HmE = cloneFloat(s.HmE)
	c.Rz12 = cloneFloat(s.Rz12)
	c.IG12 = cloneFloat(s.IG12)
	c.B0 = cloneFloat(s.B0)
	c.B1 = cloneFloat(s.B1)
	if s.TeMode != nil {
		te := *s.TeMode
		c.TeMode = &te
	}
	if s.F107 != nil {
		f := *s.F107
		c.F107 = &f
	}
	return c
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
