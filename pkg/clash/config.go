// Package clash runs the rule checks that turn a synthesized model into a
// typed clash list: eleven categories, each a set of total functions over
// the model snapshot. Detection order is fixed (category order, then element
// id), so the same input always yields the same ordered list.
package clash

// Config holds the tolerances and code limits the checks apply. Zero values
// select the defaults, in millimetres throughout.
type Config struct {
	ToleranceMM       float64 // joint proximity, shared with the resolver
	PlateOffsetTolMM  float64 // max plate drift from its joint
	ElevationTolMM    float64 // base plate elevation tolerance
	MinClearanceMM    float64 // member-to-member clearance
	MinMemberLengthMM float64 // spans under this are suspect input
	MaxSpanMM         float64 // spans over this need review
	BraceSpanMM       float64 // beams longer than this want bracing

	MaxSlendernessColumn float64 // KL/r limit for columns and braces
	MaxSlendernessBeam   float64 // L/r limit for beams

	EccentricityTolMM float64 // joint-to-member-axis offset threshold

	MinBasePlateMM     float64 // minimum base plate side
	MaxBasePlateMM     float64 // review threshold for oversized plates
	FoundationElevMM   float64 // top-of-foundation reference
	FoundationGapMinMM float64
	FoundationGapMaxMM float64
	FootingHalfMM      float64 // half-width of the footing around a base plate

	AnchorEmbedFactor float64 // minimum embedment as a multiple of diameter
}

// DefaultConfig returns the engine's standard limits.
func DefaultConfig() Config {
	return Config{
		ToleranceMM:          100,
		PlateOffsetTolMM:     10,
		ElevationTolMM:       5,
		MinClearanceMM:       25,
		MinMemberLengthMM:    100,
		MaxSpanMM:            12000,
		BraceSpanMM:          8000,
		MaxSlendernessColumn: 200,
		MaxSlendernessBeam:   300,
		EccentricityTolMM:    100,
		MinBasePlateMM:       300,
		MaxBasePlateMM:       1500,
		FoundationElevMM:     0,
		FoundationGapMinMM:   0,
		FoundationGapMaxMM:   10,
		FootingHalfMM:        600,
		AnchorEmbedFactor:    10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ToleranceMM <= 0 {
		c.ToleranceMM = d.ToleranceMM
	}
	if c.PlateOffsetTolMM <= 0 {
		c.PlateOffsetTolMM = d.PlateOffsetTolMM
	}
	if c.ElevationTolMM <= 0 {
		c.ElevationTolMM = d.ElevationTolMM
	}
	if c.MinClearanceMM <= 0 {
		c.MinClearanceMM = d.MinClearanceMM
	}
	if c.MinMemberLengthMM <= 0 {
		c.MinMemberLengthMM = d.MinMemberLengthMM
	}
	if c.MaxSpanMM <= 0 {
		c.MaxSpanMM = d.MaxSpanMM
	}
	if c.BraceSpanMM <= 0 {
		c.BraceSpanMM = d.BraceSpanMM
	}
	if c.MaxSlendernessColumn <= 0 {
		c.MaxSlendernessColumn = d.MaxSlendernessColumn
	}
	if c.MaxSlendernessBeam <= 0 {
		c.MaxSlendernessBeam = d.MaxSlendernessBeam
	}
	if c.EccentricityTolMM <= 0 {
		c.EccentricityTolMM = d.EccentricityTolMM
	}
	if c.MinBasePlateMM <= 0 {
		c.MinBasePlateMM = d.MinBasePlateMM
	}
	if c.MaxBasePlateMM <= 0 {
		c.MaxBasePlateMM = d.MaxBasePlateMM
	}
	if c.FoundationGapMaxMM <= 0 {
		c.FoundationGapMaxMM = d.FoundationGapMaxMM
	}
	if c.FootingHalfMM <= 0 {
		c.FootingHalfMM = d.FootingHalfMM
	}
	if c.AnchorEmbedFactor <= 0 {
		c.AnchorEmbedFactor = d.AnchorEmbedFactor
	}
	return c
}

// profileGyrationMM maps cross-section profiles to their weak-axis radius of
// gyration. Unknown profiles use a conservative default.
var profileGyrationMM = map[string]float64{
	"W200x46":      51.0,
	"W310x39":      38.1,
	"W360x57":      39.4,
	"W460x52":      31.0,
	"HSS152x152x8": 58.4,
	"L102x102x9.5": 31.2,
}

const defaultGyrationMM = 50.0

// gyrationRadius returns the radius of gyration for a profile id.
func gyrationRadius(profile string) float64 {
	if r, ok := profileGyrationMM[profile]; ok {
		return r
	}
	return defaultGyrationMM
}
