package core

// Config is the full routing and layout configuration surface. Values are
// concrete; use DefaultConfig for the documented defaults and Overrides to
// layer host or per-edge adjustments on top.
type Config struct {
	Padding          float64 // obstacle inflation in px
	SourceStubLength float64 // straight-out length from the source port
	TargetStubLength float64 // straight-out length into the target port
	BendPenalty      float64 // added cost per direction change
	EarlyBendBias    float64 // per-unit horizontal cost slope, applied to labelled edges only
	EdgeSeparation   float64 // perpendicular offset between overlapping parallel edges
	BendRadius       float64 // max radius of the rounded-corner arc
	HorizontalGap    float64 // layout intra-rank spacing
	VerticalGap      float64 // layout inter-rank spacing
	NodeWidth        float64 // fallback width when the host has not measured the node
	NodeHeight       float64 // fallback height
	CompactRanks     bool    // pull label-free rank pairs closer together
	CompactGap       float64 // inter-rank spacing used for label-free pairs when compacting
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Padding:          20,
		SourceStubLength: 20,
		TargetStubLength: 20,
		BendPenalty:      1,
		EarlyBendBias:    0.1,
		EdgeSeparation:   5,
		BendRadius:       8,
		HorizontalGap:    40,
		VerticalGap:      60,
		NodeWidth:        150,
		NodeHeight:       60,
		CompactGap:       30,
	}
}

// Sanitised returns a copy with invalid values disabled: negative radii,
// separations and paddings are treated as zero rather than rejected.
func (c Config) Sanitised() Config {
	if c.Padding < 0 {
		c.Padding = 0
	}
	if c.SourceStubLength < 0 {
		c.SourceStubLength = 0
	}
	if c.TargetStubLength < 0 {
		c.TargetStubLength = 0
	}
	if c.BendPenalty < 0 {
		c.BendPenalty = 0
	}
	if c.EdgeSeparation < 0 {
		c.EdgeSeparation = 0
	}
	if c.BendRadius < 0 {
		c.BendRadius = 0
	}
	if c.CompactGap < 0 {
		c.CompactGap = 0
	}
	return c
}

// Overrides holds optional configuration adjustments. Nil fields leave the
// base value untouched, so a host can override a single knob per edge.
type Overrides struct {
	Padding          *float64
	SourceStubLength *float64
	TargetStubLength *float64
	BendPenalty      *float64
	EarlyBendBias    *float64
	EdgeSeparation   *float64
	BendRadius       *float64
	HorizontalGap    *float64
	VerticalGap      *float64
	CompactRanks     *bool
	CompactGap       *float64
}

// ApplyTo returns base with every non-nil override applied.
func (o *Overrides) ApplyTo(base Config) Config {
	if o == nil {
		return base
	}
	if o.Padding != nil {
		base.Padding = *o.Padding
	}
	if o.SourceStubLength != nil {
		base.SourceStubLength = *o.SourceStubLength
	}
	if o.TargetStubLength != nil {
		base.TargetStubLength = *o.TargetStubLength
	}
	if o.BendPenalty != nil {
		base.BendPenalty = *o.BendPenalty
	}
	if o.EarlyBendBias != nil {
		base.EarlyBendBias = *o.EarlyBendBias
	}
	if o.EdgeSeparation != nil {
		base.EdgeSeparation = *o.EdgeSeparation
	}
	if o.BendRadius != nil {
		base.BendRadius = *o.BendRadius
	}
	if o.HorizontalGap != nil {
		base.HorizontalGap = *o.HorizontalGap
	}
	if o.VerticalGap != nil {
		base.VerticalGap = *o.VerticalGap
	}
	if o.CompactRanks != nil {
		base.CompactRanks = *o.CompactRanks
	}
	if o.CompactGap != nil {
		base.CompactGap = *o.CompactGap
	}
	return base
}
