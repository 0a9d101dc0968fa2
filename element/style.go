package element

import "fmt"

type StrokeStyle string

const (
	StrokeSolid  StrokeStyle = "solid"
	StrokeDashed StrokeStyle = "dashed"
	StrokeDotted StrokeStyle = "dotted"
)

type CornerStyle string

const (
	CornerSharp CornerStyle = "sharp"
	CornerRound CornerStyle = "round"
)

type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

const (
	Transparent     = "transparent"
	DefaultFontSize = 20.0
	MaxRoughness    = 2
)

// Style holds the visual attributes shared by every element type.
type Style struct {
	StrokeColor string      `json:"strokeColor" yaml:"strokeColor"`
	FillColor   string      `json:"fillColor" yaml:"fillColor"`
	StrokeWidth float64     `json:"strokeWidth" yaml:"strokeWidth"`
	Opacity     float64     `json:"opacity" yaml:"opacity"`
	Rotation    float64     `json:"rotation" yaml:"rotation"`
	Roughness   int         `json:"roughness" yaml:"roughness"`
	StrokeStyle StrokeStyle `json:"strokeStyle" yaml:"strokeStyle"`
	CornerStyle CornerStyle `json:"cornerStyle" yaml:"cornerStyle"`
	TextAlign   TextAlign   `json:"textAlign" yaml:"textAlign"`
}

func DefaultStyle() Style {
	return Style{
		StrokeColor: "#1e1e1e",
		FillColor:   Transparent,
		StrokeWidth: 2,
		Opacity:     1,
		Roughness:   1,
		StrokeStyle: StrokeSolid,
		CornerStyle: CornerSharp,
		TextAlign:   AlignLeft,
	}
}

// Filled reports whether the style paints an interior.
func (s Style) Filled() bool {
	return s.FillColor != "" && s.FillColor != Transparent
}

// Validate checks ranges and enumerations.
func (s Style) Validate() error {
	if s.Opacity < 0 || s.Opacity > 1 {
		return fmt.Errorf("opacity %v out of range [0,1]", s.Opacity)
	}
	if s.Roughness < 0 || s.Roughness > MaxRoughness {
		return fmt.Errorf("roughness %d out of range [0,%d]", s.Roughness, MaxRoughness)
	}
	if s.StrokeWidth < 0 {
		return fmt.Errorf("negative stroke width %v", s.StrokeWidth)
	}
	switch s.StrokeStyle {
	case StrokeSolid, StrokeDashed, StrokeDotted, "":
	default:
		return fmt.Errorf("unknown stroke style %q", s.StrokeStyle)
	}
	switch s.CornerStyle {
	case CornerSharp, CornerRound, "":
	default:
		return fmt.Errorf("unknown corner style %q", s.CornerStyle)
	}
	switch s.TextAlign {
	case AlignLeft, AlignCenter, AlignRight, "":
	default:
		return fmt.Errorf("unknown text alignment %q", s.TextAlign)
	}
	return nil
}

// StylePatch is a partial style update; nil fields are left alone.
type StylePatch struct {
	StrokeColor *string
	FillColor   *string
	StrokeWidth *float64
	Opacity     *float64
	Rotation    *float64
	Roughness   *int
	StrokeStyle *StrokeStyle
	CornerStyle *CornerStyle
	TextAlign   *TextAlign
}

func (p StylePatch) Apply(s Style) Style {
	if p.StrokeColor != nil {
		s.StrokeColor = *p.StrokeColor
	}
	if p.FillColor != nil {
		s.FillColor = *p.FillColor
	}
	if p.StrokeWidth != nil {
		s.StrokeWidth = *p.StrokeWidth
	}
	if p.Opacity != nil {
		s.Opacity = *p.Opacity
	}
	if p.Rotation != nil {
		s.Rotation = *p.Rotation
	}
	if p.Roughness != nil {
		s.Roughness = *p.Roughness
	}
	if p.StrokeStyle != nil {
		s.StrokeStyle = *p.StrokeStyle
	}
	if p.CornerStyle != nil {
		s.CornerStyle = *p.CornerStyle
	}
	if p.TextAlign != nil {
		s.TextAlign = *p.TextAlign
	}
	return s
}
