// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strconv"

// Theme color roles
const (
	ColorPrimary    = "primary"
	ColorSecondary  = "secondary"
	ColorAccent     = "accent"
	ColorText       = "text"
	ColorBackground = "background"
)

// ColorRoles lists the theme color roles.
var ColorRoles = []string{ColorPrimary, ColorSecondary, ColorAccent, ColorText, ColorBackground}

// Theme defaults
const (
	DefaultFontFamily = "Poppins, sans-serif"
	DefaultFontWeight = FontWeight("400")
)

// FontWeight is a CSS font weight, one of "100" through "900".
type FontWeight string

// Valid reports whether w is a multiple of 100 between 100 and 900.
func (w FontWeight) Valid() bool {
	n, err := strconv.Atoi(string(w))
	if err != nil {
		return false
	}
	return n >= 100 && n <= 900 && n%100 == 0
}

// FontWeights lists the valid font weights in ascending order.
func FontWeights() []FontWeight {
	out := make([]FontWeight, 0, 9)
	for n := 100; n <= 900; n += 100 {
		out = append(out, FontWeight(strconv.Itoa(n)))
	}
	return out
}

// ThemeConfig is the site theme.
type ThemeConfig struct {
	Colors     map[string]string `json:"colors" yaml:"colors"`
	FontFamily string            `json:"fontFamily" yaml:"fontFamily"`
	FontWeight FontWeight        `json:"fontWeight" yaml:"fontWeight"`
}

// IsColorRole reports whether role is a known theme color role.
func IsColorRole(role string) bool {
	for _, r := range ColorRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of t.
func (t ThemeConfig) Clone() ThemeConfig {
	out := t
	if t.Colors != nil {
		out.Colors = make(map[string]string, len(t.Colors))
		for k, v := range t.Colors {
			out.Colors[k] = v
		}
	}
	return out
}

// Equal reports whether t and other describe the same theme.
func (t ThemeConfig) Equal(other ThemeConfig) bool {
	if t.FontFamily != other.FontFamily || t.FontWeight != other.FontWeight {
		return false
	}
	if len(t.Colors) != len(other.Colors) {
		return false
	}
	for k, v := range t.Colors {
		if ov, ok := other.Colors[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// WithDefaults fills an empty font family or invalid weight with defaults.
func (t ThemeConfig) WithDefaults() ThemeConfig {
	out := t.Clone()
	if out.FontFamily == "" {
		out.FontFamily = DefaultFontFamily
	}
	if !out.FontWeight.Valid() {
		out.FontWeight = DefaultFontWeight
	}
	if out.Colors == nil {
		out.Colors = map[string]string{}
	}
	return out
}
