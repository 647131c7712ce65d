// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tcupboard/pkg/textnorm"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lower", "The Foos", "the foos"},
		{"trim", "  Bar Band \t", "bar band"},
		{"already_normal", "bar band", "bar band"},
		{"decomposed_input_composes", "Café", "café"},
		{"composed_input", "CAFÉ", "café"},
		{"inner_whitespace_kept", "The  Foos", "the  foos"},
		{"final_sigma_lowers_per_rune", "ΚΟΣΜΟΣ", "κοσμοσ"},
		{"dotted_capital_i", "İSTANBUL", "istanbul"},
		{"no_break_space_kept", "\u00a0Foos", "\u00a0foos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Name(tt.input))
		})
	}
}

func TestNames_Distinct(t *testing.T) {
	got := textnorm.Names([]string{"The Foos", "the foos", " ", "Bar Band", "THE FOOS"})
	assert.Equal(t, []string{"the foos", "bar band"}, got)
}

func TestName_StableUnderStoredForm(t *testing.T) {
	// A name as stored (already lower-case) and as typed must share one key.
	for _, name := range []string{"ΚΟΣΜΟΣ", "Ωmega Σound", "İSTANBUL"} {
		assert.Equal(t, textnorm.Name(name), textnorm.Name(textnorm.Name(name)), name)
	}
}

func TestSQL(t *testing.T) {
	assert.Equal(t, `lower(normalize(btrim(name, E' \t\n\r'), NFC))`, textnorm.SQL("name"))
}
