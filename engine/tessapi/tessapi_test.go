// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

//go:build tessapi

package tessapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rescribe.xyz/ocreval/engine"
)

func TestNew(t *testing.T) {
	e, err := New("tessapi", engine.Config{Language: "eng+fra", Args: []string{"tessedit_pageseg_mode=6"}}, nil)
	require.NoError(t, err)
	te := e.(*Engine)
	assert.Equal(t, []string{"eng", "fra"}, te.languages)
	assert.Equal(t, map[string]string{"tessedit_pageseg_mode": "6"}, te.vars)

	_, err = New("tessapi", engine.Config{Args: []string{"novalue"}}, nil)
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	Register()
	assert.Contains(t, engine.Types(), Type)
}
