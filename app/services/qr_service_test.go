package services

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestQRGenerator_DataURL(t *testing.T) {
	gen := NewQRGenerator(300)

	dataURL, err := gen.DataURL("VE-001")
	require.NoError(t, err)

	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(dataURL, prefix))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(decoded, pngMagic), "payload should be a PNG image")
}

func TestQRGenerator_DefaultSize(t *testing.T) {
	// Non-positive sizes fall back to the default instead of failing.
	gen := NewQRGenerator(0)

	dataURL, err := gen.DataURL("VE-001")
	require.NoError(t, err)
	assert.NotEmpty(t, dataURL)
}

func TestQRGenerator_EmptyContent(t *testing.T) {
	gen := NewQRGenerator(300)

	_, err := gen.DataURL("")
	assert.Error(t, err)
}
