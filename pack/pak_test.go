// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPack(t *testing.T) *Pack {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, map[string][]byte{
		"doc1.txt":         []byte("this is the first doc 2. version\r\n"),
		"testdir/doc4.txt": []byte("this is the fourth doc 2. version"),
		"maps/start.bsp":   {29, 0, 0, 0},
	}))
	p, err := NewReader(bytes.NewReader(buf.Bytes()), "pak1.pak")
	require.NoError(t, err)
	return p
}

func TestPak(t *testing.T) {
	p := testPack(t)
	assert.Equal(t, "pak1.pak", p.String())
	assert.Equal(t, []string{"doc1.txt", "maps/start.bsp", "testdir/doc4.txt"}, p.Names())

	f1, err := p.Open("doc1.txt")
	require.NoError(t, err)
	b1, err := io.ReadAll(f1)
	require.NoError(t, err)
	assert.Equal(t, "this is the first doc 2. version\r\n", string(b1))

	f5, err := p.Open("TestDir/Doc4.txt")
	require.NoError(t, err)
	b5, err := io.ReadAll(f5)
	require.NoError(t, err)
	assert.Equal(t, "this is the fourth doc 2. version", string(b5))

	s, ok := p.Size("maps/start.bsp")
	assert.True(t, ok)
	assert.Equal(t, int64(4), s)
}

func TestPakMissing(t *testing.T) {
	p := testPack(t)
	_, err := p.Open("doc9.txt")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNotAPack(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("WAD2\x00\x00\x00\x00\x00\x00\x00\x00")), "x")
	assert.Error(t, err)
}
