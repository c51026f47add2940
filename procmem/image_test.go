package procmem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_ReadBytes(t *testing.T) {
	img := NewImage()
	require.NoError(t, img.Map(0x1000, []byte{1, 2, 3, 4}))
	require.NoError(t, img.Map(0x2000, []byte{5, 6}))

	b, err := img.ReadBytes(0x1001, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, b)

	b, err = img.ReadBytes(0x2000, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6}, b)

	b, err = img.ReadBytes(0x9999, 0)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestImage_Unmapped(t *testing.T) {
	img := NewImage()
	require.NoError(t, img.Map(0x1000, []byte{1, 2, 3, 4}))

	for _, addr := range []Address{0, 0xfff, 0x1004, 0x1800} {
		_, err := img.ReadBytes(addr, 1)
		assert.ErrorIs(t, err, ErrReadFailed, addr.String())
	}
}

func TestImage_ShortRead(t *testing.T) {
	img := NewImage()
	require.NoError(t, img.Map(0x1000, []byte{1, 2, 3, 4}))

	b, err := img.ReadBytes(0x1002, 8)
	assert.Nil(t, b, "no truncated buffer on short read")

	var short *ShortReadError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, 8, short.Expected)
	assert.Equal(t, 2, short.Actual)
	assert.Equal(t, Address(0x1002), short.Address)
	assert.ErrorIs(t, err, ErrReadFailed)
}

func TestImage_MapOverlap(t *testing.T) {
	img := NewImage()
	require.NoError(t, img.Map(0x1000, make([]byte, 0x100)))
	assert.Error(t, img.Map(0x10ff, make([]byte, 2)))
	assert.Error(t, img.Map(0xf00, make([]byte, 0x101)))
	assert.NoError(t, img.Map(0x1100, make([]byte, 1)))
	assert.Error(t, img.Map(^Address(0), make([]byte, 2)))
}

func TestOpenDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello\x00"), 0o600))

	img, err := OpenDump(path, 0x140000000)
	require.NoError(t, err)
	defer img.Close()

	b, err := img.ReadBytes(0x140000000, 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	_, err = OpenDump(filepath.Join(t.TempDir(), "missing.bin"), 0)
	assert.Error(t, err)
}
