package typeinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/idlib-go/internal/records"
	"github.com/skdltmxn/idlib-go/internal/testutil"
	"github.com/skdltmxn/idlib-go/procmem"
)

func TestCString_NullAddress(t *testing.T) {
	r := NewReader(procmem.NewImage(), 0)

	_, err := r.CString(0, TextStrict)
	assert.ErrorIs(t, err, ErrNullAddress)
	assert.Nil(t, r.OptionalCString(0))
}

func TestCString_Terminated(t *testing.T) {
	b := testutil.NewBuilder(testutil.DefaultBase)
	addr := b.String("Entity")
	r := NewReader(b.Image(), 0)

	s, err := r.CString(addr, TextStrict)
	require.NoError(t, err)
	assert.Equal(t, "Entity", s)
}

func TestCString_NoTerminatorInWindow(t *testing.T) {
	img := procmem.NewImage()
	require.NoError(t, img.Map(0x1000, bytes.Repeat([]byte{'A'}, 2*DefaultStringWindow)))
	r := NewReader(img, 0)

	s, err := r.CString(0x1000, TextStrict)
	require.NoError(t, err)
	assert.Len(t, s, DefaultStringWindow, "string occupies the whole probe window")
	assert.Equal(t, repeat(DefaultStringWindow, 'A'), s)
}

func TestCString_CustomWindow(t *testing.T) {
	img := procmem.NewImage()
	require.NoError(t, img.Map(0x1000, []byte("abcdefghijklmnopqrstuvwxyz\x00")))
	r := NewReader(img, 8)

	s, err := r.CString(0x1000, TextStrict)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh", s)
}

func TestCString_ProbeRunsOffRegion(t *testing.T) {
	img := procmem.NewImage()
	require.NoError(t, img.Map(0x1000, []byte("short\x00")))
	r := NewReader(img, 0)

	_, err := r.CString(0x1000, TextStrict)
	assert.ErrorIs(t, err, procmem.ErrReadFailed)

	var short *procmem.ShortReadError
	assert.ErrorAs(t, err, &short)
}

func TestCString_InvalidEncoding(t *testing.T) {
	b := testutil.NewBuilder(testutil.DefaultBase)
	addr := b.Bytes([]byte{'o', 'k', 0xff, 0xfe, '!', 0})
	r := NewReader(b.Image(), 0)

	_, err := r.CString(addr, TextStrict)
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	s, err := r.CString(addr, TextLossy)
	require.NoError(t, err)
	assert.Equal(t, "ok\uFFFD!", s)

	assert.Nil(t, r.OptionalCString(addr), "optional strings collapse to absent")
}

func TestReadRecordArray(t *testing.T) {
	b := testutil.NewBuilder(testutil.DefaultBase)
	table := b.Alloc(3 * records.HashSize)
	for i := 0; i < 3; i++ {
		b.PutU64(table.Add(uint64(i*records.HashSize)), uint64(100+i))
	}
	r := NewReader(b.Image(), 0)

	hashes, err := ReadRecordArray(r, table, 3, records.HashKind)
	require.NoError(t, err)
	assert.Equal(t, []uint64{100, 101, 102}, hashes)

	empty, err := ReadRecordArray(r, 0, 0, records.HashKind)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = ReadRecordArray(r, table, -1, records.HashKind)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = ReadRecordArray(r, table, 1<<40, records.HashKind)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestReadRecordArray_Atomic(t *testing.T) {
	img := procmem.NewImage()
	require.NoError(t, img.Map(0x1000, make([]byte, 2*records.EnumValueSize)))
	r := NewReader(img, 0)

	values, err := ReadRecordArray(r, 0x1000, 3, records.EnumValueKind)
	assert.Nil(t, values, "no partial array")
	assert.ErrorIs(t, err, procmem.ErrReadFailed)
}

func TestReadRecord_Unmapped(t *testing.T) {
	r := NewReader(procmem.NewImage(), 0)
	_, err := ReadRecord(r, testutil.Unmapped, records.ClassKind)
	assert.ErrorIs(t, err, procmem.ErrReadFailed)
}

func repeat(n int, c byte) string {
	return string(bytes.Repeat([]byte{c}, n))
}
