package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1,000", FormatCount(1000))
	assert.Equal(t, "12,345,678", FormatCount(12345678))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.SetTotal(3)
	r.Add(1)
	r.Add(2)
	r.Message("done")
	require.NoError(t, r.Close())

	assert.Equal(t, 3, r.Total())
	assert.Equal(t, 3, r.Done())
	assert.Equal(t, []string{"done"}, r.Messages())
	assert.True(t, r.Closed())
}

func TestBar_WritesMessages(t *testing.T) {
	var buf bytes.Buffer
	b := NewBar(&buf, "ctx")
	b.SetTotal(2)
	b.Add(2)
	b.Message("Finalizing writes to database...")
	require.NoError(t, b.Close())

	assert.Contains(t, buf.String(), "Finalizing writes to database...")
}

func TestNop(t *testing.T) {
	var s Sink = NopFactory("x")
	s.SetTotal(10)
	s.Add(1)
	s.Message("ignored")
	assert.NoError(t, s.Close())
}
