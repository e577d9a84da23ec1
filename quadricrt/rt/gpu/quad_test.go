package gpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/raystack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passLog struct{ events []string }

func (l *passLog) BeginPass(program string) { l.events = append(l.events, "begin "+program) }
func (l *passLog) EndPass(program string)   { l.events = append(l.events, "end "+program) }

func TestQuad_TimerBracketsRecordedPasses(t *testing.T) {
	timer := &passLog{}
	b := &Backend{Timer: timer}
	q := &Quad{backend: b}
	p := newDetachedProgram(t, "show", raystack.NewNopLogger())

	// Outside a frame nothing is recorded, so nothing is timed.
	require.ErrorIs(t, q.Draw(p), ErrNoFrame)
	assert.Empty(t, timer.events)

	// The encoder is never touched: the missing frame view fails the pass first.
	b.encoder = &wgpu.CommandEncoder{}
	err := q.Draw(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no render target")
	assert.Equal(t, []string{"begin show", "end show"}, timer.events)
}
