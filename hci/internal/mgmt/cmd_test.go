package mgmt

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeConn adapts a pair of io.Pipe ends into a Conn, letting a test
// stand in for the kernel on the other end of the socket.
type pipeConn struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p *pipeConn) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipeConn) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *pipeConn) Close() error                { p.r.Close(); return p.w.Close() }

type fakeParam struct {
	op      uint16
	payload []byte
}

func (f fakeParam) Opcode() uint16    { return f.op }
func (f fakeParam) Marshal() []byte   { return f.payload }

func TestSendCorrelatesCommandComplete(t *testing.T) {
	toKernel, fromApp := io.Pipe()
	toApp, fromKernel := io.Pipe()
	appSide := &pipeConn{r: toApp, w: fromApp}
	kernelSide := &pipeConn{r: toKernel, w: fromKernel}

	d := NewDispatcher(appSide)
	defer d.Close()

	go func() {
		buf := make([]byte, 256)
		n, err := kernelSide.Read(buf)
		require.NoError(t, err)
		req, err := ParseFrame(buf[:n])
		require.NoError(t, err)
		assert.Equal(t, OpSetPowered, req.Opcode)

		reply := Frame{
			Opcode: EvtCommandComplete,
			Index:  req.Index,
			Payload: append([]byte{
				byte(req.Opcode), byte(req.Opcode >> 8), StatusSuccess,
			}, 0x01),
		}
		_, err = kernelSide.Write(reply.Marshal())
		require.NoError(t, err)
	}()

	r, err := d.Send(0, fakeParam{op: OpSetPowered, payload: []byte{1}}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, r.Status)
	assert.Equal(t, []byte{0x01}, r.Params)
}

func TestSendTimesOutWithNoReply(t *testing.T) {
	toKernel, fromApp := io.Pipe()
	toApp, _ := io.Pipe()
	// The kernel side accepts the command but never replies.
	go io.Copy(io.Discard, toKernel)
	appSide := &pipeConn{r: toApp, w: fromApp}

	d := NewDispatcher(appSide)
	defer d.Close()

	_, err := d.Send(0, fakeParam{op: OpSetPowered, payload: []byte{1}}, 20*time.Millisecond)
	require.Error(t, err)
	var te *TimeoutError
	assert.ErrorAs(t, err, &te)
}

func TestOnEventDispatchesUnsolicitedFrame(t *testing.T) {
	toApp, fromKernel := io.Pipe()
	_, fromApp := io.Pipe()
	appSide := &pipeConn{r: toApp, w: fromApp}

	d := NewDispatcher(appSide)
	defer d.Close()

	got := make(chan uint16, 1)
	d.OnEvent(EvtNewSettings, func(index uint16, payload []byte) { got <- index })

	frame := Frame{Opcode: EvtNewSettings, Index: 3, Payload: []byte{0, 0, 0, 0}}
	_, err := fromKernel.Write(frame.Marshal())
	require.NoError(t, err)

	select {
	case idx := <-got:
		assert.Equal(t, uint16(3), idx)
	case <-time.After(time.Second):
		t.Fatal("event handler was not invoked")
	}
}
