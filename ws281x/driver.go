package ws281x

import (
	"ledfw-go/errcode"
	"ledfw-go/pulse"
)

// MaxChain is the most colours one transmission carries. Longer chains are
// sent as several back-to-back transmissions.
const MaxChain = 8

// frameLen is a full chunk plus the end marker.
const frameLen = MaxChain*BitsPerColor + 1

const opSend = "ws281x.send"

// Stats counts transmissions since the driver was created. A SendMany chunk
// counts once.
type Stats struct {
	Sent   uint32
	Failed uint32
}

// Driver owns one configured pulse channel. It is not safe for use by more
// than one task; hand it to exactly one owner.
type Driver struct {
	ch    pulse.Channel
	table pulse.Table
	frame [frameLen]pulse.Symbol
	stats Stats
}

// NewDriver wraps ch, which must already be configured for table's clock.
func NewDriver(ch pulse.Channel, table pulse.Table) *Driver {
	return &Driver{ch: ch, table: table}
}

// Table returns the timing table the driver encodes with.
func (d *Driver) Table() pulse.Table { return d.table }

// Stats returns the transmission counters.
func (d *Driver) Stats() Stats { return d.stats }

// SendOne encodes c and issues a single one-shot transmission. Channel
// failures come back as *errcode.E; nothing is retried here.
func (d *Driver) SendOne(c RGB) error {
	return d.send(c)
}

// SendMany sends a chain, first colour to the first LED. Up to MaxChain
// colours share one contiguous frame with a single end marker, so the LEDs
// see no latch gap inside a chunk. It stops at the first failed chunk.
func (d *Driver) SendMany(cs []RGB) error {
	for len(cs) > 0 {
		n := min(len(cs), MaxChain)
		if err := d.send(cs[:n]...); err != nil {
			return err
		}
		cs = cs[n:]
	}
	return nil
}

func (d *Driver) send(cs ...RGB) error {
	for i, c := range cs {
		encodeInto(d.frame[i*BitsPerColor:(i+1)*BitsPerColor], c, d.table)
	}
	n := len(cs) * BitsPerColor
	d.frame[n] = pulse.End
	if err := d.ch.Transmit(pulse.OneShot, d.frame[:n+1]); err != nil {
		d.stats.Failed++
		return errcode.Wrap(errcode.MapDriverErr(err), opSend, err)
	}
	d.stats.Sent++
	return nil
}
