package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/swdlink/internal/swd"
)

// Client abstracts the probe operations the poller needs.
// *swd.Session satisfies it.
type Client interface {
	WriteRegister(cmd uint8, value uint32, idle uint32)
	ReadRegister(cmd uint8, dst *uint32, idle uint32)
	Flush(ctx context.Context) error
	Token() uint32
}

var _ Client = (*swd.Session)(nil)

// Config is the minimal runtime config the poller needs.
type Config struct {
	ProbeID  string
	Interval time.Duration
	Writes   []WriteBlock
	Reads    []ReadBlock
}

// Poller is a dumb, clock-driven batch issuer.
type Poller struct {
	cfg    Config
	client Client

	// reconnect reopens the link after the channel was lost (optional).
	reconnect func(ctx context.Context) error
	broken    bool
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if cfg.ProbeID == "" {
		return nil, errors.New("poller: probe id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Reads) == 0 {
		return nil, errors.New("poller: at least one read block required")
	}
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	return &Poller{cfg: cfg, client: client}, nil
}

// SetReconnect installs the function PollOnce calls before the next batch
// once the channel reported end-of-stream or was never open.
func (p *Poller) SetReconnect(fn func(ctx context.Context) error) {
	p.reconnect = fn
}

// PollOnce issues the writes, queues every read and flushes once.
// All-or-nothing: any failure discards the batch values.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{
		ProbeID: p.cfg.ProbeID,
		At:      time.Now(),
	}

	if p.broken && p.reconnect != nil {
		if err := p.reconnect(ctx); err != nil {
			res.Token = p.client.Token()
			res.Err = fmt.Errorf("reconnect: %w", err)
			return res
		}
		p.broken = false
	}
	res.Token = p.client.Token()

	for _, wb := range p.cfg.Writes {
		p.client.WriteRegister(wb.Cmd, wb.Value, wb.Idle)
	}

	values := make([]uint32, len(p.cfg.Reads))
	for i, rb := range p.cfg.Reads {
		p.client.ReadRegister(rb.Cmd, &values[i], rb.Idle)
	}

	if err := p.client.Flush(ctx); err != nil {
		res.Err = err
		p.broken = lostLink(err)
		return res
	}

	// Commit only if the whole batch succeeded
	res.Values = values
	return res
}

func lostLink(err error) bool {
	return errors.Is(err, swd.ErrChannelClosed) || errors.Is(err, swd.ErrNotOpen)
}
