package poller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tamzrod/swdlink/internal/channel"
	cfg "github.com/tamzrod/swdlink/internal/config"
)

// echoPeer answers like the probe firmware: "rd p" yields a value,
// "sync" echoes the token.
type echoPeer struct {
	sent  []string
	in    []byte
	value uint32
}

func (e *echoPeer) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSuffix(string(p), "\n"), "\n") {
		e.sent = append(e.sent, line)
		f := strings.Fields(line)
		switch {
		case len(f) == 2 && f[1] == "sync":
			e.in = append(e.in, "sync "+f[0]+"\n"...)
		case len(f) == 3 && f[1] == "rd" && f[2] == "p":
			e.value++
			e.in = append(e.in, fmt.Sprintf("# read %s\n%x\n", f[0], e.value)...)
		}
	}
	return len(p), nil
}

func (e *echoPeer) ReadByte() (byte, error) {
	if len(e.in) == 0 {
		return 0, io.EOF
	}
	b := e.in[0]
	e.in = e.in[1:]
	return b, nil
}

func (e *echoPeer) Close() error { return nil }

func TestBuild_StartupAndPoll(t *testing.T) {
	c := &cfg.Config{
		Probe:   cfg.ProbeConfig{ID: "bench", Device: "/dev/null"},
		Startup: []string{"line_reset", "jtag_to_swd", "line_reset"},
		Writes:  []cfg.WriteConfig{{Cmd: 0x81, Value: 0x1e}},
		Reads:   []cfg.ReadConfig{{Cmd: 0xa5}, {Cmd: 0x8d, Idle: 8}},
		Poll:    cfg.PollConfig{IntervalMs: 100},
	}
	cfg.Normalize(c)

	peer := &echoPeer{}
	open := func(string) (channel.Channel, error) { return peer, nil }

	p, s, err := Build(context.Background(), c, open, SessionOptions(c.Probe, zerolog.Nop(), nil)...)
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}
	defer s.Close()

	res := p.PollOnce(context.Background())
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if len(res.Values) != 2 || res.Values[0] != 1 || res.Values[1] != 2 {
		t.Fatalf("values: %v", res.Values)
	}
	if res.Token != 2 {
		t.Fatalf("token: got=%d want=2 (init and startup consume one each)", res.Token)
	}

	want := []string{
		" ", "0 echo", "hex", "0 sync",
		"line_reset", "jtag_to_swd", "line_reset", "1 sync",
		"1e 81 wr", "a5 rd p", "8d rd p", "8 idle", "2 sync",
	}
	if strings.Join(peer.sent, "|") != strings.Join(want, "|") {
		t.Fatalf("wire:\n got=%q\nwant=%q", peer.sent, want)
	}
}

func TestBuild_BadStartupSequence(t *testing.T) {
	c := &cfg.Config{
		Probe:   cfg.ProbeConfig{ID: "bench"},
		Startup: []string{"dormant_to_swd"},
		Reads:   []cfg.ReadConfig{{Cmd: 0xa5}},
		Poll:    cfg.PollConfig{IntervalMs: 100},
	}
	cfg.Normalize(c)

	open := func(string) (channel.Channel, error) { return &echoPeer{}, nil }
	if _, _, err := Build(context.Background(), c, open); err == nil {
		t.Fatalf("expected startup error, got nil")
	}
}

func TestBuild_ReopensLostSession(t *testing.T) {
	c := &cfg.Config{
		Probe:   cfg.ProbeConfig{ID: "bench"},
		Startup: []string{"line_reset"},
		Reads:   []cfg.ReadConfig{{Cmd: 0xa5}},
		Poll:    cfg.PollConfig{IntervalMs: 100},
	}
	cfg.Normalize(c)

	var peers []*echoPeer
	open := func(string) (channel.Channel, error) {
		peer := &echoPeer{}
		peers = append(peers, peer)
		return peer, nil
	}

	p, s, err := Build(context.Background(), c, open)
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}
	defer s.Close()

	// drop the link underneath the poller
	_ = s.Close()

	if res := p.PollOnce(context.Background()); res.Err == nil {
		t.Fatalf("poll on a closed session must fail")
	}

	res := p.PollOnce(context.Background())
	if res.Err != nil {
		t.Fatalf("poll after reopen err=%v", res.Err)
	}
	if len(peers) != 2 {
		t.Fatalf("opener calls: got=%d want=2", len(peers))
	}
	if len(res.Values) != 1 || res.Values[0] != 1 {
		t.Fatalf("values: %v", res.Values)
	}

	want := []string{" ", "0 echo", "hex", "3 sync", "line_reset", "4 sync", "a5 rd p", "5 sync"}
	if strings.Join(peers[1].sent, "|") != strings.Join(want, "|") {
		t.Fatalf("wire after reopen:\n got=%q\nwant=%q", peers[1].sent, want)
	}
}
