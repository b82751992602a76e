// Package swd implements the queued transaction protocol spoken with a
// serial SWD probe firmware.
//
// Commands are newline-terminated text lines; numbers are lowercase hex.
// Register reads are pipelined: ReadRegister emits the command and queues
// the destination, and Flush later sends "<token> sync", consumes one reply
// line per queued read and finally expects "sync <token>". The token
// increments once per Flush, so any lost or extra line shows up as a
// protocol desync instead of a silently shifted value.
//
// Lines beginning with '#' are firmware diagnostics. They are handed to
// the diagnostic sink and never reach the protocol layer.
//
// Typical use:
//
//	s := swd.New(open, swd.WithDevice("/dev/ttyACM0"))
//	if err := s.Init(ctx); err != nil {
//		return err
//	}
//	var idcode uint32
//	s.SwitchSequence(swd.SeqJTAGToSWD)
//	s.ReadRegister(0xa5, &idcode, 0)
//	if err := s.Flush(ctx); err != nil {
//		return err
//	}
package swd
