package swd

// Sequence is a fixed SWD line-sequence control command.
type Sequence string

const (
	SeqLineReset Sequence = "line_reset"
	SeqJTAGToSWD Sequence = "jtag_to_swd"
	SeqSWDToJTAG Sequence = "swd_to_jtag"
)

// Valid reports whether the peer understands seq.
func (seq Sequence) Valid() bool {
	switch seq {
	case SeqLineReset, SeqJTAGToSWD, SeqSWDToJTAG:
		return true
	}
	return false
}
