package apdu

// Kind is the decoded instruction after P1/P2 validation.
type Kind int

const (
	KindGetVersion Kind = iota + 1
	KindGetAppName
	KindGetPubkey
	KindSignTx
)

// Instruction is the total decoding of (INS, P1, P2). Display applies to
// GetPubkey, Chunk and More to SignTx.
type Instruction struct {
	Kind    Kind
	Display bool
	Chunk   byte
	More    bool
}

// DecodeInstruction validates the parameter bytes of a command. It never
// panics: unknown instructions map to StatusInsNotSupported and illegal
// parameters to StatusWrongP1P2.
func DecodeInstruction(cmd Command) (Instruction, error) {
	if cmd.CLA != CLA {
		return Instruction{}, StatusClaNotSupported
	}

	switch cmd.Ins {
	case InsGetVersion:
		if cmd.P1 != P1P2Unused || cmd.P2 != P1P2Unused {
			return Instruction{}, StatusWrongP1P2
		}
		return Instruction{Kind: KindGetVersion}, nil

	case InsGetAppName:
		if cmd.P1 != P1P2Unused || cmd.P2 != P1P2Unused {
			return Instruction{}, StatusWrongP1P2
		}
		return Instruction{Kind: KindGetAppName}, nil

	case InsGetPubkey:
		if cmd.P1 != P1NoConfirm && cmd.P1 != P1Confirm {
			return Instruction{}, StatusWrongP1P2
		}
		if cmd.P2 != P2Unused {
			return Instruction{}, StatusWrongP1P2
		}
		return Instruction{Kind: KindGetPubkey, Display: cmd.P1 == P1Confirm}, nil

	case InsSignTx:
		if cmd.P1 > P1SignMax {
			return Instruction{}, StatusWrongP1P2
		}
		if cmd.P2 != P2SignLast && cmd.P2 != P2SignMore {
			return Instruction{}, StatusWrongP1P2
		}
		// a lone chunk 0 carries only the path and can never be the last one
		if cmd.P1 == P1SignStart && cmd.P2 != P2SignMore {
			return Instruction{}, StatusWrongP1P2
		}
		return Instruction{Kind: KindSignTx, Chunk: cmd.P1, More: cmd.P2 == P2SignMore}, nil

	default:
		return Instruction{}, StatusInsNotSupported
	}
}
