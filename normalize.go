package xml

// normalizer collapses "\r\n" and bare "\r" to "\n", per XML 1.0 §2.11, as a
// per-codepoint step with one codepoint of lookahead. It has the same
// suspend/resume shape as a decode.Step but operates on runes instead of
// bytes, since it sits between the decoder and the lexer in the driver's
// per-codepoint pipeline.
//
// Two states: Idle and AfterCR. In Idle, a bare codepoint passes through
// unchanged; a '\r' is held (nothing emitted yet) and the normalizer enters
// AfterCR. In AfterCR, the held '\r' resolves to a '\n' regardless of what
// follows: a following '\n' is swallowed (it was the second half of a
// "\r\n" pair), a following '\r' starts a new hold, and anything else
// passes through immediately after the resolved '\n'.
type normalizer struct {
	afterCR bool
}

// normResult carries the zero, one, or two codepoints produced by one step.
// A consumer should check Emit0 before Out0, and Emit1 before Out1 — Emit1
// is only ever true alongside Emit0.
type normResult struct {
	Emit0 bool
	Out0  rune
	Emit1 bool
	Out1  rune
}

func (n *normalizer) step(cp rune) normResult {
	if n.afterCR {
		n.afterCR = false
		switch cp {
		case '\n':
			return normResult{Emit0: true, Out0: '\n'}
		case '\r':
			n.afterCR = true
			return normResult{Emit0: true, Out0: '\n'}
		default:
			return normResult{Emit0: true, Out0: '\n', Emit1: true, Out1: cp}
		}
	}

	if cp == '\r' {
		n.afterCR = true
		return normResult{}
	}
	return normResult{Emit0: true, Out0: cp}
}
