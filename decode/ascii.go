package decode

// ASCII is the US-ASCII decoder: every byte below 0x80 yields itself, and
// any other byte is a hard error. There is no ecosystem package worth
// depending on for a single range check.
var ASCII = Decoder{Name: "US-ASCII", New: newASCII}

func newASCII() Step {
	return asciiStep
}

func asciiStep(b byte) Result {
	if b >= 0x80 {
		return fail(&InvalidChar{Encoding: "US-ASCII", Detail: "byte >= 0x80"})
	}
	return yield(rune(b), asciiStep)
}

// Latin1 is the ISO-8859-1 decoder: every byte is its own codepoint, since
// the first 256 Unicode codepoints are defined to match Latin-1 byte for
// byte. A third-party transform would just reimplement this identity
// mapping, so it is hand-rolled.
var Latin1 = Decoder{Name: "ISO-8859-1", New: newLatin1}

func newLatin1() Step {
	return latin1Step
}

func latin1Step(b byte) Result {
	return yield(rune(b), latin1Step)
}
