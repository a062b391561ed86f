package assemble

// Placeholder is one [TYPE:ID] token located in answer text. Start and End
// are byte offsets; text[Start:End] is the literal token.
type Placeholder struct {
	Start int
	End   int
	Type  string
	ID    string
}

// Literal returns the token as it appeared in the text.
func (p Placeholder) Literal(text string) string { return text[p.Start:p.End] }

// Scan returns the placeholder tokens in text, left to right. A token is an
// opening bracket, a type made of ASCII letters or underscores, a colon, an ID
// of one or more characters that are neither whitespace nor brackets, and a
// closing bracket. Anything else is plain text.
func Scan(text string) []Placeholder {
	var out []Placeholder
	pos := 0
	for pos < len(text) {
		if text[pos] != '[' {
			pos++
			continue
		}
		p, ok := scanToken(text, pos)
		if !ok {
			pos++
			continue
		}
		out = append(out, p)
		pos = p.End
	}
	return out
}

// scanToken tries to read a placeholder starting at the '[' at start.
func scanToken(text string, start int) (Placeholder, bool) {
	i := start + 1

	typeStart := i
	for i < len(text) && isTypeByte(text[i]) {
		i++
	}
	if i == typeStart || i >= len(text) || text[i] != ':' {
		return Placeholder{}, false
	}
	typeEnd := i
	i++

	idStart := i
	for i < len(text) && isIDByte(text[i]) {
		i++
	}
	if i == idStart || i >= len(text) || text[i] != ']' {
		return Placeholder{}, false
	}

	return Placeholder{
		Start: start,
		End:   i + 1,
		Type:  text[typeStart:typeEnd],
		ID:    text[idStart:i],
	}, true
}

func isTypeByte(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIDByte(c byte) bool {
	switch c {
	case '[', ']', ' ', '\t', '\n', '\r', '\v', '\f':
		return false
	}
	return true
}
