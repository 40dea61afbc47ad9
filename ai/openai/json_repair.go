package openai

// repairJSON attempts to fix common JSON defects in LLM responses before
// unmarshaling: unquoted object keys and trailing commas. Anything it cannot
// recognize is passed through untouched so valid JSON is never damaged.
func repairJSON(s string) string {
	in := []byte(s)
	out := make([]byte, 0, len(in)+16)

	inString := false
	for i := 0; i < len(in); i++ {
		ch := in[i]

		if inString {
			out = append(out, ch)
			if ch == '\\' && i+1 < len(in) {
				out = append(out, in[i+1])
				i++
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			out = append(out, ch)

		case '{', ',':
			out = append(out, ch)
			j := i + 1
			for j < len(in) && isSpace(in[j]) {
				j++
			}
			// Unquoted key: a bare word followed by ':' or '":'.
			if j < len(in) && isKeyByte(in[j]) {
				k := j
				for k < len(in) && isKeyByte(in[k]) {
					k++
				}
				if k < len(in) && (in[k] == ':' || (in[k] == '"' && k+1 < len(in) && in[k+1] == ':')) {
					out = append(out, in[i+1:j]...)
					out = append(out, '"')
					out = append(out, in[j:k]...)
					out = append(out, '"', ':')
					if in[k] == ':' {
						i = k
					} else {
						i = k + 1
					}
				}
			}

		case ']', '}':
			// Drop a trailing comma before a closer.
			for len(out) > 0 && isSpace(out[len(out)-1]) {
				out = out[:len(out)-1]
			}
			if len(out) > 0 && out[len(out)-1] == ',' {
				out = out[:len(out)-1]
			}
			out = append(out, ch)

		default:
			out = append(out, ch)
		}
	}

	return string(out)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isKeyByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}
