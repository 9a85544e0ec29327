package command

// frameDelimiter terminates every frame and never appears inside an encoded frame.
const frameDelimiter = 0x00

// cobsMaxEncodedLen is the worst-case COBS encoding size of n payload bytes,
// excluding the trailing delimiter.
func cobsMaxEncodedLen(n int) int {
	return n + n/254 + 1
}

// cobsEncode stuffs src so that it contains no zero bytes. The delimiter is not appended.
func cobsEncode(src []byte) []byte {
	dst := make([]byte, 1, cobsMaxEncodedLen(len(src)))
	codeIdx := 0
	code := byte(1)

	for _, b := range src {
		if b == frameDelimiter {
			dst[codeIdx] = code
			codeIdx = len(dst)
			dst = append(dst, 0)
			code = 1
			continue
		}
		dst = append(dst, b)
		code++
		if code == 0xff {
			dst[codeIdx] = code
			codeIdx = len(dst)
			dst = append(dst, 0)
			code = 1
		}
	}
	dst[codeIdx] = code
	return dst
}

// cobsDecode reverses cobsEncode. src must not include the delimiter.
func cobsDecode(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))

	for i := 0; i < len(src); {
		code := src[i]
		if code == frameDelimiter {
			return nil, ErrMalformedFrame
		}
		i++

		end := i + int(code) - 1
		if end > len(src) {
			return nil, ErrMalformedFrame
		}
		for ; i < end; i++ {
			if src[i] == frameDelimiter {
				return nil, ErrMalformedFrame
			}
			dst = append(dst, src[i])
		}
		// A block shorter than 0xff implies a zero that was removed, unless it ends the data.
		if code != 0xff && i < len(src) {
			dst = append(dst, frameDelimiter)
		}
	}
	return dst, nil
}
