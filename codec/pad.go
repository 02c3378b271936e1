package codec

import "bytes"

// Pad appends PKCS#7 padding so the result is a whole number of blocks.
// Padding is always added, so aligned input gains a full block.
func Pad(data []byte) []byte {
	n := BlockSize - len(data)%BlockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

// Unpad strips PKCS#7 padding. data must be a non-empty multiple of the
// block size. The returned slice aliases data.
func Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, &FormatError{Len: len(data), Reason: "padded data is not block aligned"}
	}
	last := data[len(data)-1]
	n := int(last)
	if n < 1 || n > BlockSize {
		return nil, &PaddingError{PadByte: last}
	}
	for _, b := range data[len(data)-n:] {
		if b != last {
			return nil, &PaddingError{PadByte: last}
		}
	}
	return data[:len(data)-n], nil
}
