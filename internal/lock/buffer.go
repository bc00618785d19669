package lock

import (
	"unicode/utf8"

	"github.com/awnumar/memguard"
)

// ClearBytes securely wipes a byte slice by overwriting with zeros.
func ClearBytes(b []byte) {
	memguard.WipeBytes(b)
}

// ---- Password Entry Buffer

// Buffer holds in-flight password input for the lock screen. Contents are
// wiped, not just truncated, whenever the buffer is cleared, and are never
// written anywhere. The buffer is owned by the render loop; it is not safe
// for concurrent use.
type Buffer struct {
	data []byte
}

// NewBuffer creates an empty password entry buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		data: make([]byte, 0, 256),
	}
}

// AppendRune adds a rune to the buffer, properly encoding UTF-8.
func (b *Buffer) AppendRune(r rune) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	b.data = append(b.data, buf[:n]...)
}

// Backspace removes the last rune from the buffer.
// Returns true if data was removed.
func (b *Buffer) Backspace() bool {
	if len(b.data) == 0 {
		return false
	}

	_, size := utf8.DecodeLastRune(b.data)
	end := len(b.data) - size
	ClearBytes(b.data[end:])
	b.data = b.data[:end]
	return true
}

// Clear securely wipes and resets the buffer.
func (b *Buffer) Clear() {
	ClearBytes(b.data)
	b.data = b.data[:0]
}

// Len returns the length of the buffer in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// RuneLen returns the number of characters in the buffer, for masked
// rendering.
func (b *Buffer) RuneLen() int {
	return utf8.RuneCount(b.data)
}

// Bytes returns a copy of the buffer contents.
// The returned slice should be cleared after use.
func (b *Buffer) Bytes() []byte {
	result := make([]byte, len(b.data))
	copy(result, b.data)
	return result
}

// Destroy wipes the buffer and releases it.
func (b *Buffer) Destroy() {
	ClearBytes(b.data)
	b.data = nil
}
