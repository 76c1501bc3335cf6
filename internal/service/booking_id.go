package service

import (
	"crypto/rand"
	"io"
)

const (
	bookingIDPrefix   = "BK"
	bookingIDLength   = 9
	bookingIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Largest multiple of len(alphabet) that fits in a byte; bytes at or
	// above it are discarded so every character is equally likely.
	bookingIDByteLimit = 256 - 256%len(bookingIDAlphabet)
)

// IDGenerator produces booking identifiers.
type IDGenerator func() (string, error)

// NewBookingID returns "BK" followed by nine characters drawn uniformly
// and independently from A-Z0-9.  Uniqueness against stored bookings is
// not checked.
func NewBookingID() (string, error) {
	return bookingIDFrom(rand.Reader)
}

func bookingIDFrom(r io.Reader) (string, error) {
	out := make([]byte, 0, len(bookingIDPrefix)+bookingIDLength)
	out = append(out, bookingIDPrefix...)
	buf := make([]byte, bookingIDLength*2)
	for len(out) < cap(out) {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= bookingIDByteLimit {
				continue
			}
			out = append(out, bookingIDAlphabet[int(b)%len(bookingIDAlphabet)])
			if len(out) == cap(out) {
				break
			}
		}
	}
	return string(out), nil
}
