package stringutil

import "math/rand/v2"

const randomCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Empty returns true if any of the values is an empty string.
func Empty(vals ...string) bool {
	for _, val := range vals {
		if val == "" {
			return true
		}
	}

	return false
}

func Random(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = randomCharset[rand.IntN(len(randomCharset))]
	}
	return string(b)
}
