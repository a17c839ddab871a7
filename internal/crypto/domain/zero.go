package domain

// Zero overwrites key material with zeros. Nil slices are ignored.
func Zero(keys ...[]byte) {
	for _, b := range keys {
		clear(b)
	}
}
