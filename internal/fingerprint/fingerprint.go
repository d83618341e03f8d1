// Package fingerprint computes stable structural hashes of arbitrary values.
//
// Values are encoded with canonical CBOR, so maps hash the same regardless of
// iteration order, and the encoding is hashed with xxh3.
package fingerprint

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/xxh3"
)

var encMode cbor.EncMode

func init() {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("fingerprint: build canonical encoder: %v", err))
	}
	encMode = mode
}

// Of returns the structural fingerprint of v. Two values that encode to the same
// canonical CBOR share a fingerprint.
func Of(v any) (uint64, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("fingerprint: encode %T: %w", v, err)
	}
	return xxh3.Hash(data), nil
}
