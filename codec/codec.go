package codec

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/lightninglabs/tierfee/terms"
	"github.com/lightningnetwork/lnd/lnwire"
)

// WriteElements writes each element in the elements slice to the passed buffer
// using WriteElement.
func WriteElements(w *bytes.Buffer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteElement writes the big endian representation of a fee rate or a
// 256-bit integer. 256-bit integers are always written as fixed 32 byte words
// so the encoding of a value never depends on its magnitude.
func WriteElement(w *bytes.Buffer, element interface{}) error {
	switch e := element.(type) {
	case terms.FeeRate:
		return lnwire.WriteUint32(w, uint32(e))

	case uint256.Int:
		word := e.Bytes32()
		return lnwire.WriteBytes(w, word[:])

	case *uint256.Int:
		if e == nil {
			return fmt.Errorf("cannot write nil uint256")
		}
		word := e.Bytes32()
		return lnwire.WriteBytes(w, word[:])

	default:
		return fmt.Errorf("unhandled element type: %T", element)
	}
}
