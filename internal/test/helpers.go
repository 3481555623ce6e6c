package test

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/treelinedb/gotreeline/rpc"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// Dataset is a test dataset connection with a fixed key and an optional
// resolution error
type Dataset struct {
	DatasetKey rpc.DatasetKey
	Err        error
}

func (d *Dataset) Key() (rpc.DatasetKey, error) {
	if d.Err != nil {
		return rpc.DatasetKey{}, d.Err
	}
	return d.DatasetKey, nil
}
