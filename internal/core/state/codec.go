package state

import (
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

var msgpackHandle = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	h.Canonical = true
	return h
}()

// Encode serializes a ledger entry.
func Encode(v any) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, msgpackHandle).Encode(v); err != nil {
		return nil, errors.Wrap(err, "encode ledger entry")
	}
	return out, nil
}

// Decode deserializes a ledger entry into v.
func Decode(data []byte, v any) error {
	if err := codec.NewDecoderBytes(data, msgpackHandle).Decode(v); err != nil {
		return errors.Wrap(err, "decode ledger entry")
	}
	return nil
}
