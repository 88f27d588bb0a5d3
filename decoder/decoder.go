package decoder

import (
	"errors"
	"strings"

	"github.com/zetflow/zetflow-live/model"
)

// ErrMalformed is wrapped by every error caused by a payload of the wrong shape.
var ErrMalformed = errors.New("malformed vehicle payload")

// Decoder turns one raw feed payload into the vehicles it carries.
type Decoder interface {
	Decode(payload []byte) ([]model.VehicleRecord, error)
}

// Func adapts a plain function to the Decoder interface.
type Func func(payload []byte) ([]model.VehicleRecord, error)

// Decode calls f(payload).
func (f Func) Decode(payload []byte) ([]model.VehicleRecord, error) { return f(payload) }

// ContentTypeDecoder selects a decoder from the content type of a frame.
type ContentTypeDecoder interface {
	Decoder
	DecodeContent(contentType string, payload []byte) ([]model.VehicleRecord, error)
}

type byContentType struct {
	json     Decoder
	protobuf Decoder
}

// ByContentType returns a decoder that reads GTFS-Realtime protobuf frames when the
// content type says so, and JSON arrays otherwise.
func ByContentType() ContentTypeDecoder {
	return byContentType{json: JSON, protobuf: Protobuf}
}

func (d byContentType) Decode(payload []byte) ([]model.VehicleRecord, error) {
	return d.json.Decode(payload)
}

func (d byContentType) DecodeContent(contentType string, payload []byte) ([]model.VehicleRecord, error) {
	if IsProtobuf(contentType) {
		return d.protobuf.Decode(payload)
	}
	return d.json.Decode(payload)
}

// IsProtobuf reports whether contentType names a binary protobuf body.
func IsProtobuf(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "application/x-protobuf", "application/protobuf", "application/octet-stream":
		return true
	}
	return false
}
