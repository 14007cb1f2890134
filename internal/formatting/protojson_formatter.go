package formatting

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoJSONFormatter renders results as a google.protobuf.Value in canonical protojson.
type ProtoJSONFormatter struct {
	options Options
}

// Format implements Formatter.
func (f *ProtoJSONFormatter) Format(w io.Writer, data any) error {
	msg, ok := data.(proto.Message)
	if !ok {
		generic, err := Generic(data)
		if err != nil {
			return err
		}
		value, err := structpb.NewValue(generic)
		if err != nil {
			return fmt.Errorf("failed to convert result to protobuf: %w", err)
		}
		msg = value
	}

	opts := protojson.MarshalOptions{Multiline: !f.options.Quiet, Indent: "  "}
	b, err := opts.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to format protojson: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
