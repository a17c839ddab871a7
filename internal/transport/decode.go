package transport

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

var timeType = reflect.TypeOf(time.Time{})

// Decode copies a response map into a struct tagged with `mapstructure`. Numbers arrive as
// json.Number and timestamps as RFC 3339 strings; an empty timestamp decodes to the zero
// time. Shape mismatches are protocol violations.
func Decode(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToTimeHook,
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrProtocol, err)
	}
	return nil
}

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}
	s, _ := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
