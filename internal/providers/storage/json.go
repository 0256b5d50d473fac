package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/utils"
)

var documentLimit = utils.DefaultJSONValidator()

// ReadJSON decodes the document at path into v.
// A missing document yields ErrNotFound, a corrupt or oversized one ErrDecode.
func ReadJSON(ctx context.Context, s Store, path string, v interface{}) error {
	data, err := s.Read(ctx, path)
	if err != nil {
		return err
	}
	if err := documentLimit.ValidateSize(data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return nil
}

// WriteJSON encodes v and atomically writes it to path
func WriteJSON(ctx context.Context, s Store, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return s.Write(ctx, path, data)
}
