// Package docstore implements the domain repositories on top of the
// document-store adapter. Each repository owns the mapping between its
// domain struct and the flat JSON document the store holds.
package docstore

import (
	"encoding/json"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

func encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode record", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode record", err)
	}
	return fields, nil
}

func decode(fields map[string]any, out any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to decode record", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return common.NewError(common.CodeInternal, "failed to decode record", err)
	}
	return nil
}
