// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"os"
	"path/filepath"
)

// DecodeFile opens path, picks the decoder registered for its extension and
// decodes the whole file into memory.
//
// Every failure is returned as a *DecodeError. Files without a registered
// decoder wrap ErrUnsupportedFormat and files that decode to nothing wrap
// ErrEmptyAsset.
func DecodeFile(reg *Registry, path string) (*Asset, error) {
	dec, ok := reg.Lookup(path)
	if !ok {
		return nil, &DecodeError{
			Path: path,
			Err:  fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path)),
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer src.Close()

	asset, err := ReadAsset(src)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	if asset.Frames() == 0 {
		return nil, &DecodeError{Path: path, Err: ErrEmptyAsset}
	}

	return asset, nil
}
