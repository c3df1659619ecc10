// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/encoding/gocode/gocodec"
)

// Validate performs a validation of the provided configuration value, returning
// a list of invalid paths and a CUE errors.Error explaining the issues found if
// the configuration is invalid according to the provided schema.
func Validate(schema string, cfg any) (paths [][]string, err error) {
	ctx := cuecontext.New()

	v := ctx.CompileString(schema)
	codec := gocodec.New(ctx, nil)

	w, err := codec.Decode(cfg)
	if err != nil {
		return nil, err
	}

	u := v.Unify(w)
	err = u.Validate(cue.Concrete(true), cue.Final())
	errs := cerrors.Errors(err)
	if len(errs) != 0 {
		paths = make([][]string, 0, len(errs))
		err = cerrors.Append(
			cerrors.Promote(err, ""),
			cerrors.Promote(fmt.Errorf("%s", u), "not concrete"),
		)
	}
	for _, err := range errs {
		p := cerrors.Path(err)
		if p != nil {
			paths = append(paths, p)
		}
	}

	return unique(paths), err
}

// unique returns paths lexically sorted in ascending order with repeated
// elements omitted.
func unique(paths [][]string) [][]string {
	if len(paths) < 2 {
		return paths
	}
	slices.SortFunc(paths, slices.Compare)
	return slices.CompactFunc(paths, func(a, b []string) bool {
		return slices.Compare(a, b) == 0
	})
}
