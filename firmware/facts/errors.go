/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package facts

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedScope is wrapped by every failure to map a token to its
	// owning function.
	ErrMalformedScope = errors.New("malformed scope")
	// ErrGlobalScope marks tokens that belong to no function. Callers that
	// scan the whole token list skip these without logging.
	ErrGlobalScope = fmt.Errorf("%w: token is not inside a function", ErrMalformedScope)
)

// ModelIntegrityError reports a token that breaks an invariant the dump is
// expected to hold. The offending token is skipped; evaluation continues.
type ModelIntegrityError struct {
	Token string
	File  string
	Line  int
	Err   error
}

func (e *ModelIntegrityError) Error() string {
	return fmt.Sprintf("%s:%d: token %s: %v", e.File, e.Line, e.Token, e.Err)
}

func (e *ModelIntegrityError) Unwrap() error {
	return e.Err
}
