/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package tag

import (
	"errors"
	"strings"
)

// Error is a name derivation failure. Subject names the type (or base) being
// rendered when known; Err is ErrNoName, ErrTooDeep or an underlying cause.
type Error struct {
	Subject string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("tagfx(tag): ")
	if e.Subject != "" {
		b.WriteString(e.Subject)
		b.WriteString(": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString(ErrNoName.Error())
	}
	if errors.Is(e.Err, ErrNoName) {
		b.WriteString(" (implement TypeTag or register with an explicit name)")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// wrapSubject fills in Subject on e when the innermost failure has none.
func wrapSubject(err error, subject string) error {
	var te *Error
	if errors.As(err, &te) && te.Subject == "" {
		return &Error{Subject: subject, Err: te.Err}
	}
	return err
}
