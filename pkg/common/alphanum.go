// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import "strconv"

// NaturalLess reports whether a sorts before b in natural order, where runs
// of digits compare by numeric value instead of lexicographically, so that
// "bot-2" precedes "bot-10".
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		var ca, cb string
		ca, a = chunk(a)
		cb, b = chunk(b)

		ia, aerr := strconv.Atoi(ca)
		ib, berr := strconv.Atoi(cb)

		// Both chunks numeric: compare as integers.
		if aerr == nil && berr == nil {
			if ia != ib {
				return ia < ib
			}
			continue
		}

		if ca != cb {
			return ca < cb
		}
	}

	return a == "" && b != ""
}

// chunk splits off the leading run of digits or non-digits.
func chunk(s string) (head, tail string) {
	digits := isDigit(s[0])
	for i := 1; i < len(s); i++ {
		if isDigit(s[i]) != digits {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
