// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"github.com/Xuanwo/go-locale"
	"golang.org/x/text/language"
)

// Language parses loc into a language tag. An empty or unparsable loc falls back to the
// locale of the environment, and to English if that cannot be detected either.
func Language(loc string) language.Tag {
	if loc != "" {
		if tag, err := language.Parse(loc); err == nil {
			return tag
		}
	}
	tag, err := locale.Detect()
	if err != nil || tag == language.Und {
		return language.English
	}
	return tag
}
