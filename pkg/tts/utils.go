package tts

import (
	"regexp"
	"strings"
)

var (
	newlineRunRegex    = regexp.MustCompile(`\n+`)
	whitespaceRunRegex = regexp.MustCompile(`\s+`)
	markdownReplacer   = strings.NewReplacer("*", "", "_", "", "~", "", "`", "", "#", "")
	controlReplacer    = strings.NewReplacer("\t", "", "\r", "", "\f", "", "\v", "")
)

// CleanForSpeech prepares a summary for the synthesis engine: newline runs
// become single spaces, markdown emphasis and heading markers are removed,
// whitespace runs collapse to single spaces and control characters are
// stripped. The summary returned to the caller keeps its formatting; only
// the text handed to synthesis goes through this.
func CleanForSpeech(text string) string {
	text = newlineRunRegex.ReplaceAllString(text, " ")
	text = markdownReplacer.Replace(text)
	text = whitespaceRunRegex.ReplaceAllString(text, " ")
	text = controlReplacer.Replace(text)
	return strings.TrimSpace(text)
}
