// Package links builds shareable deep links for published forms and resolves
// the start triggers they deliver back to the user bot.
package links

import (
	"fmt"
	"strconv"
	"strings"
)

// Legacy textual triggers kept for backward compatibility with links that were
// shared before command-based starting existed.
const (
	legacyStartPrefix = "START_"
	legacyFillPrefix  = "FILL_"
)

// Builder renders external URIs that open a chat with the user bot and
// pre-fill the start trigger for a specific form.
type Builder struct {
	botUsername string
	publicURL   string
}

// NewBuilder configures link construction. publicURL may be empty when the
// landing-page server is not exposed.
func NewBuilder(botUsername, publicURL string) *Builder {
	return &Builder{
		botUsername: strings.TrimPrefix(botUsername, "@"),
		publicURL:   strings.TrimRight(publicURL, "/"),
	}
}

// BotLink returns the Telegram deep link delivering "/start <formID>" when opened.
func (b *Builder) BotLink(formID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", b.botUsername, formID)
}

// PageLink returns the landing-page URL for a form, or "" when no public URL
// is configured.
func (b *Builder) PageLink(formID int64) string {
	if b.publicURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/form/%d", b.publicURL, formID)
}

// ParseTrigger extracts a form id from a bare inbound line when it is one of
// the legacy trigger tokens (START_<id>, FILL_<id>).
func ParseTrigger(text string) (int64, bool) {
	trimmed := strings.TrimSpace(text)
	for _, prefix := range []string{legacyStartPrefix, legacyFillPrefix} {
		if rest, ok := strings.CutPrefix(trimmed, prefix); ok {
			return ParseFormID(rest)
		}
	}
	return 0, false
}

// ParseFormID parses a form id argument. Legacy trigger tokens are accepted
// here too, so "/start START_7" and "/fill 7" resolve identically.
func ParseFormID(arg string) (int64, bool) {
	trimmed := strings.TrimSpace(arg)
	for _, prefix := range []string{legacyStartPrefix, legacyFillPrefix} {
		trimmed = strings.TrimPrefix(trimmed, prefix)
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
