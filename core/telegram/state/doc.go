// Package state provides a lightweight per-chat session store for Telegram bots.
// It is intentionally domain-agnostic so it can be reused across bots; each bot
// parameterises the store with its own session type.
package state
