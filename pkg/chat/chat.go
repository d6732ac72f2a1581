// Package chat formats the plain-text chat lines of the beta wire protocol.
package chat

import "unicode/utf8"

// MaxLength is the longest chat line the client accepts, in characters.
const MaxLength = 100

// Color is a section-sign colour code prefix.
type Color string

const (
	Black     Color = "§0"
	DarkBlue  Color = "§1"
	DarkGreen Color = "§2"
	DarkAqua  Color = "§3"
	DarkRed   Color = "§4"
	Purple    Color = "§5"
	Gold      Color = "§6"
	Gray      Color = "§7"
	DarkGray  Color = "§8"
	Blue      Color = "§9"
	Green     Color = "§a"
	Aqua      Color = "§b"
	Red       Color = "§c"
	Pink      Color = "§d"
	Yellow    Color = "§e"
	White     Color = "§f"
)

// Colored prefixes text with a colour code.
func Colored(text string, c Color) string {
	return string(c) + text
}

// Player formats a line said by nick.
func Player(nick, text string) string {
	return "<" + nick + "> " + text
}

// Joined is the announcement for a player entering the world.
func Joined(nick string) string {
	return Colored(nick+" connected!", Yellow)
}

// Left is the announcement for a player leaving the world.
func Left(nick string) string {
	return Colored(nick+" disconnected!", Yellow)
}

// Truncate cuts s to at most MaxLength characters.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxLength {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxLength {
			return s[:i]
		}
		n++
	}
	return s
}
