package tui

import "strings"

// Command is one parsed ":" prompt entry.
type Command struct {
	Name string
	Args string
}

// aliases maps the short forms the prompt accepts onto canonical command
// names.
var aliases = map[string]string{
	"q":            "quit",
	"h":            "help",
	"f":            "feed",
	"m":            "mates",
	"c":            "chats",
	"p":            "profile",
	"thoughtmates": "mates",
}

// ParseCommand parses a prompt entry (without the leading ':'). Names are
// case-insensitive and aliases resolve to their canonical form; arguments
// keep their case.
func ParseCommand(input string) Command {
	name, args, _ := strings.Cut(strings.TrimSpace(input), " ")
	name = strings.ToLower(name)
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	return Command{Name: name, Args: strings.TrimSpace(args)}
}
