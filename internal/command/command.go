package command

import (
	"strconv"
	"strings"
)

// Verb is the closed set of recognized commands.
type Verb string

const (
	VerbBuy   Verb = "BUY"
	VerbSell  Verb = "SELL"
	VerbReset Verb = "RESET"
)

// Command is a parsed inbound mutation.
type Command struct {
	Verb   Verb
	Symbol string
	Shares int64
}

// Parse reads one inbound message body. Matching is case-insensitive on
// whitespace-delimited tokens; a leading "/" on the verb is accepted since
// chat clients send commands that way. The second return is false for
// anything that is not a well-formed command, malformed argument lists
// included.
func Parse(text string) (Command, bool) {
	fields := strings.Fields(strings.ToUpper(strings.TrimSpace(text)))
	if len(fields) == 0 {
		return Command{}, false
	}
	verb := strings.TrimPrefix(fields[0], "/")

	switch verb {
	case string(VerbBuy):
		if len(fields) != 3 {
			return Command{}, false
		}
		shares, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Command{}, false
		}
		return Command{Verb: VerbBuy, Symbol: fields[1], Shares: shares}, true
	case string(VerbSell):
		if len(fields) != 2 {
			return Command{}, false
		}
		return Command{Verb: VerbSell, Symbol: fields[1]}, true
	case string(VerbReset):
		if len(fields) != 1 {
			return Command{}, false
		}
		return Command{Verb: VerbReset}, true
	}
	return Command{}, false
}
