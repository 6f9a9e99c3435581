package hunt

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("invalid number of arguments")
)

// variadic marks a command that takes one or more arguments.
const variadic = -1

// Command is one parsed line of the text protocol.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

// Lines splits a script into commands, one per non-blank line.
func Lines(script string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range byPiece(script, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// parseCommand splits line and checks its argument count against nargs,
// which maps every known command to its number of arguments.
func parseCommand(line string, nargs map[string]int) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrUnknownCommand
	}
	c := Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}
	n, ok := nargs[c.Name]
	if !ok {
		return c, fmt.Errorf("%w %q", ErrUnknownCommand, c.Name)
	}
	if n == variadic && len(c.Args) == 0 || n != variadic && n != len(c.Args) {
		return c, fmt.Errorf("%w for %q", ErrBadArguments, c.Name)
	}
	return c, nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d must be an int", i+1)
		}
		out[i] = n
	}
	return out, nil
}
