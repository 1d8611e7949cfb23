package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/projection"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeSearch Type = "search"
	TypeSort   Type = "sort"
	TypeTheme  Type = "theme"
	TypeToggle Type = "toggle"
	TypeDelete Type = "delete"
	TypeEdit   Type = "edit"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type ThemeChoice string

const (
	ThemeDark   ThemeChoice = "dark"
	ThemeLight  ThemeChoice = "light"
	ThemeToggle ThemeChoice = "toggle"
)

type AddArgs struct {
	Text string
}

type SearchArgs struct {
	Text string
}

type SortArgs struct {
	Mode projection.SortMode
}

type ThemeArgs struct {
	Choice ThemeChoice
}

type EditArgs struct {
	Text string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Search *SearchArgs
	Sort   *SortArgs
	Theme  *ThemeArgs
	Edit   *EditArgs
}

var aliases = map[string]Type{
	"new":    TypeAdd,
	"find":   TypeSearch,
	"filter": TypeSearch,
	"order":  TypeSort,
	"done":   TypeToggle,
	"rm":     TypeDelete,
	"del":    TypeDelete,
	"rename": TypeEdit,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(raw, "/"), ":"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	head, rest, _ := strings.Cut(raw, " ")
	head = strings.ToLower(head)
	rest = strings.TrimSpace(rest)
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeAdd:
		return parseAdd(input, rest)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Text: rest}}, nil
	case TypeSort:
		return parseSort(input, rest)
	case TypeTheme:
		return parseTheme(input, rest)
	case TypeToggle, TypeDelete:
		return Command{Type: typ, Raw: input}, nil
	case TypeEdit:
		return Command{Type: TypeEdit, Raw: input, Edit: &EditArgs{Text: rest}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, rest string) (Command, error) {
	if rest == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: rest}}, nil
}

func parseSort(raw string, rest string) (Command, error) {
	if rest == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sort requires a mode (default, alphabetical, status)"}
	}
	mode, err := projection.ParseSortMode(rest)
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Mode: mode}}, nil
}

func parseTheme(raw string, rest string) (Command, error) {
	choice := ThemeChoice(strings.ToLower(rest))
	if choice == "" {
		choice = ThemeToggle
	}
	switch choice {
	case ThemeDark, ThemeLight, ThemeToggle:
		return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Choice: choice}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("theme must be dark, light or toggle, got %q", rest)}
	}
}
