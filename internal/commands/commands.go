// Package commands handles slash command parsing for the debatecore TUI.
package commands

import (
	"strings"
)

// Command interface for all command types
type Command interface {
	Type() string
}

// Help returns help text
type Help struct{}

func (Help) Type() string { return "help" }

// Upload sends a local file to the backend for indexing
type Upload struct {
	Path string
}

func (Upload) Type() string { return "upload" }

// Refresh fetches backend status now
type Refresh struct{}

func (Refresh) Type() string { return "refresh" }

// Clear empties the transcript pane
type Clear struct{}

func (Clear) Type() string { return "clear" }

// Export prints the current transcript as markdown
type Export struct{}

func (Export) Type() string { return "export" }

// History opens the list of debates from this session
type History struct{}

func (History) Type() string { return "history" }

// Quit leaves the TUI
type Quit struct{}

func (Quit) Type() string { return "quit" }

// ParseError represents a command parsing error
type ParseError struct {
	Message string
}

func (ParseError) Type() string { return "error" }

// Parse parses user input and returns the appropriate Command.
// Returns nil if the input is not a slash command, in which case it is
// a debate query.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	// Split into command and arguments
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	// keep inner spacing of paths intact
	rest := strings.TrimSpace(input[len(parts[0]):])

	switch cmd {
	case "/help", "/?":
		return Help{}

	case "/upload":
		if rest == "" {
			return ParseError{Message: "/upload requires a path"}
		}
		return Upload{Path: unquote(rest)}

	case "/refresh", "/status":
		return Refresh{}

	case "/clear":
		return Clear{}

	case "/export":
		return Export{}

	case "/history":
		return History{}

	case "/quit", "/exit", "/q":
		return Quit{}

	default:
		return ParseError{Message: "unknown command: " + cmd}
	}
}

// unquote strips one pair of matching quotes around a path
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// HelpText returns the help text for all available commands.
func HelpText() string {
	return `Available commands:
  /help           - Show this help
  /upload <path>  - Upload a document to the knowledge base
  /refresh        - Refresh backend status now
  /clear          - Clear the transcript
  /export         - Show the current transcript as markdown
  /history        - Browse debates from this session
  /quit           - Exit

Anything else is sent to the debate as a question.`
}
