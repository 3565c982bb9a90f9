package bot

import (
	"context"

	"crypto-analyst-bot/internal/models"
)

// Update is one inbound event from the chat platform. Identity is the
// stable external key for the sender; Command is empty for free text.
type Update struct {
	Identity string
	Username string
	Command  string
	Args     string
	Text     string
}

type Menu string

const (
	MenuNone  Menu = ""
	MenuMain  Menu = "main"
	MenuAdmin Menu = "admin"
)

type Reply struct {
	Text string
	Menu Menu
}

// Replier sends replies back over the chat transport. The transport itself
// lives outside this module.
type Replier interface {
	Reply(ctx context.Context, identity string, reply Reply) error
}

// Analyzer is the market-analysis collaborator the dispatcher hands
// feature commands to.
type Analyzer interface {
	Handle(ctx context.Context, user *models.User, command, query string) (string, error)
}
