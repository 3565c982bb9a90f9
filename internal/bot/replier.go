package bot

import (
	"context"
	"log/slog"
)

// LogReplier writes outbound replies to the log. It stands in for the chat
// transport when the process runs without one wired in.
type LogReplier struct {
	log *slog.Logger
}

func NewLogReplier(log *slog.Logger) *LogReplier {
	return &LogReplier{log: log}
}

func (r *LogReplier) Reply(ctx context.Context, identity string, reply Reply) error {
	r.log.Info("outbound reply",
		slog.String("identity", identity),
		slog.String("menu", string(reply.Menu)),
		slog.String("text", reply.Text),
	)
	return nil
}
