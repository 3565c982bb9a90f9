package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/internal/repository"
	"crypto-analyst-bot/internal/service"
	"crypto-analyst-bot/internal/session"

	"github.com/google/uuid"
)

const (
	CommandStart   = "start"
	CommandAdmin   = "admin"
	CommandAnalyze = "analyze"
	CommandQuick   = "quick"
	CommandNews    = "news"
	CommandChart   = "chart"
	CommandID      = "id"
)

// Dispatcher routes inbound chat events to the directory, registry and
// analysis features. One dispatcher serves all conversations; per-identity
// locking keeps a single conversation's events in arrival order.
type Dispatcher struct {
	directory service.Directory
	registry  service.Registry
	coinsRepo repository.CoinsRepository
	sessions  *session.Store
	locks     *session.KeyedMutex
	analyzer  Analyzer
	replier   Replier
	currency  string
	log       *slog.Logger
}

func NewDispatcher(
	directory service.Directory,
	registry service.Registry,
	coinsRepo repository.CoinsRepository,
	sessions *session.Store,
	analyzer Analyzer,
	replier Replier,
	currency string,
	log *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		directory: directory,
		registry:  registry,
		coinsRepo: coinsRepo,
		sessions:  sessions,
		locks:     session.NewKeyedMutex(),
		analyzer:  analyzer,
		replier:   replier,
		currency:  currency,
		log:       log,
	}
}

// HandleCommand processes one slash command. Errors never escape: every
// failure degrades to a reply so one broken conversation cannot take down
// the others.
func (d *Dispatcher) HandleCommand(ctx context.Context, update Update) {
	d.locks.Lock(update.Identity)
	defer d.locks.Unlock(update.Identity)

	log := d.log.With("request_id", uuid.NewString(), "identity", update.Identity, "command", update.Command)

	user, ok := d.admitUser(ctx, update, log)
	if !ok {
		return
	}

	switch update.Command {
	case CommandStart:
		d.recordActivity(ctx, user, "", "command_start", "", log)
		d.reply(ctx, update.Identity, Reply{Text: localize(user.Language, msgWelcome), Menu: MenuMain}, log)

	case CommandAdmin:
		d.handleAdmin(ctx, update, user, log)

	case CommandQuick:
		d.handleQuick(ctx, update, user, log)

	case CommandAnalyze, CommandNews, CommandChart:
		d.handleAnalysis(ctx, update, user, log)

	case CommandID:
		d.reply(ctx, update.Identity, Reply{Text: update.Identity}, log)

	default:
		d.reply(ctx, update.Identity, Reply{Text: localize(user.Language, msgUnknownCommand)}, log)
	}
}

// HandleMessage processes free text. If the conversation is waiting for
// input, the pending command consumes it; otherwise the text goes straight
// to the analysis agent.
func (d *Dispatcher) HandleMessage(ctx context.Context, update Update) {
	d.locks.Lock(update.Identity)
	defer d.locks.Unlock(update.Identity)

	log := d.log.With("request_id", uuid.NewString(), "identity", update.Identity)

	user, ok := d.admitUser(ctx, update, log)
	if !ok {
		return
	}

	command := CommandAnalyze
	if state, pending := d.sessions.Get(update.Identity); pending {
		command = state.Command
		d.sessions.Clear(update.Identity)
	}

	d.recordActivity(ctx, user, "", "message", update.Text, log)

	text, err := d.analyzer.Handle(ctx, user, command, update.Text)
	if err != nil {
		log.Error("analysis failed", "error", err)
		d.reply(ctx, update.Identity, Reply{Text: localize(user.Language, msgGenericFailure)}, log)
		return
	}

	d.reply(ctx, update.Identity, Reply{Text: text, Menu: MenuMain}, log)
}

// admitUser resolves the sender and applies the ban gate. It must run
// before any stateful action.
func (d *Dispatcher) admitUser(ctx context.Context, update Update, log *slog.Logger) (*models.User, bool) {
	user, err := d.directory.ResolveOrCreate(ctx, update.Identity, update.Username)
	if err != nil {
		log.Error("failed to resolve user", "error", err)
		d.reply(ctx, update.Identity, Reply{Text: msgGenericFailure}, log)
		return nil, false
	}

	if d.directory.IsBanned(user) {
		d.reply(ctx, update.Identity, Reply{Text: localize(user.Language, msgNoPermission)}, log)
		return nil, false
	}

	return user, true
}

func (d *Dispatcher) handleAdmin(ctx context.Context, update Update, user *models.User, log *slog.Logger) {
	authorized, err := d.registry.IsAuthorized(ctx, update.Identity)
	if err != nil {
		log.Error("authorization check failed", "error", err)
		d.reply(ctx, update.Identity, Reply{Text: localize(user.Language, msgGenericFailure)}, log)
		return
	}

	if !authorized {
		d.reply(ctx, update.Identity, Reply{Text: localize(user.Language, msgNotAuthorized)}, log)
		return
	}

	d.reply(ctx, update.Identity, Reply{Text: msgAdminWelcome, Menu: MenuAdmin}, log)
}

// handleQuick answers a price lookup straight from the store.
func (d *Dispatcher) handleQuick(ctx context.Context, update Update, user *models.User, log *slog.Logger) {
	coinID := strings.ToLower(strings.TrimSpace(update.Args))
	if coinID == "" {
		d.sessions.Set(update.Identity, session.State{Awaiting: "coin", Command: CommandQuick})
		d.reply(ctx, update.Identity, Reply{Text: localize(user.Language, msgAskCoin)}, log)
		return
	}

	d.recordActivity(ctx, user, coinID, "command_quick", "", log)

	coin, err := d.coinsRepo.GetCoin(coinID)
	if err != nil {
		d.reply(ctx, update.Identity, Reply{Text: fmt.Sprintf("I couldn't find %q. Try the full CoinGecko id, e.g. \"bitcoin\".", coinID)}, log)
		return
	}

	price, err := d.coinsRepo.GetPrice(coin.ID, d.currency)
	if err != nil {
		d.reply(ctx, update.Identity, Reply{Text: fmt.Sprintf("No price data for %s yet, try again in a minute.", coin.Name)}, log)
		return
	}

	text := fmt.Sprintf("%s (%s): %s %s (24h: %s%%)",
		coin.Name, strings.ToUpper(coin.Symbol),
		price.Price.StringFixed(4), strings.ToUpper(price.Currency),
		price.Change24h.StringFixed(2))
	d.reply(ctx, update.Identity, Reply{Text: text, Menu: MenuMain}, log)
}

func (d *Dispatcher) handleAnalysis(ctx context.Context, update Update, user *models.User, log *slog.Logger) {
	query := strings.TrimSpace(update.Args)
	if query == "" {
		d.sessions.Set(update.Identity, session.State{Awaiting: "coin", Command: update.Command})
		d.reply(ctx, update.Identity, Reply{Text: localize(user.Language, msgAskCoin)}, log)
		return
	}

	d.recordActivity(ctx, user, query, "command_"+update.Command, "", log)

	text, err := d.analyzer.Handle(ctx, user, update.Command, query)
	if err != nil {
		log.Error("analysis failed", "error", err)
		d.reply(ctx, update.Identity, Reply{Text: localize(user.Language, msgGenericFailure)}, log)
		return
	}

	d.reply(ctx, update.Identity, Reply{Text: text, Menu: MenuMain}, log)
}

// recordActivity is fire-and-forget from the user's point of view: a
// failed write is logged and the reply still goes out.
func (d *Dispatcher) recordActivity(ctx context.Context, user *models.User, coinID, activityType, details string, log *slog.Logger) {
	if err := d.directory.RecordActivity(ctx, user, coinID, activityType, details); err != nil {
		log.Error("failed to record activity", "activity", activityType, "error", err)
	}
}

func (d *Dispatcher) reply(ctx context.Context, identity string, reply Reply, log *slog.Logger) {
	if err := d.replier.Reply(ctx, identity, reply); err != nil {
		log.Error("failed to send reply", "error", err)
	}
}
