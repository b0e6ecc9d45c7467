package main

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"

	"github.com/NicoNex/echotron/v3"
	"github.com/google/uuid"

	"github.com/jwebster45206/pokequest/internal/handlers"
	"github.com/jwebster45206/pokequest/pkg/battle"
	"github.com/jwebster45206/pokequest/pkg/state"
)

const helpText = `<b>PokeQuest</b>
/wild &lt;species&gt; [level] - Battle a wild Pokémon
/trainer &lt;species&gt; [level] - Battle a trainer's Pokémon
/status - Show the current battle
/heal - Restore your team after a battle

In battle, tap a button or type /move 1, /item potion, /switch 2 or /run.`

// bot is the per-chat session; the dispatcher keeps one per chat ID.
type bot struct {
	chatID   int64
	battleID uuid.UUID
	echotron.API

	client *battleClient
	cfg    *BotConfig
	logger *slog.Logger
}

func newBotFn(cfg *BotConfig, client *battleClient, logger *slog.Logger) func(int64) echotron.Bot {
	return func(chatID int64) echotron.Bot {
		return &bot{
			chatID: chatID,
			API:    echotron.NewAPI(cfg.Token),
			client: client,
			cfg:    cfg,
			logger: logger.With("chat_id", chatID),
		}
	}
}

// reply is what the bot sends back for one update.
type reply struct {
	text     string
	keyboard *echotron.InlineKeyboardMarkup
}

// Update handles one incoming message or button press.
func (b *bot) Update(update *echotron.Update) {
	text := extractText(update)
	if text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.Timeout)
	defer cancel()
	r := b.handle(ctx, text)

	opts := &echotron.MessageOptions{ParseMode: echotron.HTML}
	if r.keyboard != nil {
		opts.ReplyMarkup = *r.keyboard
	}
	if _, err := b.SendMessage(r.text, b.chatID, opts); err != nil {
		b.logger.Error("Failed to send message", "error", err)
	}
}

func (b *bot) handle(ctx context.Context, text string) reply {
	command, args := splitCommand(text)
	switch command {
	case "/start", "/help":
		return reply{text: helpText}
	case "/wild":
		return b.startBattle(ctx, args, true)
	case "/trainer":
		return b.startBattle(ctx, args, false)
	}

	if b.battleID == uuid.Nil {
		return reply{text: "No battle yet. Try /wild pikachu"}
	}

	switch command {
	case "/status":
		bs, err := b.client.getBattle(ctx, b.battleID)
		if err != nil {
			return b.failed("Couldn't load the battle", err)
		}
		return battleReply(bs, nil)
	case "/heal":
		resp, err := b.client.heal(ctx, b.battleID)
		if err != nil {
			return b.failed("Couldn't heal", err)
		}
		return reply{text: "Your team was fully restored.\n\n" + renderBattle(resp.Battle, nil)}
	}

	input := text
	if command != "" {
		input = strings.Join(append([]string{command}, args...), " ")
	}
	resp, err := b.client.act(ctx, b.battleID, input)
	if err != nil {
		return b.failed("That didn't work", err)
	}
	return battleReply(resp.Battle, resp.Messages)
}

func (b *bot) startBattle(ctx context.Context, args []string, wild bool) reply {
	if len(args) == 0 {
		return reply{text: "Which Pokémon? Try /wild pikachu 5"}
	}
	level := b.cfg.EnemyLevel
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < battle.MinLevel || n > battle.MaxLevel {
			return reply{text: fmt.Sprintf("Level must be a number from %d to %d", battle.MinLevel, battle.MaxLevel)}
		}
		level = n
	}

	itemIDs, err := b.client.battleItems(ctx)
	if err != nil {
		return b.failed("Couldn't load items", err)
	}
	req := handlers.CreateBattleRequest{
		TrainerID: b.cfg.TrainerID,
		Enemy:     handlers.PokemonRequest{Species: strings.ToLower(args[0]), Level: level},
		Wild:      &wild,
		Language:  b.cfg.Language,
	}
	for _, id := range itemIDs {
		req.Inventory = append(req.Inventory, handlers.InventoryRequest{ItemID: id, Quantity: b.cfg.ItemQuantity})
	}

	resp, err := b.client.createBattle(ctx, req)
	if err != nil {
		return b.failed("Couldn't start the battle", err)
	}
	b.battleID = resp.Battle.ID
	b.logger.Info("Battle started", "battle_id", b.battleID.String(), "enemy", req.Enemy.Species, "wild", wild)
	return battleReply(resp.Battle, resp.Messages)
}

func (b *bot) failed(prefix string, err error) reply {
	b.logger.Debug(prefix, "error", err)
	return reply{text: html.EscapeString(prefix + ": " + err.Error())}
}

func battleReply(bs *state.BattleState, msgs []string) reply {
	return reply{text: renderBattle(bs, msgs), keyboard: actionKeyboard(bs)}
}

// renderBattle formats the turn's messages and both active Pokémon as HTML.
func renderBattle(bs *state.BattleState, msgs []string) string {
	var sb strings.Builder
	for _, m := range msgs {
		sb.WriteString(html.EscapeString(m))
		sb.WriteByte('\n')
	}
	if len(msgs) > 0 {
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "<b>Turn %d</b>\n", bs.Turn)
	sb.WriteString("Foe: " + pokemonLine(bs.Enemy) + "\n")
	sb.WriteString("You: " + pokemonLine(bs.Active()))

	if bs.IsOver() {
		fmt.Fprintf(&sb, "\n\nBattle over: <b>%s</b>. Send /heal, then /wild to battle again.", bs.Outcome)
	}
	return sb.String()
}

func pokemonLine(p *battle.Pokemon) string {
	if p == nil {
		return "-"
	}
	line := fmt.Sprintf("<b>%s</b> Lv.%d HP %d/%d", html.EscapeString(p.Name), p.Level, p.CurrentHP, p.MaxHP)
	if s := p.MajorStatus(); s != battle.StatusNone {
		line += " " + strings.ToUpper(string(s))
	}
	if p.IsFainted {
		line += " (fainted)"
	}
	return line
}

// actionKeyboard offers the active Pokémon's moves, the bag, switches and
// running away. A finished battle gets no keyboard.
func actionKeyboard(bs *state.BattleState) *echotron.InlineKeyboardMarkup {
	active := bs.Active()
	if bs.IsOver() || active == nil {
		return nil
	}

	var markup echotron.InlineKeyboardMarkup
	var row []echotron.InlineKeyboardButton
	flush := func() {
		if row != nil {
			markup.InlineKeyboard = append(markup.InlineKeyboard, row)
			row = nil
		}
	}

	for i, m := range active.Moves {
		row = append(row, echotron.InlineKeyboardButton{
			Text:         fmt.Sprintf("%s (%d/%d)", m.Name, m.CurrentPP, m.BasePP),
			CallbackData: fmt.Sprint("/move ", i+1),
		})
		if (i+1)%2 == 0 {
			flush()
		}
	}
	flush()

	for _, item := range bs.Inventory {
		if item.Quantity <= 0 || !item.CanUseInBattle {
			continue
		}
		row = append(row, echotron.InlineKeyboardButton{
			Text:         fmt.Sprintf("%s x%d", item.Name, item.Quantity),
			CallbackData: "/item " + item.ID,
		})
	}
	flush()

	for i, p := range bs.Team {
		if i == bs.ActiveIndex || p.IsFainted {
			continue
		}
		row = append(row, echotron.InlineKeyboardButton{
			Text:         "Go " + p.Name,
			CallbackData: fmt.Sprint("/switch ", i+1),
		})
	}
	flush()

	if bs.IsWild {
		row = append(row, echotron.InlineKeyboardButton{Text: "Run", CallbackData: "/run"})
		flush()
	}
	return &markup
}

// extractText returns the typed text or the pressed button's data.
func extractText(update *echotron.Update) string {
	switch {
	case update.Message != nil:
		return update.Message.Text
	case update.CallbackQuery != nil:
		return update.CallbackQuery.Data
	}
	return ""
}

// splitCommand returns the leading /command (without any @botname suffix)
// and its space-separated arguments.
func splitCommand(text string) (command string, args []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", fields
	}
	command, _, _ = strings.Cut(strings.ToLower(fields[0]), "@")
	return command, fields[1:]
}
