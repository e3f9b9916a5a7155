package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	gobot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/logger"
)

const pendingBuffer = 64

// TelegramSource long-polls the Telegram Bot API on its own goroutine
// and buffers parsed commands until the trading loop drains them.
type TelegramSource struct {
	api     *gobot.BotAPI
	chatID  int64
	logger  *logger.Logger
	pending chan Command
}

func NewTelegramSource(token string, chatID int64, log *logger.Logger) (*TelegramSource, error) {
	api, err := gobot.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot API: %w", err)
	}
	api.Debug = false

	return &TelegramSource{
		api:     api,
		chatID:  chatID,
		logger:  log,
		pending: make(chan Command, pendingBuffer),
	}, nil
}

// Run consumes Telegram updates until ctx is cancelled. It should be
// started on its own goroutine before the trading loop begins.
func (s *TelegramSource) Run(ctx context.Context) {
	u := gobot.NewUpdate(0)
	u.Timeout = 30

	updates := s.api.GetUpdatesChan(u)
	s.logger.Info("Telegram command source connected as @%s", s.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			s.api.StopReceivingUpdates()
			return
		case up := <-updates:
			if up.Message == nil {
				continue
			}
			if s.chatID != 0 && up.Message.Chat.ID != s.chatID {
				continue
			}
			cmd, reply, ok := parseMessage(up.Message.Text)
			if !ok {
				if reply != "" {
					s.reply(up.Message.Chat.ID, reply)
				}
				continue
			}
			select {
			case s.pending <- cmd:
			default:
				s.logger.Warning("Command buffer full, dropping %s", cmd.Kind)
			}
		}
	}
}

// Drain returns every buffered command without blocking.
func (s *TelegramSource) Drain() []Command {
	var cmds []Command
	for {
		select {
		case cmd := <-s.pending:
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}
}

func (s *TelegramSource) reply(chatID int64, text string) {
	msg := gobot.NewMessage(chatID, text)
	if _, err := s.api.Send(msg); err != nil {
		s.logger.LogError("telegram reply", err)
	}
}

// parseMessage turns raw message text into a Command. The second return
// value carries an immediate usage reply when parsing fails.
func parseMessage(text string) (Command, string, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return Command{}, "", false
	}

	switch strings.ToLower(fields[0]) {
	case "/set":
		if len(fields) != 3 {
			return Command{}, "Usage: /set <parameter> <value>", false
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Command{}, fmt.Sprintf("Invalid value %q, expected a number", fields[2]), false
		}
		return Command{Kind: KindSetParam, ParamName: fields[1], ParamValue: value}, "", true
	case "/status":
		return Command{Kind: KindStatus}, "", true
	case "/report":
		return Command{Kind: KindReport}, "", true
	case "/sell":
		if len(fields) != 2 {
			return Command{}, "Usage: /sell <symbol>", false
		}
		return Command{Kind: KindSellNow, Symbol: strings.ToUpper(fields[1])}, "", true
	case "/help", "/start":
		return Command{Kind: KindHelp}, "", true
	default:
		return Command{}, "Unknown command. Try /help", false
	}
}
