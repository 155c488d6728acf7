package scheduler

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"
	"unicode"

	"TickerLens/internal/aggregate"
	"TickerLens/internal/collector"
	"TickerLens/internal/export"
	"TickerLens/internal/insight"
	"TickerLens/internal/notifier"
	"TickerLens/internal/session"

	"github.com/robfig/cron/v3"
)

//go:generate mockgen -package=scheduler_test -destination=mock_sender_test.go -source=scheduler.go Sender

// Sender delivers replies to a chat.
type Sender interface {
	SendReply(chatID int64, r notifier.Reply) error
}

// Scheduler routes chat commands and runs the watchlist digest on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Sessions  *session.Manager
	Answerer  insight.Answerer
	Notifier  Sender
	Watchlist []string
	ChatID    int64
	Ctx       context.Context
	Now       func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sessions *session.Manager, answerer insight.Answerer, sender Sender) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Sessions:  sessions,
		Answerer:  answerer,
		Notifier:  sender,
		Ctx:       ctx,
		Now:       time.Now,
	}
}

// RegisterDigest schedules the watchlist digest. Without a watchlist, chat or
// expression nothing is registered.
func (s *Scheduler) RegisterDigest(cronExpr string) error {
	if cronExpr == "" || len(s.Watchlist) == 0 || s.ChatID == 0 {
		log.Println("[INFO] watchlist digest disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(cronExpr, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	log.Printf("[INFO] watchlist digest scheduled (%s) for %d symbols", cronExpr, len(s.Watchlist))
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunDigestNow executes the digest immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) digestTask() {
	log.Printf("[INFO] running watchlist digest for %s", strings.Join(s.Watchlist, ","))
	set := s.Collector.Collect(s.Ctx, s.Watchlist)
	report := notifier.FormatDigest(set, aggregate.Compare(set), s.now())
	if err := s.Notifier.SendReply(s.ChatID, notifier.Reply{Text: report}); err != nil {
		log.Printf("[ERROR] send digest: %v", err)
	}
}

// HandleCommand processes one chat message and returns the reply. Plain text is
// read as a list of symbols to compare.
func (s *Scheduler) HandleCommand(ctx context.Context, chatID int64, text string) notifier.Reply {
	cmd, args := splitCommand(text)
	switch cmd {
	case "/start", "/help":
		return notifier.Reply{Text: notifier.HelpText()}
	case "/quote":
		return s.quote(ctx, args)
	case "/compare", "":
		return s.compare(ctx, args)
	case "/news":
		return s.news(ctx, args)
	case "/csv":
		return s.csv(ctx, args)
	case "/share":
		return s.share(ctx, args)
	case "/ask":
		return s.ask(ctx, chatID, args)
	case "/history":
		return s.history(ctx, chatID)
	default:
		return notifier.Reply{Text: fmt.Sprintf("Unknown command %s.\n\n%s", html.EscapeString(cmd), notifier.HelpText())}
	}
}

func (s *Scheduler) quote(ctx context.Context, args string) notifier.Reply {
	symbols := collector.ParseSymbols(args)
	if len(symbols) == 0 {
		return usage("/quote AAPL")
	}
	set := s.Collector.Collect(ctx, symbols)
	cards := make([]string, 0, set.Len())
	for _, rec := range set.Records() {
		cards = append(cards, notifier.FormatRecord(rec))
	}
	return notifier.Reply{Text: strings.Join(cards, "\n\n")}
}

func (s *Scheduler) compare(ctx context.Context, args string) notifier.Reply {
	symbols := collector.ParseSymbols(args)
	if len(symbols) == 0 {
		return usage("/compare AAPL MSFT GOOGL")
	}
	set := s.Collector.Collect(ctx, symbols)
	return notifier.Reply{Text: notifier.FormatComparison(aggregate.Compare(set))}
}

func (s *Scheduler) news(ctx context.Context, args string) notifier.Reply {
	symbols := collector.ParseSymbols(args)
	if len(symbols) != 1 {
		return usage("/news AAPL")
	}
	rec := s.Collector.FetchRecord(ctx, symbols[0])
	return notifier.Reply{Text: notifier.FormatNews(rec, notifier.MaxNewsItems)}
}

func (s *Scheduler) csv(ctx context.Context, args string) notifier.Reply {
	symbols := collector.ParseSymbols(args)
	if len(symbols) != 1 {
		return usage("/csv AAPL")
	}
	rec := s.Collector.FetchRecord(ctx, symbols[0])
	if !rec.Success {
		return notifier.Reply{Text: notifier.FormatFailure(rec.Symbol, rec.Error)}
	}
	data, err := export.CSV(rec)
	if err != nil {
		log.Printf("[ERROR] export %s: %v", rec.Symbol, err)
		return notifier.Reply{Text: "❌ Could not build the CSV file."}
	}
	return notifier.Reply{Document: &notifier.Document{
		Name:    export.FileName(rec.Symbol),
		Data:    data,
		Caption: fmt.Sprintf("%s daily history (%d rows)", rec.Symbol, len(rec.History)),
	}}
}

func (s *Scheduler) share(ctx context.Context, args string) notifier.Reply {
	symbols := collector.ParseSymbols(args)
	if len(symbols) != 1 {
		return usage("/share AAPL")
	}
	rec := s.Collector.FetchRecord(ctx, symbols[0])
	if !rec.Success {
		return notifier.Reply{Text: notifier.FormatFailure(rec.Symbol, rec.Error)}
	}
	return notifier.Reply{Text: notifier.FormatShareCard(insight.NewShareCard(rec))}
}

func (s *Scheduler) ask(ctx context.Context, chatID int64, args string) notifier.Reply {
	symbolPart, question, found := strings.Cut(args, "|")
	symbols := collector.ParseSymbols(symbolPart)
	if !found || len(symbols) == 0 || strings.TrimSpace(question) == "" {
		return usage("/ask AAPL MSFT | Which grew faster this year?")
	}
	sess, err := s.Sessions.Get(chatID)
	if err != nil {
		log.Printf("[ERROR] chat %d: %v", chatID, err)
		return notifier.Reply{Text: "❌ Could not start a chat session."}
	}
	set := s.Collector.Collect(ctx, symbols)
	reply, ok := sess.Ask(ctx, s.Answerer, set, question)
	if !ok {
		return notifier.Reply{Text: "⚠️ " + html.EscapeString(reply)}
	}
	return notifier.Reply{Text: "🤖 " + html.EscapeString(reply)}
}

func (s *Scheduler) history(ctx context.Context, chatID int64) notifier.Reply {
	sess, err := s.Sessions.Get(chatID)
	if err != nil {
		log.Printf("[ERROR] chat %d: %v", chatID, err)
		return notifier.Reply{Text: "❌ Could not start a chat session."}
	}
	entries, err := sess.History.Entries(ctx)
	if err != nil {
		log.Printf("[ERROR] chat %d: read history: %v", chatID, err)
		return notifier.Reply{Text: "❌ Could not read the chat history."}
	}
	return notifier.Reply{Text: notifier.FormatHistory(entries)}
}

func (s *Scheduler) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// splitCommand separates "/cmd@bot args" into "/cmd" and "args". Text that is
// not a command returns an empty command and the whole text as args.
func splitCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd = text
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		cmd, args = text[:i], text[i:]
	}
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

func usage(example string) notifier.Reply {
	return notifier.Reply{Text: "Usage: <code>" + html.EscapeString(example) + "</code>"}
}
