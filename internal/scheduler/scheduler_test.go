package scheduler_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"TickerLens/internal/collector"
	"TickerLens/internal/insight"
	"TickerLens/internal/notifier"
	"TickerLens/internal/scheduler"
	"TickerLens/internal/session"
)

var fixedNow = time.Date(2025, 6, 30, 21, 0, 0, 0, time.UTC)

func newScheduler(t *testing.T, answerer insight.Answerer, sender scheduler.Sender) *scheduler.Scheduler {
	t.Helper()
	demo := collector.NewDemoFetcher()
	demo.Now = func() time.Time { return fixedNow }
	col := collector.NewCollector(demo)
	col.Now = func() time.Time { return fixedNow }

	sessions := session.NewManager(nil)
	t.Cleanup(func() { sessions.Close() })

	s := scheduler.NewScheduler(t.Context(), col, sessions, answerer, sender)
	s.Now = func() time.Time { return fixedNow }
	return s
}

func echoAnswerer(ctx context.Context, contextText, question string) (string, error) {
	return "answer to " + question, nil
}

func TestHandleCommand_Help(t *testing.T) {
	s := newScheduler(t, insight.Unconfigured{}, nil)
	for _, cmd := range []string{"/help", "/start", "/help@TickerLensBot"} {
		require.Equal(t, notifier.HelpText(), s.HandleCommand(t.Context(), 1, cmd).Text, cmd)
	}
}

func TestHandleCommand_Unknown(t *testing.T) {
	s := newScheduler(t, insight.Unconfigured{}, nil)
	reply := s.HandleCommand(t.Context(), 1, "/portfolio")
	require.True(t, strings.HasPrefix(reply.Text, "Unknown command /portfolio."))
}

func TestHandleCommand_Quote(t *testing.T) {
	s := newScheduler(t, insight.Unconfigured{}, nil)
	reply := s.HandleCommand(t.Context(), 1, "/quote aapl")
	require.Contains(t, reply.Text, "<b>AAPL</b>")
	require.Contains(t, reply.Text, "Current Price")
	require.Nil(t, reply.Document)

	require.Contains(t, s.HandleCommand(t.Context(), 1, "/quote").Text, "Usage:")
}

func TestHandleCommand_FreeTextCompares(t *testing.T) {
	s := newScheduler(t, insight.Unconfigured{}, nil)
	reply := s.HandleCommand(t.Context(), 1, "AAPL, MSFT ZZZZINVALID")

	require.Contains(t, reply.Text, "Comparison")
	require.Contains(t, reply.Text, "AAPL")
	require.Contains(t, reply.Text, "MSFT")
	require.Contains(t, reply.Text, "• ZZZZINVALID:")
	require.Less(t, strings.Index(reply.Text, "1Y change"), strings.Index(reply.Text, "Failed"))
}

func TestHandleCommand_CSV(t *testing.T) {
	s := newScheduler(t, insight.Unconfigured{}, nil)
	reply := s.HandleCommand(t.Context(), 1, "/csv msft")
	require.NotNil(t, reply.Document)
	require.Equal(t, "MSFT_historical_data.csv", reply.Document.Name)
	require.True(t, strings.HasPrefix(string(reply.Document.Data), "date,open,high,low,close,volume\n"))

	bad := s.HandleCommand(t.Context(), 1, "/csv ZZZZ")
	require.Nil(t, bad.Document)
	require.Contains(t, bad.Text, "Could not fetch data for <b>ZZZZ</b>")
}

func TestHandleCommand_NewsAndShare(t *testing.T) {
	s := newScheduler(t, insight.Unconfigured{}, nil)
	require.Contains(t, s.HandleCommand(t.Context(), 1, "/news NVDA").Text, "News")
	require.Contains(t, s.HandleCommand(t.Context(), 1, "/share NVDA").Text, "Share on X")
	require.Contains(t, s.HandleCommand(t.Context(), 1, "/news NVDA MSFT").Text, "Usage:")
}

func TestHandleCommand_AskRecordsPerChatHistory(t *testing.T) {
	s := newScheduler(t, insight.AnswerFunc(echoAnswerer), nil)
	ctx := t.Context()

	reply := s.HandleCommand(ctx, 1, "/ask AAPL MSFT | which grew faster?")
	require.Equal(t, "🤖 answer to which grew faster?", reply.Text)
	s.HandleCommand(ctx, 1, "/ask AAPL | and <now>?")

	history := s.HandleCommand(ctx, 1, "/history").Text
	require.Less(t, strings.Index(history, "which grew faster?"), strings.Index(history, "and &lt;now&gt;?"))

	// another chat has its own session
	require.Contains(t, s.HandleCommand(ctx, 2, "/history").Text, "No questions asked yet")
}

func TestHandleCommand_AskFailures(t *testing.T) {
	ctx := t.Context()

	s := newScheduler(t, insight.Unconfigured{}, nil)
	reply := s.HandleCommand(ctx, 1, "/ask AAPL | what happened?")
	require.Contains(t, reply.Text, "GEMINI_API_KEY")
	require.Contains(t, s.HandleCommand(ctx, 1, "/history").Text, "No questions asked yet")

	failing := newScheduler(t, insight.AnswerFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("quota exceeded")
	}), nil)
	reply = failing.HandleCommand(ctx, 1, "/ask AAPL | what happened?")
	require.True(t, strings.HasPrefix(reply.Text, "⚠️ "))
	require.NotContains(t, reply.Text, "GEMINI_API_KEY")

	require.Contains(t, s.HandleCommand(ctx, 1, "/ask what happened?").Text, "Usage:")
	require.Contains(t, s.HandleCommand(ctx, 1, "/ask AAPL |  ").Text, "Usage:")
}

func TestRunDigestNow(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := NewMockSender(ctrl)

	s := newScheduler(t, insight.Unconfigured{}, sender)
	s.Watchlist = []string{"SPY", "AAPL"}
	s.ChatID = 42

	sender.EXPECT().SendReply(int64(42), gomock.Any()).DoAndReturn(func(_ int64, r notifier.Reply) error {
		require.Contains(t, r.Text, "2025-06-30")
		require.Contains(t, r.Text, "52-week position")
		require.Less(t, strings.Index(r.Text, "• SPY:"), strings.Index(r.Text, "• AAPL:"))
		return nil
	})
	s.RunDigestNow()
}

func TestRegisterDigest(t *testing.T) {
	s := newScheduler(t, insight.Unconfigured{}, nil)

	require.NoError(t, s.RegisterDigest("0 0 8 * * 1-5"))
	require.Empty(t, s.Cron.Entries(), "no watchlist means no job")

	s.Watchlist = []string{"AAPL"}
	s.ChatID = 7
	require.Error(t, s.RegisterDigest("not a cron"))
	require.NoError(t, s.RegisterDigest("0 0 8 * * 1-5"))
	require.Len(t, s.Cron.Entries(), 1)
}
