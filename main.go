package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	bot "gitlab.com/aoterocom/AOForexSignals/bot_signal-provider"
	"gitlab.com/aoterocom/AOForexSignals/config"
	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/models"
	"gitlab.com/aoterocom/AOForexSignals/services"
)

func main() {
	app := &cli.App{
		Name:  "forexsignals",
		Usage: "forex trading signal provider",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Value: "conf.env", Usage: "environment file to load"},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the scheduler, the HTTP API and the metrics endpoint",
				Action: run,
			},
			{
				Name:   "signals",
				Usage:  "run one refresh cycle and print the resulting signals",
				Action: signals,
			},
			{
				Name:   "performance",
				Usage:  "print win rate and pip statistics for the last 30 days",
				Action: performance,
			},
			{
				Name:  "market",
				Usage: "print the market status",
				Flags: []cli.Flag{
					&cli.TimestampFlag{Name: "at", Layout: time.RFC3339, Usage: "evaluate at this instant instead of now"},
				},
				Action: market,
			},
			{
				Name:  "subscription",
				Usage: "manage the premium subscription",
				Subcommands: []*cli.Command{
					{Name: "show", Action: subscriptionAction(show)},
					{Name: "purchase", Action: subscriptionAction(purchase)},
					{Name: "restore", Action: subscriptionAction(restore)},
					{Name: "cancel", Action: subscriptionAction(cancel)},
					{Name: "tick", Action: subscriptionAction(tick)},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		helpers.Logger.Fatalln(err)
	}
}

func provider(c *cli.Context) (*bot.SignalProvider, error) {
	cfg, err := config.Load(c.String("env"))
	if err != nil {
		return nil, err
	}
	return bot.NewSignalProvider(c.Context, cfg)
}

func run(c *cli.Context) error {
	sp, err := provider(c)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return sp.Run(ctx)
}

func signals(c *cli.Context) error {
	sp, err := provider(c)
	if err != nil {
		return err
	}
	defer sp.Close()
	report, err := sp.Service.Refresh(c.Context, time.Now().UTC())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Market open: %t %s  fallback: %t  offline: %t\n", report.MarketOpen, report.Session,
		report.Fallback, report.Offline)
	fmt.Fprintln(w, "ID\tPAIR\tSIDE\tENTRY\tSL\tTP1\tPROB\tPREMIUM")
	for _, s := range report.Signals {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.5f\t%.5f\t%.5f\t%d%%\t%t\n", s.ID, s.Pair, s.Direction, s.EntryPrice,
			s.StopLoss, s.TakeProfit1, s.Probability, s.IsPremium)
	}
	return w.Flush()
}

func performance(c *cli.Context) error {
	sp, err := provider(c)
	if err != nil {
		return err
	}
	defer sp.Close()
	stats := sp.Performance.Stats(c.Context, time.Now().UTC())

	fmt.Printf("%s to %s: %d trades, %d open, win rate %d%%, %.1f pips, R:R %.2f\n", stats.From, stats.To,
		stats.TotalTrades, stats.OpenTrades, stats.WinRate, stats.TotalPips, stats.RiskRewardRatio)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WEEK\tTRADES\tPIPS\tCUMULATIVE")
	for _, week := range stats.WeeklyPerformance {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\n", week.Period, week.Trades, week.Pips, week.CumulativePips)
	}
	return w.Flush()
}

func market(c *cli.Context) error {
	now := time.Now().UTC()
	if at := c.Timestamp("at"); at != nil {
		now = at.UTC()
	}
	status := services.NewMarketClock().Status(now)
	if !status.IsOpen {
		fmt.Printf("%s: market closed\n", now.Format(time.RFC3339))
		return nil
	}
	fmt.Printf("%s: market open, %s session\n", now.Format(time.RFC3339), status.SessionName())
	return nil
}

type subscriptionCommand func(ctx context.Context, sp *bot.SignalProvider, now time.Time) (models.SubscriptionState, error)

func subscriptionAction(command subscriptionCommand) cli.ActionFunc {
	return func(c *cli.Context) error {
		sp, err := provider(c)
		if err != nil {
			return err
		}
		defer sp.Close()
		state, err := command(c.Context, sp, time.Now().UTC())
		if err != nil {
			return err
		}
		printSubscription(state)
		return nil
	}
}

func show(ctx context.Context, sp *bot.SignalProvider, _ time.Time) (models.SubscriptionState, error) {
	return sp.Ledger.State(ctx), nil
}

func purchase(ctx context.Context, sp *bot.SignalProvider, now time.Time) (models.SubscriptionState, error) {
	return sp.Ledger.Purchase(ctx, now)
}

func restore(ctx context.Context, sp *bot.SignalProvider, now time.Time) (models.SubscriptionState, error) {
	return sp.Ledger.Restore(ctx, now)
}

func cancel(ctx context.Context, sp *bot.SignalProvider, now time.Time) (models.SubscriptionState, error) {
	return sp.Ledger.Cancel(ctx, now)
}

func tick(ctx context.Context, sp *bot.SignalProvider, now time.Time) (models.SubscriptionState, error) {
	return sp.Ledger.Tick(ctx, now), nil
}

func printSubscription(state models.SubscriptionState) {
	if !state.IsActive {
		fmt.Println("Subscription inactive")
		return
	}
	flags := []string{}
	if state.CancelRequested {
		flags = append(flags, "cancel requested")
	}
	fmt.Printf("Subscription active: %d market days left, expires %s %s\n", state.MarketDaysRemaining,
		state.ExpiryDate.Format("2006-01-02"), strings.Join(flags, ", "))
}
