package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"ratedash/internal/domain"
	"ratedash/internal/service"

	tele "gopkg.in/telebot.v3"
)

const trendWindowDays = 30

func StartTelegramBot(rateService *service.RateService, analytics *service.AnalyticsService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/rate", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: /rate EURUSD\nSupported: %s", strings.Join(domain.SupportedCodes, ", ")))
		}
		from, to, err := domain.ParsePair(args[0])
		if err != nil {
			return c.Send(fmt.Sprintf("%v\nSupported: %s", err, strings.Join(domain.SupportedCodes, ", ")))
		}
		rate, err := rateService.GetRate(context.Background(), from, to)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching rate for %s/%s: %v", from, to, err))
		}
		return c.Send(fmt.Sprintf("%s/%s\nRate: %.4f", from, to, rate))
	})

	b.Handle("/convert", func(c tele.Context) error {
		args := c.Args()
		if len(args) < 3 {
			return c.Send("Usage: /convert 100 EUR USD")
		}
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil || amount <= 0 {
			return c.Send(fmt.Sprintf("Invalid amount: %s", args[0]))
		}
		from := strings.ToUpper(args[1])
		to := strings.ToUpper(args[2])
		if !domain.IsSupported(from) || !domain.IsSupported(to) {
			return c.Send(fmt.Sprintf("Unknown currency\nSupported: %s", strings.Join(domain.SupportedCodes, ", ")))
		}
		conv, err := rateService.Convert(context.Background(), from, to, amount)
		if err != nil {
			return c.Send(fmt.Sprintf("Error converting %s to %s: %v", from, to, err))
		}
		msg := fmt.Sprintf(
			"%s %.2f = %s %.2f\nRate: %.4f",
			from, conv.Amount, to, conv.Result, conv.Rate,
		)
		return c.Send(msg)
	})

	b.Handle("/trend", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /trend EURUSD")
		}
		from, to, err := domain.ParsePair(args[0])
		if err != nil {
			return c.Send(fmt.Sprintf("%v\nSupported: %s", err, strings.Join(domain.SupportedCodes, ", ")))
		}
		summary, err := analytics.Trend(context.Background(), from, to, trendWindowDays)
		if err != nil {
			return c.Send(fmt.Sprintf("Error analyzing %s/%s: %v", from, to, err))
		}
		msg := fmt.Sprintf(
			"%s/%s %d-day trend\nDirection: %s\nChange: %.2f%%\nConfidence: %.0f%%",
			from, to, trendWindowDays, summary.Direction, summary.PercentChange, summary.Confidence,
		)
		return c.Send(msg)
	})

	log.Println("Telegram bot started")
	go b.Start()
}
