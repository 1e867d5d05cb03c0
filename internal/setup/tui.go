// Package setup runs the interactive configuration wizard.
package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/obwatch/config"
	"github.com/vadiminshakov/obwatch/internal/domain"
)

// DefaultOutput file written by the wizard.
const DefaultOutput = "config.gen.yaml"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// ErrCancelled user declined to save.
var ErrCancelled = errors.New("setup cancelled by user")

// answers raw wizard input.
type answers struct {
	Platform         string
	Pair             string
	HistorySource    string
	AssetID          string
	Currency         string
	HistoricalDays   string
	RollingWindow    string
	VolumeMultiplier string
	NumBins          string
	SmoothingSigma   string
	ActionThreshold  string
	PollInterval     string
}

func defaultAnswers() answers {
	d := config.Default()
	return answers{
		Platform:         d.Platform,
		Pair:             d.Pair.String(),
		HistorySource:    d.HistorySource,
		AssetID:          d.AssetID,
		Currency:         d.Currency,
		HistoricalDays:   strconv.Itoa(d.HistoricalDays),
		RollingWindow:    strconv.Itoa(d.RollingWindow),
		VolumeMultiplier: decimal.NewFromFloat(d.VolumeMultiplier).String(),
		NumBins:          strconv.Itoa(d.NumBins),
		SmoothingSigma:   decimal.NewFromFloat(d.SmoothingSigma).String(),
		ActionThreshold:  decimal.NewFromFloat(d.ActionThresholdPct).String(),
		PollInterval:     d.PollInterval.String(),
	}
}

func step(title string) {
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("OBWATCH CONFIG WIZARD"))
	fmt.Println(stepStyle.Render(title))
}

// RunTUI launches the terminal configuration wizard and writes the result
// to path.
func RunTUI(path string) error {
	a := defaultAnswers()
	var confirm bool

	step("STEP 1: ORDER BOOK")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Where the order book is read from.\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Exchange Platform").
				Options(
					huh.NewOption("Binance", config.PlatformBinance),
					huh.NewOption("Bybit", config.PlatformBybit),
				).
				Value(&a.Platform),
			huh.NewInput().
				Title("Trading Pair").
				Description("Must contain underscore (e.g. ETH_USDT)").
				Value(&a.Pair).
				Validate(validatePair),
		),
	).Run()
	if err != nil {
		return err
	}

	step("STEP 2: PRICE HISTORY")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Daily history source").
				Options(
					huh.NewOption("CoinGecko", config.HistoryCoinGecko),
					huh.NewOption("Binance klines", config.HistoryBinance),
					huh.NewOption("Bybit klines", config.HistoryBybit),
					huh.NewOption("Hyperliquid candles", config.HistoryHyperliquid),
				).
				Value(&a.HistorySource),
			huh.NewInput().
				Title("Days of history").
				Value(&a.HistoricalDays).
				Validate(validatePositiveInt),
		),
	).Run()
	if err != nil {
		return err
	}

	if a.HistorySource == config.HistoryCoinGecko {
		step("STEP 2b: COINGECKO ASSET")
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Asset id").Description("e.g. ethereum").Value(&a.AssetID),
				huh.NewInput().Title("Quote currency").Description("e.g. usd").Value(&a.Currency),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	step("STEP 3: SIGNAL TUNING")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Rolling window").Value(&a.RollingWindow).Validate(validatePositiveInt),
			huh.NewInput().Title("Volume multiplier").Value(&a.VolumeMultiplier).Validate(validatePositiveNumber),
			huh.NewInput().Title("Price bins").Value(&a.NumBins).Validate(validatePositiveInt),
			huh.NewInput().Title("Smoothing sigma").Value(&a.SmoothingSigma).Validate(validateNonNegativeNumber),
			huh.NewInput().
				Title("Action threshold %").
				Description("Bid/ask percentage gap needed for LONG or SHORT").
				Value(&a.ActionThreshold).
				Validate(validateNonNegativeNumber),
			huh.NewInput().
				Title("Poll Interval").
				Description("Duration string (e.g. 5s, 1m)").
				Value(&a.PollInterval).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	cfg, err := a.config()
	if err != nil {
		return err
	}

	step("FINAL CONFIRMATION")
	summary := fmt.Sprintf(
		"Platform: %s\nPair: %s\nHistory: %s (%d days)\nWindow: %d x%v\nThreshold: %v%%\nInterval: %s\n",
		cfg.Platform, cfg.Pair, cfg.HistorySource, cfg.HistoricalDays,
		cfg.RollingWindow, cfg.VolumeMultiplier, cfg.ActionThresholdPct, cfg.PollInterval,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return ErrCancelled
	}

	if err := Write(path, cfg); err != nil {
		return err
	}
	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\nConfiguration saved to %s", path)))
	return nil
}

// config converts the answers into a validated Config.
func (a answers) config() (config.Config, error) {
	cfg := config.Default()

	pair, err := domain.ParsePair(a.Pair)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Pair = pair
	cfg.Platform = a.Platform
	cfg.HistorySource = a.HistorySource
	cfg.AssetID = strings.ToLower(strings.TrimSpace(a.AssetID))
	cfg.Currency = strings.ToLower(strings.TrimSpace(a.Currency))

	if cfg.HistoricalDays, err = strconv.Atoi(strings.TrimSpace(a.HistoricalDays)); err != nil {
		return config.Config{}, errors.Wrap(err, "days of history")
	}
	if cfg.RollingWindow, err = strconv.Atoi(strings.TrimSpace(a.RollingWindow)); err != nil {
		return config.Config{}, errors.Wrap(err, "rolling window")
	}
	if cfg.NumBins, err = strconv.Atoi(strings.TrimSpace(a.NumBins)); err != nil {
		return config.Config{}, errors.Wrap(err, "price bins")
	}
	if cfg.VolumeMultiplier, err = parseNumber(a.VolumeMultiplier); err != nil {
		return config.Config{}, errors.Wrap(err, "volume multiplier")
	}
	if cfg.SmoothingSigma, err = parseNumber(a.SmoothingSigma); err != nil {
		return config.Config{}, errors.Wrap(err, "smoothing sigma")
	}
	if cfg.ActionThresholdPct, err = parseNumber(a.ActionThreshold); err != nil {
		return config.Config{}, errors.Wrap(err, "action threshold")
	}
	if cfg.PollInterval, err = time.ParseDuration(strings.TrimSpace(a.PollInterval)); err != nil {
		return config.Config{}, errors.Wrap(err, "poll interval")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Write saves cfg as YAML at path.
func Write(path string, cfg config.Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return errors.Wrap(err, "failed to generate yaml")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to save config file")
	}
	return nil
}

func parseNumber(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("must be a valid number")
	}
	return d.InexactFloat64(), nil
}

func validatePair(s string) error {
	if s == "" {
		return fmt.Errorf("pair cannot be empty")
	}
	if _, err := domain.ParsePair(s); err != nil {
		return fmt.Errorf("invalid format: must be BASE_QUOTE (e.g. ETH_USDT)")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validatePositiveNumber(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if !d.IsPositive() {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validateNonNegativeNumber(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
