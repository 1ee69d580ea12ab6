package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gamma-omg/chanlun/internal/market"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Symbols  map[string]Symbol `yaml:"symbols"`
	MACD     MACD              `yaml:"macd"`
	Report   string            `yaml:"report"`
	DumpDir  string            `yaml:"dump_dir"`
	Chart    Chart             `yaml:"chart"`
	Schedule string            `yaml:"schedule"`
}

func Read(r io.Reader) (*Config, error) {
	var cfg Config
	d := yaml.NewDecoder(r)
	err := d.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func (c *Config) setDefaults() {
	def := DefaultMACD()
	if c.MACD.Fast == 0 {
		c.MACD.Fast = def.Fast
	}
	if c.MACD.Slow == 0 {
		c.MACD.Slow = def.Slow
	}
	if c.MACD.Signal == 0 {
		c.MACD.Signal = def.Signal
	}

	if c.Chart.Dir != "" {
		if c.Chart.Width == 0 {
			c.Chart.Width = 1600
		}
		if c.Chart.Height == 0 {
			c.Chart.Height = 900
		}
	}
}

func (c *Config) Validate() error {
	var errs []error

	if len(c.Symbols) == 0 {
		errs = append(errs, errors.New("no symbols configured"))
	}

	for name, s := range c.Symbols {
		if s.SourceRef.Source == nil {
			errs = append(errs, fmt.Errorf("symbol %s: source is not set", name))
		}
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("symbol %s: %w", name, err))
		}
	}

	if c.MACD.Fast <= 0 || c.MACD.Slow <= 0 || c.MACD.Signal <= 0 {
		errs = append(errs, fmt.Errorf("macd periods must be positive: %d/%d/%d", c.MACD.Fast, c.MACD.Slow, c.MACD.Signal))
	}

	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		errs = append(errs, errors.New("chart size must not be negative"))
	}

	if c.Schedule != "" {
		if _, err := ScheduleParser.Parse(c.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("invalid schedule: %w", err))
		}
	}

	return errors.Join(errs...)
}

// ScheduleParser accepts cron expressions with a leading seconds field.
var ScheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Symbol struct {
	SourceRef SourceReference `yaml:"source"`
	Start     string          `yaml:"start"`
	End       string          `yaml:"end"`
	Period    market.Period   `yaml:"period"`
}

func (s Symbol) validate() error {
	switch s.Period {
	case "", market.PeriodDay, market.PeriodWeek:
	default:
		return fmt.Errorf("unknown period: %s", s.Period)
	}

	start, err := parseDate(s.Start)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := parseDate(s.End)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", s.End, s.Start)
	}

	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(market.DateLayout, s)
}

type MACD struct {
	Fast   int `yaml:"fast"`
	Slow   int `yaml:"slow"`
	Signal int `yaml:"signal"`
}

func DefaultMACD() MACD {
	return MACD{Fast: 12, Slow: 26, Signal: 9}
}

type Chart struct {
	Dir    string `yaml:"dir"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// source configs

type SourceReference struct {
	Source Source
}

type Source interface{}

type CSV struct {
	Path string `yaml:"path"`
}

type JSON struct {
	Path string `yaml:"path"`
}

type SQLite struct {
	Path string `yaml:"path"`
	Code string `yaml:"code"`
}

func (w *SourceReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid source yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "csv":
		var csv CSV
		if err := value.Content[1].Decode(&csv); err != nil {
			return fmt.Errorf("failed parsing csv source config: %w", err)
		}
		w.Source = csv
	case "json":
		var json JSON
		if err := value.Content[1].Decode(&json); err != nil {
			return fmt.Errorf("failed parsing json source config: %w", err)
		}
		w.Source = json
	case "sqlite":
		var sqlite SQLite
		if err := value.Content[1].Decode(&sqlite); err != nil {
			return fmt.Errorf("failed parsing sqlite source config: %w", err)
		}
		w.Source = sqlite
	default:
		return fmt.Errorf("unknown source type: %s", key)
	}

	return nil
}
