package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rsilvagit/hh-export/internal/cache"
	"github.com/rsilvagit/hh-export/internal/config"
	"github.com/rsilvagit/hh-export/internal/filter"
	"github.com/rsilvagit/hh-export/internal/hh"
	"github.com/rsilvagit/hh-export/internal/httpclient"
	"github.com/rsilvagit/hh-export/internal/logger"
	"github.com/rsilvagit/hh-export/internal/normalize"
	"github.com/rsilvagit/hh-export/internal/output"
	"github.com/rsilvagit/hh-export/internal/region"
	"github.com/rsilvagit/hh-export/internal/search"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

type flags struct {
	config     string
	query      string
	area       string
	salary     string
	experience string
	employment string
	schedule   string
	out        string
	thin       bool
	listAreas  bool
	tgToken    string
	tgChatID   string
	discordURL string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.config, "config", "hh-export.yaml", "Файл конфигурации YAML")
	flag.StringVar(&f.query, "q", "", "Текст запроса (например \"golang developer\")")
	flag.StringVar(&f.area, "area", "", "Регион или город (например \"Москва\")")
	flag.StringVar(&f.salary, "salary", "", "Минимальная зарплата")
	flag.StringVar(&f.experience, "exp", "", "Опыт: noExperience, between1And3, between3And6, moreThan6")
	flag.StringVar(&f.employment, "emp", "", "Занятость: full, part, project, probation, volunteer")
	flag.StringVar(&f.schedule, "sched", "", "График: fullDay, shift, flexible, remote, flyInFlyOut")
	flag.StringVar(&f.out, "o", "", "Путь к файлу .xlsx для экспорта")
	flag.BoolVar(&f.thin, "thin", false, "Экспортировать сокращённый набор колонок")
	flag.BoolVar(&f.listAreas, "areas", false, "Показать известные регионы и выйти")
	flag.StringVar(&f.tgToken, "telegram-token", "", "Токен Telegram-бота")
	flag.StringVar(&f.tgChatID, "telegram-chat-id", "", "Chat ID Telegram")
	flag.StringVar(&f.discordURL, "discord-webhook", "", "Discord webhook URL")
	flag.Parse()
	return f
}

func orDefault(flagVal, cfgVal string) string {
	if flagVal != "" {
		return flagVal
	}
	return cfgVal
}

func main() {
	os.Exit(run())
}

func run() int {
	fl := parseFlags()

	cfg, err := config.Load(fl.config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		return exitFailure
	}
	logger.Init(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	httpClient, err := httpclient.New(cfg.API.HTTPOptions())
	if err != nil {
		log.Error().Err(err).Msg("http client")
		return exitFailure
	}
	api := hh.NewClient(httpClient, cfg.API.BaseURL)

	if fl.listAreas {
		fmt.Println(strings.Join(loadDirectory(ctx, api, cfg.Regions).Names(), "\n"))
		return exitOK
	}

	if strings.TrimSpace(fl.query) == "" {
		fmt.Fprintln(os.Stderr, "Ошибка: -q (текст запроса) обязателен")
		flag.Usage()
		return exitInvalid
	}

	var directory *region.Directory
	if strings.TrimSpace(fl.area) != "" {
		directory = loadDirectory(ctx, api, cfg.Regions)
	}
	f, err := buildFilter(fl, directory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка фильтра: %v\n", err)
		return exitInvalid
	}

	svc := search.NewService(api, normalize.New(cfg.Display.Placeholders()))

	fmt.Fprintf(os.Stderr, "Поиск на %s...\n", api.Name())
	res, err := await(ctx, svc.Go(ctx, f))
	if errors.Is(err, filter.ErrInvalidFilter) {
		fmt.Fprintf(os.Stderr, "Ошибка фильтра: %v\n", err)
		return exitInvalid
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка при запросе к API: %v\n", err)
		return exitFailure
	}

	display := res.Records
	if cfg.Display.Sort {
		display = res.Sorted()
	}
	for _, w := range writers(fl, cfg) {
		if err := w.WriteVacancies(display); err != nil {
			fmt.Fprintf(os.Stderr, "Ошибка при выводе результатов: %v\n", err)
		}
	}
	fmt.Printf("\nВсего: %d вакансий.\n", len(res.Records))

	if res.Empty() {
		return exitOK
	}
	return export(fl, cfg, res)
}

func loadDirectory(ctx context.Context, api *hh.Client, rc config.Regions) *region.Directory {
	loader := region.Loader{Source: api}
	if rc.RedisURL != "" {
		c, err := cache.New(rc.RedisURL, rc.CacheTTL)
		if err != nil {
			log.Warn().Err(err).Msg("region cache disabled")
		} else {
			defer c.Close()
			loader.Cache = c
		}
	}
	return loader.Load(ctx)
}

// buildFilter validates the user's input; directory may be nil when no area was given.
func buildFilter(fl flags, directory *region.Directory) (filter.SearchFilter, error) {
	f := filter.SearchFilter{Query: strings.TrimSpace(fl.query)}

	if directory != nil && strings.TrimSpace(fl.area) != "" {
		loc, err := directory.Resolve(fl.area)
		if err != nil {
			return f, fmt.Errorf("%w: %w", filter.ErrInvalidFilter, err)
		}
		f.Location = &loc
	}

	var err error
	if f.SalaryFloor, err = filter.ParseSalaryFloor(fl.salary); err != nil {
		return f, err
	}
	if f.Experience, err = filter.ParseExperience(fl.experience); err != nil {
		return f, err
	}
	if f.Employment, err = filter.ParseEmployment(fl.employment); err != nil {
		return f, err
	}
	if f.Schedule, err = filter.ParseSchedule(fl.schedule); err != nil {
		return f, err
	}
	return f, nil
}

// await waits for the background search, printing progress while it runs.
func await(ctx context.Context, ch <-chan search.Outcome) (search.Result, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case out := <-ch:
			return out.Result, out.Err
		case <-ticker.C:
			fmt.Fprint(os.Stderr, ".")
		case <-ctx.Done():
			return search.Result{}, ctx.Err()
		}
	}
}

func writers(fl flags, cfg *config.Config) []output.ResultWriter {
	ws := []output.ResultWriter{output.NewConsolePrinter()}

	token := orDefault(fl.tgToken, cfg.Telegram.Token)
	chatID := orDefault(fl.tgChatID, cfg.Telegram.ChatID)
	if token != "" && chatID != "" {
		ws = append(ws, output.NewTelegramWriter(token, chatID))
	}
	if url := orDefault(fl.discordURL, cfg.Discord.WebhookURL); url != "" {
		ws = append(ws, output.NewDiscordWriter(url))
	}
	return ws
}

func export(fl flags, cfg *config.Config, res search.Result) int {
	path := orDefault(fl.out, cfg.Export.Path)
	if path == "" {
		return exitOK
	}

	cols := output.AllColumns
	if fl.thin {
		cols = output.ThinColumns
	} else if len(cfg.Export.Columns) > 0 {
		parsed, err := output.ParseColumns(cfg.Export.Columns)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
			return exitFailure
		}
		cols = parsed
	}

	records := res.Records
	if cfg.Export.Sort {
		records = res.Sorted()
	}

	ph := cfg.Export.Placeholders()
	exporter := output.SpreadsheetExporter{Columns: cols, Placeholders: &ph}
	written, err := exporter.Export(records, path)
	if err != nil {
		var exportErr *output.ExportError
		if errors.As(err, &exportErr) && exportErr.Kind == output.ExportPermission {
			fmt.Fprintf(os.Stderr, "Нет прав на запись в %s\n", exportErr.Path)
		} else {
			fmt.Fprintf(os.Stderr, "Ошибка при сохранении: %v\n", err)
		}
		return exitFailure
	}
	fmt.Printf("Сохранено в %s\n", written)
	return exitOK
}
