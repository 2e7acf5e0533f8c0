package app

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"FeeReminder/internal/caller"
	cfgman "FeeReminder/internal/config"
	"FeeReminder/internal/delivery/handlers"
	"FeeReminder/internal/delivery/middleware"
	"FeeReminder/internal/dispatch"
	"FeeReminder/internal/domain"
	"FeeReminder/internal/roster"
)

// Application основная структура приложения.
type Application struct {
	config *cfgman.Config
	server *ginext.Engine
}

// New создает новое приложение.
func New() (*Application, error) {
	// Загружаем конфигурацию
	cfg, err := cfgman.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	if err := initLogger(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	app := &Application{
		config: cfg,
	}

	return app, nil
}

// Run запускает приложение в зависимости от команды.
func (a *Application) Run() error {
	if len(os.Args) < 2 {
		a.printUsage()
		return fmt.Errorf("no command specified")
	}

	command := os.Args[1]

	switch command {
	case "call":
		return a.runCall(os.Args[2:])
	case "runserver":
		return a.runServer()
	case "sample":
		return a.runSample(os.Args[2:])
	case "health":
		return a.runHealthCheck()
	default:
		a.printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// printUsage печатает инструкции по использованию.
func (a *Application) printUsage() {
	fmt.Println("FeeReminder - голосовые напоминания об оплате")
	fmt.Println()
	fmt.Println("Доступные команды:")
	fmt.Println("  call <roster.xlsx>  - обзвон студентов по ростеру")
	fmt.Println("  runserver           - запуск callback HTTP сервера")
	fmt.Println("  sample [file.xlsx]  - создать образец ростера")
	fmt.Println("  health              - проверка конфигурации провайдера")
	fmt.Println()
	fmt.Println("Флаги команды call:")
	fmt.Println("  --dry-run           - показать звонки без их выполнения")
	fmt.Println("  --limit N           - ограничить число звонков")
	fmt.Println("  --delay SECONDS     - пауза между звонками")
	fmt.Println()
	fmt.Println("Примеры:")
	fmt.Println("  <appname> call students.xlsx --dry-run")
	fmt.Println("  <appname> call students.xlsx --limit 5")
	fmt.Println("  <appname> runserver")
	fmt.Println("  <appname> sample")
}

// printBanner печатает заголовок перед обзвоном.
func printBanner(out io.Writer) {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(out, "\n"+line)
	fmt.Fprintln(out, "  📞 Fee Payment Reminder - Voice Call System")
	fmt.Fprintln(out, line+"\n")
}

// callOptions разобранные аргументы команды call.
type callOptions struct {
	rosterPath string
	dryRun     bool
	limit      int
	delay      int
}

// parseCallArgs разбирает аргументы команды call. Путь к ростеру принимается
// и до флагов, и после: stdlib flag останавливается на первом не-флаге,
// поэтому путь снимается до разбора.
func parseCallArgs(args []string, defaultDelay int) (callOptions, error) {
	opts := callOptions{}

	fs := flag.NewFlagSet("call", flag.ContinueOnError)
	fs.BoolVar(&opts.dryRun, "dry-run", false, "show what would happen without making actual calls")
	fs.IntVar(&opts.limit, "limit", 0, "limit number of calls to make")
	fs.IntVar(&opts.delay, "delay", defaultDelay, "delay between calls in seconds")

	rest := args
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		opts.rosterPath = rest[0]
		rest = rest[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return opts, err
	}
	if opts.rosterPath == "" {
		opts.rosterPath = fs.Arg(0)
	}
	if opts.rosterPath == "" {
		opts.rosterPath = "sample_students.xlsx"
	}
	return opts, nil
}

// runCall запускает последовательный обзвон по ростеру.
func (a *Application) runCall(args []string) error {
	opts, err := parseCallArgs(args, int(a.config.Dispatch.Delay/time.Second))
	if err != nil {
		return err
	}
	rosterPath := opts.rosterPath

	printBanner(os.Stdout)

	if _, err := os.Stat(rosterPath); err != nil {
		fmt.Printf("❌ Roster file not found: %s\n", rosterPath)
		fmt.Println("\n💡 Tip: run the 'sample' command to create a template file")
		return fmt.Errorf("roster file not found: %s", rosterPath)
	}

	fmt.Printf("📂 Reading: %s\n", rosterPath)
	reminders, err := roster.Load(rosterPath)
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return err
	}
	if len(reminders) == 0 {
		fmt.Println("⚠️  No students found in the roster file")
		return domain.ErrEmptyRoster
	}
	fmt.Printf("✅ Found %d students with pending fees\n\n", len(reminders))

	if opts.limit > 0 && opts.limit < len(reminders) {
		fmt.Printf("📌 Limited to %d students\n\n", opts.limit)
	}

	// Адаптер конструируем до подтверждения: неполные креденшалы должны
	// всплыть раньше первого звонка, в том числе и в dry-run режиме.
	call, err := caller.New(a.config)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return err
	}

	if opts.dryRun {
		fmt.Println("🔍 DRY RUN MODE - No actual calls will be made")
	} else if !confirm(os.Stdin, len(reminders), opts.limit, opts.delay) {
		fmt.Println("❌ Cancelled")
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	line := strings.Repeat("=", 50)
	fmt.Println("\n" + line)
	fmt.Println("Starting calls...")
	fmt.Println(line + "\n")

	summary := dispatch.Run(ctx, call, reminders, dispatch.Options{
		DryRun: opts.dryRun,
		Limit:  opts.limit,
		Delay:  time.Duration(opts.delay) * time.Second,
	})

	fmt.Println("\n" + line)
	fmt.Println("SUMMARY")
	fmt.Println(line)
	fmt.Printf("✅ Successful: %d\n", summary.Success)
	fmt.Printf("❌ Failed: %d\n", summary.Failed)
	fmt.Printf("📊 Total: %d\n", summary.Total)
	fmt.Println(line + "\n")

	return nil
}

// confirm спрашивает подтверждение перед реальными звонками.
func confirm(in io.Reader, total, limit, delay int) bool {
	if limit > 0 && limit < total {
		total = limit
	}
	fmt.Println("⚠️  You are about to make real phone calls!")
	fmt.Printf("   Students: %d\n", total)
	fmt.Printf("   Delay between calls: %d seconds\n\n", delay)
	fmt.Print("Continue? (yes/no): ")

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "yes"
}

// runServer запускает callback HTTP сервер.
func (a *Application) runServer() error {
	zlog.Logger.Info().Msg("Starting FeeReminder callback server...")

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Провайдер для callback-сервера опционален: answer/hangup работают
	// без него, без креденшалов отключается только JSON API звонков.
	call, err := caller.New(a.config)
	if err != nil {
		zlog.Logger.Warn().Err(err).Msg("call provider unavailable, /api/call disabled")
		call = nil
	}

	snapshot, err := a.loadSnapshot()
	if err != nil {
		return err
	}

	a.setupHTTPServer(call, snapshot)

	addr := a.config.HTTP.GetConnectionString()
	zlog.Logger.Info().Str("address", addr).Msg("HTTP server starting")
	fmt.Printf("Answer URL:   http://%s/answer\n", addr)
	fmt.Printf("Hangup URL:   http://%s/hangup\n", addr)
	fmt.Printf("Health Check: http://%s/health\n", addr)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Run(addr)
	}()
	zlog.Logger.Info().Msg("HTTP server started, waiting for shutdown signal...")
	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		zlog.Logger.Info().Msg("Received shutdown signal")
		return nil
	}
}

// loadSnapshot загружает снапшот ростера для поиска по номеру звонящего.
// Путь опционален; заданный, но нечитаемый ростер считается фатальной
// ошибкой конфигурации.
func (a *Application) loadSnapshot() (*roster.Snapshot, error) {
	path := a.config.Roster.Path
	if path == "" {
		zlog.Logger.Info().Msg("no roster snapshot configured, caller lookup disabled")
		return nil, nil
	}

	reminders, err := roster.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster snapshot: %w", err)
	}

	snapshot := roster.NewSnapshot(reminders)
	zlog.Logger.Info().
		Str("path", path).
		Int("entries", snapshot.Len()).
		Msg("Roster snapshot loaded")
	return snapshot, nil
}

// setupHTTPServer настраивает HTTP сервер.
func (a *Application) setupHTTPServer(call domain.Caller, snapshot *roster.Snapshot) {
	a.server = ginext.New(gin.ReleaseMode)
	a.server.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Content-Type"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	a.server.Use(middleware.RequestIDMiddleware())
	a.server.Use(middleware.LoggingMiddleware())

	h := handlers.NewHandlersSet(call, snapshot, a.config.OrgName)

	// Провайдеры дергают answer/hangup и GET, и POST в зависимости
	// от настроек answer_method.
	a.server.GET("/answer", h.AnswerHandler)
	a.server.POST("/answer", h.AnswerHandler)
	a.server.GET("/hangup", h.HangupHandler)
	a.server.POST("/hangup", h.HangupHandler)
	a.server.GET("/health", h.HealthHandler)

	group := a.server.RouterGroup.Group("api")
	group.POST("/call", h.CreateCallHandler)
	group.GET("/call/status/:id", h.CallStatusHandler)
}

// runSample создает образец ростера.
func (a *Application) runSample(args []string) error {
	path := "sample_students.xlsx"
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	}

	if err := roster.CreateSample(path); err != nil {
		return fmt.Errorf("failed to create sample roster: %w", err)
	}

	fmt.Printf("✅ Sample roster created: %s\n", path)
	fmt.Println("\n📝 Add your student data to this file and run the call command.")
	return nil
}

// runHealthCheck проверяет конфигурацию активного провайдера.
func (a *Application) runHealthCheck() error {
	fmt.Println("Running health check...")

	// Проверяем креденшалы активного провайдера
	if _, err := caller.New(a.config); err != nil {
		return fmt.Errorf("provider check failed: %w", err)
	}
	fmt.Printf("✅ Provider %q configuration: OK\n", a.config.Provider)

	fmt.Println("🎉 All health checks passed!")
	return nil
}

// initLogger инициализирует логгер.
func initLogger(level string) error {
	zlog.Init()

	zerologLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	err = zlog.SetLevel(zerologLevel.String())
	if err != nil {
		return err
	}

	return nil
}
