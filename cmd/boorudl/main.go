package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"boorudl/internal/adapters/booru"
	"boorudl/internal/adapters/localstorage"
	"boorudl/internal/config"
	"boorudl/internal/service"
)

var (
	flagOutputDir   string
	flagYes         bool
	flagAPIKey      string
	flagUserID      string
	flagJSON        string
	flagPrettyJSON  string
	flagHTTPVersion string
	flagInsecure    bool
	flagNoKeepAlive bool
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "boorudl [flags] TAGS...",
	Short: "Download all media matching a tag query",
	Long: `boorudl enumerates posts matching a tag query against the search API
and downloads their media files to a local directory, skipping files that
already exist. Post metadata can optionally be written as a single JSON map
keyed by content hash.

Credentials may be passed as flags or via the BOORU_API_KEY and
BOORU_USER_ID environment variables (a .env file is honored).`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Directory to download files into (required)")
	rootCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the download confirmation prompt")
	rootCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "Optional API key; must be specified together with --user-id")
	rootCmd.Flags().StringVar(&flagUserID, "user-id", "", "Optional user id; must be specified together with --api-key")
	rootCmd.Flags().StringVarP(&flagJSON, "write-json", "j", "", "Write post metadata as compact JSON; path is relative to the output dir, '-' for stderr")
	rootCmd.Flags().StringVarP(&flagPrettyJSON, "write-pretty-json", "J", "", "Write post metadata as indented JSON; implies --write-json")
	rootCmd.Flags().Lookup("write-json").NoOptDefVal = "posts.json"
	rootCmd.Flags().Lookup("write-pretty-json").NoOptDefVal = "posts.json"
	rootCmd.Flags().StringVar(&flagHTTPVersion, "http-version", "auto", "Transport protocol: auto, http1 or http2")
	rootCmd.Flags().BoolVar(&flagInsecure, "insecure", false, "Skip TLS certificate verification")
	rootCmd.Flags().BoolVar(&flagNoKeepAlive, "no-keepalive", false, "Disable HTTP keep-alive connections")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	_ = rootCmd.MarkFlagRequired("output-dir")
}

func buildConfig(cmd *cobra.Command, tags []string) (*config.Config, error) {
	httpVersion, err := config.ParseHTTPVersion(flagHTTPVersion)
	if err != nil {
		return nil, err
	}

	apiKey := flagAPIKey
	userID := flagUserID
	if apiKey == "" && userID == "" {
		apiKey = os.Getenv("BOORU_API_KEY")
		userID = os.Getenv("BOORU_USER_ID")
	}

	cfg := &config.Config{
		OutputDir:   flagOutputDir,
		Tags:        tags,
		APIKey:      apiKey,
		UserID:      userID,
		HTTPVersion: httpVersion,
		Insecure:    flagInsecure,
		NoKeepAlive: flagNoKeepAlive,
	}

	// -J wins on pretty-ness; either flag requests emission.
	if cmd.Flags().Changed("write-pretty-json") {
		cfg.EmitMode = config.EmitPretty
		cfg.EmitPath = flagPrettyJSON
	} else if cmd.Flags().Changed("write-json") {
		cfg.EmitMode = config.EmitCompact
		cfg.EmitPath = flagJSON
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	zapCfg := zap.NewProductionConfig()
	// stdout is reserved for the per-item progress protocol.
	zapCfg.OutputPaths = []string{"stderr"}
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func confirm(total int64) bool {
	fmt.Printf("About to download %d files [Y/n]? ", total)
	input, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(input)) != "n"
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, err := newLogger(flagVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pterm.Info.Printfln("Searching for tags: %s", strings.Join(cfg.Tags, " "))

	client := booru.NewClient(cfg, logger)
	storage := localstorage.NewLocalStorage(cfg.OutputDir)
	pipeline := service.NewPipeline(cfg, client, client, storage, logger)
	if !flagYes {
		pipeline.Confirm = confirm
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warnw("interrupt received, stopping discovery")
		cancel()
	}()

	if _, err := pipeline.Run(ctx); err != nil {
		return err
	}
	return nil
}

func main() {
	// A missing .env is fine; credentials may come from flags or the
	// environment directly.
	_ = godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		pterm.Error.Printfln("%v", err)
		os.Exit(1)
	}
}
