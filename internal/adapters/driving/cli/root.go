// Package cli provides the docchat command line, built on cobra.
// It is a driving adapter: commands call the application services that
// main wires in through SetServices or a Bootstrap function.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set by main from build information.
var version = "dev"

// Persistent flag values.
var (
	verbose   bool
	configDir string
	logDir    string
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Process documents and chat with them",
	Long: `docchat processes documents (OCR, Drive downloads, an ingestion
pipeline into a vector store) and lets you ask questions about them,
either one-shot from the command line or in the interactive UI.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrapServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default ~/.docchat)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Directory for process and error logs (default from app.toml)")
}

// DriveDownloader downloads one Drive file into a local folder.
type DriveDownloader interface {
	DownloadTo(ctx context.Context, fileID, subfolder, basePath string) (string, error)
}

// Services holds the application services the commands call. Constructors
// taking an io.Writer print progress there; commands pass their output.
type Services struct {
	// Config is the loaded app.toml.
	Config domain.AppConfig

	// Log is the application logger.
	Log *logrus.Entry

	// ProcessLog and ErrorLog are the timestamped run logs.
	ProcessLog logrus.FieldLogger
	ErrorLog   logrus.FieldLogger

	Chat     driving.ChatService
	Settings driving.SettingsService
	Logs     driving.LogService

	NewDocuments func(out io.Writer) driving.DocumentService
	NewPipeline  func(out io.Writer) driving.PipelineService

	// NewAsker builds a chat service for an explicit provider and model.
	NewAsker func(provider domain.AIProvider, model string) (driving.ChatService, error)

	// NewDrive authorizes against Drive and returns a downloader.
	NewDrive func(ctx context.Context, credentials, token string, out io.Writer) (DriveDownloader, error)

	// Close releases stores and log files.
	Close func() error
}

// Options are the persistent flag values passed to a Bootstrap.
type Options struct {
	Verbose   bool
	ConfigDir string
	LogDir    string
}

// Bootstrap builds the services once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap Bootstrap
	services  *Services
)

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap registers the function that builds the services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs prebuilt services, bypassing the bootstrap.
func SetServices(s *Services) {
	services = s
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	defer closeServices()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && services != nil && services.ErrorLog != nil {
		services.ErrorLog.WithError(err).Error("command failed")
	}
	return err
}

func bootstrapServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if services != nil || bootstrap == nil {
		return nil
	}
	s, err := bootstrap(cmd.Context(), Options{
		Verbose:   verbose,
		ConfigDir: configDir,
		LogDir:    logDir,
	})
	if err != nil {
		return err
	}
	services = s
	return nil
}

func closeServices() {
	if services == nil || services.Close == nil {
		return
	}
	if err := services.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
}

// errNotConfigured is returned when a command runs without services.
var errNotConfigured = errors.New("services not configured")

func requireServices() (*Services, error) {
	if services == nil {
		return nil, errNotConfigured
	}
	return services, nil
}
