package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/lock"
	"github.com/custodia-labs/docchat/internal/adapters/driven/ocr/tesseract"
	"github.com/custodia-labs/docchat/internal/adapters/driven/ocr/visual"
	"github.com/custodia-labs/docchat/internal/adapters/driven/pdf/pdfcpu"
	"github.com/custodia-labs/docchat/internal/adapters/driven/process"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/adapters/driving/oauth"
	"github.com/custodia-labs/docchat/internal/connectors/google"
	"github.com/custodia-labs/docchat/internal/connectors/google/drive"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
)

// closers releases resources in reverse order of acquisition.
type closers []io.Closer

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// wire builds the application services from the config directory.
func wire(_ context.Context, opts cli.Options) (_ *cli.Services, err error) {
	var cl closers
	defer func() {
		if err != nil {
			_ = cl.Close()
		}
	}()

	appCfg, err := file.LoadAppConfig(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	getenv := func(key string) string { return appCfg.GetEnv(key, "") }

	logDir := opts.LogDir
	if logDir == "" {
		logDir = appCfg.LogDir
	}
	files, err := logger.Setup(logDir, logger.Options{})
	if err != nil {
		return nil, err
	}
	cl = append(cl, files)

	appLog, logCloser, err := logger.New(appCfg.AppName, appCfg.LogLevel, appCfg.LogFile, files.Process.Out)
	if err != nil {
		return nil, err
	}
	cl = append(cl, logCloser)
	appLog.Logger.AddHook(&writer.Hook{
		Writer:    files.Error.Out,
		LogLevels: []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel},
	})
	logger.Debug("logs in %s", logDir)

	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, err
	}
	resolved := ai.WithEnvKey(*settings, getenv)

	promptDir := ""
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(appCfg.DataDir)
	if err != nil {
		return nil, err
	}
	cl = append(cl, store)

	llm, err := ai.CreateLLMService(&resolved.LLM)
	if err != nil {
		appLog.WithError(err).Warn("Chat model unavailable")
	}
	if llm != nil {
		cl = append(cl, llm)
	}
	chat := services.NewChatService(llm, store.ChatHistoryStore(), services.WithPromptStore(prompts))

	ocr := tesseract.NewEngine()
	cl = append(cl, ocr)
	vis := visual.NewVisualizer()
	pages := pdfcpu.NewPageCounter()
	dirs := services.DocumentDirs{Docs: appCfg.DocsDir, Images: appCfg.ImagesDir}

	return &cli.Services{
		Config:     appCfg,
		Log:        appLog,
		ProcessLog: files.Process,
		ErrorLog:   files.Error,
		Chat:       chat,
		Settings:   settingsSvc,
		Logs: services.NewLogService(services.LogFiles{
			Dir:         logDir,
			ProcessName: logger.DefaultProcessLogName,
			ErrorName:   logger.DefaultErrorLogName,
		}),
		NewDocuments: func(out io.Writer) driving.DocumentService {
			return services.NewDocumentService(dirs, ocr, vis, pages, out)
		},
		NewPipeline: func(out io.Writer) driving.PipelineService {
			return services.NewPipelineService(process.NewRunner(), lock.NewFileLocker(), out,
				services.WithGetenv(getenv), services.WithColor(isTTY(out)))
		},
		NewAsker: func(provider domain.AIProvider, model string) (driving.ChatService, error) {
			svc, err := newLLM(provider, model, resolved.LLM, getenv)
			if err != nil {
				return nil, err
			}
			cl = append(cl, svc)
			return services.NewChatService(svc, nil, services.WithPromptStore(prompts)), nil
		},
		NewDrive: newDrive,
		Close: func() error {
			return cl.Close()
		},
	}, nil
}

// newLLM builds a chat model for an explicit provider. The Ollama base
// URL comes from the saved settings when they use Ollama too.
func newLLM(provider domain.AIProvider, model string, saved domain.LLMSettings, getenv func(string) string) (driven.LLMService, error) {
	ls := domain.LLMSettings{Provider: provider, Model: model}
	switch provider {
	case domain.AIProviderOllama:
		ls.BaseURL = domain.DefaultOllamaBaseURL
		if saved.Provider == domain.AIProviderOllama && saved.BaseURL != "" {
			ls.BaseURL = saved.BaseURL
		}
	case domain.AIProviderOpenAI:
		ls.APIKey = getenv(ai.OpenAIKeyEnv)
		if ls.APIKey == "" && saved.Provider == domain.AIProviderOpenAI {
			ls.APIKey = saved.APIKey
		}
		if ls.APIKey == "" {
			return nil, fmt.Errorf("%w: %s is not set", domain.ErrMissingCredential, ai.OpenAIKeyEnv)
		}
	}
	svc, err := ai.CreateLLMService(&ls)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrLLMUnavailable
	}
	return svc, nil
}

// newDrive runs the installed-app authorization and returns a downloader.
func newDrive(ctx context.Context, credentials, token string, out io.Writer) (cli.DriveDownloader, error) {
	receiver := func(state string) google.CodeReceiver {
		return oauth.NewCallbackServer(0, state)
	}
	prompt := func(authURL string) {
		fmt.Fprintf(out, "Please visit this URL to authorize access:\n%s\n", authURL)
		if err := oauth.OpenBrowser(authURL); err != nil {
			logger.Debug("open browser: %v", err)
		}
	}

	authz, err := google.NewAuthorizer(credentials, token, receiver, prompt)
	if err != nil {
		return nil, err
	}
	ts, err := authz.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return nil, err
	}
	return drive.NewDownloader(svc, out), nil
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
