package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/habr-zen/app/api"
	"github.com/lysyi3m/habr-zen/app/cfg"
	"github.com/lysyi3m/habr-zen/app/database"
	"github.com/lysyi3m/habr-zen/app/feed"
	"github.com/lysyi3m/habr-zen/app/llm"
	"github.com/lysyi3m/habr-zen/app/publisher"
	"github.com/lysyi3m/habr-zen/app/tasks"
	"github.com/lysyi3m/habr-zen/app/telegram"
)

func main() {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appCfg); err != nil {
		slog.Error("Run failed", "command", appCfg.Command, "error", err)
		stop()
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func run(ctx context.Context, appCfg *cfg.Cfg) error {
	profile, err := feed.LoadProfile(appCfg.Source)
	if err != nil {
		return err
	}

	client := feed.NewClient(appCfg.UserAgent, appCfg.FetchTimeout, appCfg.FetchInterval)

	if appCfg.Command == cfg.CommandDump {
		task := tasks.NewDumpPagesTask(client, profile, appCfg.OutDir)
		if err := execute(ctx, task); err != nil {
			return err
		}
		fmt.Printf("Saved feed html: %s\nSaved detail html: %s\nDetail URL: %s\n",
			task.Result.FeedPath, task.Result.ArticlePath, task.Result.ArticleURL)
		return nil
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(); err != nil {
		return err
	}

	articles := database.NewArticleRepository(db)
	posts := database.NewPostRepository(db)

	if appCfg.Command == cfg.CommandServe {
		return serve(ctx, appCfg, profile, articles, posts)
	}

	var fetcherOpts []feed.FetcherOption
	if appCfg.ReadabilityFallback {
		fetcherOpts = append(fetcherOpts, feed.WithReadabilityFallback())
	}
	reader := feed.NewReader(client, profile)
	fetcher := feed.NewFetcher(client, feed.NewArticleRules(profile.Article), fetcherOpts...)

	ingest := tasks.NewIngestTask(profile.Name, reader, fetcher, articles, appCfg.Limit)

	if appCfg.Command == cfg.CommandIngest {
		if err := execute(ctx, ingest); err != nil {
			return err
		}
		fmt.Printf("Parsed: %d, inserted: %d, db: %s\n", ingest.Result.Parsed, ingest.Result.Inserted, appCfg.DBPath)
		return nil
	}

	completer := llm.NewClient(llm.ClientConfig{
		BaseURL:     appCfg.OpenAIBaseURL,
		APIKey:      appCfg.OpenAIKey,
		Model:       appCfg.OpenAIModel,
		Temperature: appCfg.OpenAITemperature,
		Timeout:     appCfg.OpenAITimeout,
	})

	var sender publisher.Sender
	if appCfg.TelegramEnabled() {
		tgClient, err := telegram.NewClient(appCfg.TelegramBaseURL, appCfg.TelegramToken, appCfg.TelegramChatID, appCfg.TelegramTimeout)
		if err != nil {
			return err
		}
		sender = tgClient
	} else {
		slog.Info("Telegram delivery disabled (TG_BOT_TOKEN or TG_CHAT_ID not set)")
	}
	pub := publisher.New(posts, sender)

	pipeline := tasks.NewPipelineTask(profile.Name, ingest, func(ingested tasks.IngestResult) *tasks.ZenTask {
		return tasks.NewZenTask(profile.Name, llm.NewRanker(completer), llm.NewPostGenerator(completer),
			pub, completer.Model(), appCfg.TopK, ingested.Articles)
	}, appCfg.DBPath)

	if err := execute(ctx, pipeline); err != nil {
		return err
	}
	fmt.Println(pipeline.Summary())

	return nil
}

func execute(ctx context.Context, task tasks.TaskInterface) error {
	if err := task.Execute(ctx); err != nil {
		slog.Error("Task failed", "type", task.GetType(), "id", task.GetID(), "source", task.GetSource(), "duration", task.GetDuration(), "error", err)
		return err
	}
	return nil
}

func serve(ctx context.Context, appCfg *cfg.Cfg, profile *feed.Profile, articles database.ArticleRepository, posts database.PostRepository) error {
	link := profile.FeedURL
	if appCfg.BaseURL != "" {
		link = appCfg.BaseURL + "/posts.xml"
	}

	handler := api.NewHandler(articles, posts, api.NewGenerator(appCfg.Version), api.Channel{
		Title:       fmt.Sprintf("%s zen posts", profile.Name),
		Link:        link,
		Description: fmt.Sprintf("Posts generated from %s", profile.FeedURL),
	})

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "version", appCfg.Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	slog.Info("HTTP server stopped")
	return nil
}
