package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/patrickprogramme/ytharvest/internal/app"
	"github.com/patrickprogramme/ytharvest/internal/assets"
	"github.com/patrickprogramme/ytharvest/internal/bootstrap"
	"github.com/patrickprogramme/ytharvest/internal/config"
	"github.com/patrickprogramme/ytharvest/internal/keypool"
	"github.com/patrickprogramme/ytharvest/internal/request"
	"github.com/patrickprogramme/ytharvest/internal/summarize"
	"github.com/patrickprogramme/ytharvest/internal/transcript"
	"github.com/patrickprogramme/ytharvest/internal/ui"
	"github.com/patrickprogramme/ytharvest/internal/youtube"
)

func main() {
	flags := parseFlags()

	// déterminer exePath/binDir
	binDir := "."
	exePath, err := os.Executable()
	if err != nil {
		log.Printf("impossible de déterminer le chemin de l'executable: %v", err)
	} else {
		binDir = filepath.Dir(exePath)
		fmt.Printf("Lancement depuis: %s\n", exePath)
	}

	// emplacement config par défaut
	if flags.ConfigPath == config.DefaultPath || flags.ConfigPath == "" {
		flags.ConfigPath = filepath.Join(binDir, config.DefaultPath)
	}

	// s'assurer que le fichier config existe, si non on le crée
	if err := bootstrap.EnsureConfigPresent(
		flags.ConfigPath,
		assets.Embedded,
		assets.DefaultConfigAsset,
	); err != nil {
		log.Printf("erreur: EnsureConfigPresent: %v", err)
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	// s'assurer que le prompt TLDR existe sur disque
	if err := bootstrap.EnsurePromptPresent(
		cfg.Summary.PromptPath,
		assets.Embedded,
		assets.TemplateByName["tldr_prompt"],
	); err != nil {
		log.Printf("warning: ensure prompt present: %v", err)
	}

	// clés API : API_KEY_1, API_KEY_2, ... dans l'environnement
	pool, err := keypool.FromEnv(os.LookupEnv, keypool.WithMaxRetries(cfg.MaxRetries))
	if err != nil {
		log.Fatalf("clés API: %v (définissez API_KEY_1, API_KEY_2, ...)", err)
	}
	fmt.Printf("%d clé(s) API chargée(s)\n", pool.Size())

	var execOpts []request.Option
	if cfg.RetryBackoff.Enabled {
		execOpts = append(execOpts, request.WithRetryBackoff(
			time.Duration(cfg.RetryBackoff.InitialSeconds)*time.Second,
			time.Duration(cfg.RetryBackoff.MaxSeconds)*time.Second,
		))
	}
	exec := request.New(pool, execOpts...)

	api := youtube.NewClient(exec)
	source := transcript.NewTimedTextSource(exec, "")

	newTranscripts := func() app.TranscriptStore {
		return transcript.New(source,
			transcript.WithLanguages(cfg.Languages),
			transcript.WithPace(time.Duration(cfg.PaceSeconds)*time.Second),
		)
	}

	var sum app.Summarizer
	if cfg.Summary.Enabled {
		if cfg.Summary.APIKey == "" {
			log.Printf("warning: résumés activés mais GEMINI_API_KEY absente, passe TLDR désactivée")
		} else {
			prompt, perr := summarize.LoadPrompt(cfg.Summary.PromptPath)
			if perr != nil {
				log.Printf("warning: %v, passe TLDR désactivée", perr)
			} else {
				sum = summarize.New(cfg.Summary.APIKey, prompt,
					summarize.WithModel(cfg.Summary.Model),
					summarize.WithBaseURL(cfg.Summary.BaseURL),
					summarize.WithPace(time.Duration(cfg.Summary.PaceSeconds)*time.Second),
				)
			}
		}
	}

	// root context qui s'annule sur SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tui := ui.NewTerminal()
	a := app.New(cfg, tui, flags, api, newTranscripts, sum)
	if err := a.Run(ctx); err != nil {
		log.Fatalf("app run: %v", err)
	}
}

func parseFlags() *app.CLIFlags {
	f := &app.CLIFlags{}
	flag.StringVar(&f.ConfigPath, "config", config.DefaultPath, "chemin du fichier de configuration")
	flag.StringVar(&f.URL, "url", "", "URL de chaîne ou de playlist YouTube (optionnel)")
	flag.StringVar(&f.Mode, "mode", "", "workflow à exécuter : lastweek, channel ou playlist (vide : menu)")
	flag.Parse()
	return f
}
