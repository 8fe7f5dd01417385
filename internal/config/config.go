// Package config charge la configuration YAML de ytharvest. Au premier
// lancement le fichier est créé depuis l'exemple embarqué ; les valeurs
// absentes retombent sur les défauts et quelques variables d'environnement
// peuvent les surcharger.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/patrickprogramme/ytharvest/internal/assets"
	"github.com/patrickprogramme/ytharvest/internal/bootstrap"
)

const CurrentConfigVersion = 1

// DefaultPath : fichier de configuration cherché par défaut dans le
// répertoire courant.
const DefaultPath = "ytharvest.yaml"

// Backoff : attente progressive entre deux rotations de clé.
type Backoff struct {
	Enabled        bool `yaml:"enabled"`
	InitialSeconds int  `yaml:"initial_seconds"`
	MaxSeconds     int  `yaml:"max_seconds"`
}

// Summary : passe de résumé TLDR exécutée après les téléchargements.
type Summary struct {
	Enabled     bool   `yaml:"enabled"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	PromptPath  string `yaml:"prompt_path"`
	PaceSeconds int    `yaml:"pace_seconds"`

	// APIKey vient de GEMINI_API_KEY, jamais du fichier.
	APIKey string `yaml:"-"`
}

// struct pour les paramètres de configuration
type Config struct {
	// Dossiers de sortie par workflow
	ChannelsDir  string `yaml:"channels_dir"`
	PlaylistsDir string `yaml:"playlists_dir"`
	LastWeekDir  string `yaml:"lastweek_dir"`

	// Transcripts
	Languages   []string `yaml:"languages"`
	Overwrite   bool     `yaml:"overwrite"`
	PaceSeconds int      `yaml:"pace_seconds"`

	// Rotation des clés
	MaxRetries   int     `yaml:"max_retries"`
	RetryBackoff Backoff `yaml:"retry_backoff"`

	// Résumés
	Summary Summary `yaml:"summary"`

	// Sources du mode hebdomadaire
	PlaylistsFile string `yaml:"playlists_file"`
	ChannelsFile  string `yaml:"channels_file"`

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
}

// configuration par défaut (fallback si l'asset embarqué est manquant)
func defaultConfig() *Config {
	c := &Config{}

	c.ChannelsDir = "yt-channels"
	c.PlaylistsDir = "yt-playlists"
	c.LastWeekDir = "yt-lastweek"

	c.Languages = []string{"it", "en"}
	c.Overwrite = false
	c.PaceSeconds = 1

	c.MaxRetries = 3
	c.RetryBackoff = Backoff{Enabled: false, InitialSeconds: 1, MaxSeconds: 30}

	c.Summary = Summary{
		Enabled:     true,
		Model:       "gemini-exp-1206",
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
		PromptPath:  "prompt.txt",
		PaceSeconds: 2,
	}

	c.PlaylistsFile = "playlists.yaml"
	c.ChannelsFile = "channels.txt"

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// Load lit la config ; si le fichier n'existe pas, on le crée depuis
// l'exemple embarqué dans internal/assets. Les variables d'environnement
// sont appliquées en dernier.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

// load est la variante testable : lookup remplace os.LookupEnv.
func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	// si le fichier n'existe pas -> créer à partir de l'asset embarqué
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := bootstrap.EnsureConfigPresent(path, assets.Embedded, assets.DefaultConfigAsset); err != nil {
			return nil, fmt.Errorf("échec de création du fichier de configuration par défaut : %w", err)
		}
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// champs présents écrasent les defaults, champs absents les conservent
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}
	cfg.configFilePath = path

	cfg.applyEnvOverrides(lookup)
	cfg.normalizeConfig()

	return cfg, nil
}

// Path retourne le chemin du fichier effectivement chargé.
func (c *Config) Path() string { return c.configFilePath }

// applyEnvOverrides applique les surcharges d'environnement :
// MAX_RETRIES, OVERWRITE et GEMINI_API_KEY.
func (c *Config) applyEnvOverrides(lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	if v, ok := lookup("MAX_RETRIES"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			c.MaxRetries = n
		}
	}
	if v, ok := lookup("OVERWRITE"); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			c.Overwrite = true
		case "0", "false", "no", "off":
			c.Overwrite = false
		}
	}
	if v, ok := lookup("GEMINI_API_KEY"); ok {
		c.Summary.APIKey = strings.TrimSpace(v)
	}
}

func (c *Config) normalizeConfig() {
	// Nettoyage des chemins
	c.ChannelsDir = filepath.Clean(strings.TrimSpace(c.ChannelsDir))
	c.PlaylistsDir = filepath.Clean(strings.TrimSpace(c.PlaylistsDir))
	c.LastWeekDir = filepath.Clean(strings.TrimSpace(c.LastWeekDir))
	if c.ChannelsDir == "." {
		c.ChannelsDir = "yt-channels"
	}
	if c.PlaylistsDir == "." {
		c.PlaylistsDir = "yt-playlists"
	}
	if c.LastWeekDir == "." {
		c.LastWeekDir = "yt-lastweek"
	}

	// Langues : trim, minuscules, entrées vides écartées
	langs := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{"it", "en"}
	}
	c.Languages = langs

	if c.PaceSeconds < 0 {
		c.PaceSeconds = 0
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}

	if c.RetryBackoff.InitialSeconds <= 0 {
		c.RetryBackoff.InitialSeconds = 1
	}
	if c.RetryBackoff.MaxSeconds < c.RetryBackoff.InitialSeconds {
		c.RetryBackoff.MaxSeconds = c.RetryBackoff.InitialSeconds
	}

	c.Summary.Model = strings.TrimSpace(c.Summary.Model)
	if c.Summary.Model == "" {
		c.Summary.Model = "gemini-exp-1206"
	}
	c.Summary.BaseURL = strings.TrimRight(strings.TrimSpace(c.Summary.BaseURL), "/")
	if c.Summary.BaseURL == "" {
		c.Summary.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	c.Summary.PromptPath = strings.TrimSpace(c.Summary.PromptPath)
	if c.Summary.PromptPath == "" {
		c.Summary.PromptPath = "prompt.txt"
	}
	if c.Summary.PaceSeconds < 0 {
		c.Summary.PaceSeconds = 0
	}

	c.PlaylistsFile = strings.TrimSpace(c.PlaylistsFile)
	if c.PlaylistsFile == "" {
		c.PlaylistsFile = "playlists.yaml"
	}
	c.ChannelsFile = strings.TrimSpace(c.ChannelsFile)
	if c.ChannelsFile == "" {
		c.ChannelsFile = "channels.txt"
	}
}
