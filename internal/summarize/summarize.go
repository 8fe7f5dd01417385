// Package summarize produit les résumés TLDR des transcripts téléchargés
// via l'API generateContent. Le prompt vient d'un fichier sur disque et
// contient le marqueur {text} remplacé par le transcript.
package summarize

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/patrickprogramme/ytharvest/internal/fetch"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-exp-1206"

	// les résumés peuvent être longs, on laisse plus de marge qu'un fetch
	// ordinaire
	requestTimeout = 90 * time.Second
)

// textMarker : emplacement du transcript dans le template de prompt.
const textMarker = "{text}"

// Client appelle le service de résumé pour un modèle donné.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	prompt  string
	limiter *rate.Limiter
}

// Option ajuste la construction du Client.
type Option func(*Client)

// WithModel change le modèle utilisé.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL change l'URL de base (utile en test).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithPace impose un délai minimal entre deux résumés.
func WithPace(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// New construit un Client. prompt est le template complet (marqueur {text}
// inclus) ; apiKey vide est accepté à la construction mais fera échouer les
// appels.
func New(apiKey, prompt string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		prompt:  prompt,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadPrompt lit le template de prompt depuis disque.
func LoadPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("lecture du prompt %s: %w", path, err)
	}
	prompt := string(data)
	if !strings.Contains(prompt, textMarker) {
		return "", fmt.Errorf("le prompt %s ne contient pas le marqueur %s", path, textMarker)
	}
	return prompt, nil
}

// structures du protocole generateContent
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Summarize soumet un transcript et renvoie le résumé produit.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("clé API de résumé absente (GEMINI_API_KEY)")
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: strings.ReplaceAll(c.prompt, textMarker, text)}}}},
	}

	var resp generateResponse
	if err := fetch.PostJSONInto(ctx, endpoint, requestTimeout, 0, payload, &resp); err != nil {
		return "", fmt.Errorf("appel generateContent: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("réponse generateContent sans candidat")
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("réponse generateContent vide")
	}
	return out, nil
}

// ProcessFolder résume chaque *.txt de dir vers dir/TLDR/<nom>.md. Les
// fichiers de sortie existants sont réécrits. Un échec sur un transcript
// n'interrompt pas les suivants ; l'annulation du contexte, si.
func (c *Client) ProcessFolder(ctx context.Context, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return fmt.Errorf("parcours de %s: %w", dir, err)
	}
	if len(files) == 0 {
		fmt.Printf("Aucun transcript à résumer dans %s\n", dir)
		return nil
	}

	outDir := filepath.Join(dir, "TLDR")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("création de %s: %w", outDir, err)
	}

	for _, file := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := filepath.Base(file)
		fmt.Printf("Résumé en cours : %s\n", name)

		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("Lecture impossible de %s : %v\n", name, err)
			continue
		}

		if err := c.pace(ctx); err != nil {
			return err
		}

		summary, err := c.Summarize(ctx, string(data))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Printf("Échec du résumé de %s : %v\n", name, err)
			continue
		}

		base := strings.TrimSuffix(name, filepath.Ext(name))
		outPath := filepath.Join(outDir, base+".md")
		if err := os.WriteFile(outPath, []byte(summary), 0o644); err != nil {
			fmt.Printf("Écriture impossible de %s : %v\n", outPath, err)
			continue
		}
		fmt.Printf("Résumé sauvegardé : %s\n", outPath)
	}
	return nil
}

func (c *Client) pace(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
