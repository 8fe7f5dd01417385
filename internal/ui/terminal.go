package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/patrickprogramme/ytharvest/internal/youtube"
)

type terminalUI struct {
	reader *bufio.Reader
}

func NewTerminal() Interface {
	return &terminalUI{reader: bufio.NewReader(os.Stdin)}
}

// ChooseMode affiche le menu principal et boucle jusqu'à un choix valide.
func (t *terminalUI) ChooseMode(ctx context.Context) (Mode, error) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println(center("YouTube Transcripts Downloader", 50))
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()
	fmt.Println("Options disponibles :")
	fmt.Println()
	fmt.Println("1. Transcripts des vidéos de la semaine passée")
	fmt.Println("2. Transcripts d'une chaîne YouTube")
	fmt.Println("3. Transcripts d'une playlist YouTube")
	fmt.Println("4. Quitter")
	fmt.Println()

	for {
		if ctx.Err() != nil {
			return ModeExit, ctx.Err()
		}
		fmt.Print("Votre choix (1-4) : ")
		input, err := t.reader.ReadString('\n')
		if err != nil {
			return ModeExit, fmt.Errorf("lecture stdin: %w", err)
		}
		switch strings.TrimSpace(input) {
		case "1":
			return ModeLastWeek, nil
		case "2":
			return ModeChannel, nil
		case "3":
			return ModePlaylist, nil
		case "4":
			return ModeExit, nil
		}
		fmt.Println("Choix invalide. Entrez un nombre entre 1 et 4.")
	}
}

func (t *terminalUI) GetYtURL(ctx context.Context) (string, error) {
	// 1) clipboard
	if clip, err := clipboard.ReadAll(); err == nil {
		clip = strings.TrimSpace(clip)
		if youtube.IsYouTubeURL(clip) {
			t.PrintInfo(ctx, fmt.Sprintf("Utilisation de l'URL depuis le presse-papier: %s", clip))
			return clip, nil
		}
	}
	// 2) prompt
	for {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		fmt.Print("Entrez l'URL d'une chaîne ou playlist YouTube: ")
		input, err := t.reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("lecture stdin: %w", err)
		}
		url := strings.TrimSpace(input)
		if youtube.IsYouTubeURL(url) {
			return url, nil
		}
		fmt.Println("❌ URL invalide. Essayez à nouveau.")
	}
}

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	fmt.Println(s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	fmt.Fprintln(os.Stderr, s)
}

func (t *terminalUI) Pause(ctx context.Context) {
	fmt.Print("\nAppuyez sur Entrée pour continuer...")
	_, _ = t.reader.ReadString('\n')
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
