package ui

import "context"

// Mode : workflow choisi dans le menu.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeLastWeek
	ModeChannel
	ModePlaylist
	ModeExit
)

type Interface interface {
	// ChooseMode affiche le menu et renvoie le workflow choisi.
	ChooseMode(ctx context.Context) (Mode, error)

	// GetYtURL doit renvoyer une URL YouTube valide.
	// Implémentation terminale : priorité clipboard -> prompt
	GetYtURL(ctx context.Context) (string, error)

	PrintInfo(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)

	// Pause attend que l'utilisateur appuie sur Entrée avant de revenir
	// au menu.
	Pause(ctx context.Context)
}
