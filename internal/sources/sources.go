// Package sources lit les listes de sources du mode hebdomadaire :
// playlists.yaml (entrées url + commentaire) et channels.txt (une URL de
// chaîne par ligne).
package sources

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlaylistEntry : une playlist suivie, avec son commentaire libre.
type PlaylistEntry struct {
	URL     string `yaml:"url"`
	Comment string `yaml:"comment"`
}

type playlistsFile struct {
	Playlists []PlaylistEntry `yaml:"playlists"`
}

// LoadPlaylists lit le fichier YAML des playlists suivies. Un fichier
// absent n'est pas une erreur : la liste est simplement vide.
func LoadPlaylists(path string) ([]PlaylistEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("info: %s introuvable, aucune playlist à traiter\n", path)
			return nil, nil
		}
		return nil, fmt.Errorf("lecture de %s: %w", path, err)
	}

	var f playlistsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("analyse de %s: %w", path, err)
	}

	// entrées sans URL écartées
	out := make([]PlaylistEntry, 0, len(f.Playlists))
	for _, p := range f.Playlists {
		p.URL = strings.TrimSpace(p.URL)
		if p.URL == "" {
			continue
		}
		if p.Comment == "" {
			p.Comment = "No comment provided"
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadChannels lit channels.txt : une URL par ligne, lignes vides et
// commentaires (#) ignorés. Fichier absent -> liste vide.
func LoadChannels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("info: %s introuvable, aucune chaîne à traiter\n", path)
			return nil, nil
		}
		return nil, fmt.Errorf("ouverture de %s: %w", path, err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("lecture de %s: %w", path, err)
	}
	return urls, nil
}
