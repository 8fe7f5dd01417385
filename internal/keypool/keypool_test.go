package keypool

import (
	"errors"
	"fmt"
	"testing"
)

// lookup factice simulant un environnement API_KEY_1..N
func envWith(n int) func(string) (string, bool) {
	return func(name string) (string, bool) {
		for i := 1; i <= n; i++ {
			if name == fmt.Sprintf("API_KEY_%d", i) {
				return fmt.Sprintf("secret-%d", i), true
			}
		}
		return "", false
	}
}

func TestFromEnvScansUntilFirstGap(t *testing.T) {
	// API_KEY_1, API_KEY_2 et API_KEY_4 présentes : le balayage s'arrête au trou
	lookup := func(name string) (string, bool) {
		switch name {
		case "API_KEY_1", "API_KEY_2", "API_KEY_4":
			return "s", true
		}
		return "", false
	}
	p, err := FromEnv(lookup)
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if p.Size() != 2 {
		t.Fatalf("got %d keys, want 2 (stop at first gap)", p.Size())
	}
}

func TestFromEnvNoKeys(t *testing.T) {
	_, err := FromEnv(envWith(0))
	if !errors.Is(err, ErrNoKeys) {
		t.Fatalf("got %v, want ErrNoKeys", err)
	}
}

func TestRotateCyclesAndWraps(t *testing.T) {
	p, err := FromEnv(envWith(3), WithMaxRetries(10))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	want := []int{2, 3, 1, 2} // démarre sur 1, avance cycliquement
	for i, w := range want {
		if err := p.Rotate(); err != nil {
			t.Fatalf("rotate %d: %v", i, err)
		}
		if got := p.Current().Index; got != w {
			t.Fatalf("rotation %d: current=%d, want %d", i, got, w)
		}
	}
}

func TestExhaustionOnNthRotation(t *testing.T) {
	// Borne sur les rotations consécutives, indépendante de la taille du
	// pool : avec 10 clés et maxRetries=3 l'épuisement survient avant
	// d'avoir essayé toutes les clés.
	const maxRetries = 3
	p, err := FromEnv(envWith(10), WithMaxRetries(maxRetries))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	for i := 1; i < maxRetries; i++ {
		if err := p.Rotate(); err != nil {
			t.Fatalf("rotation %d: %v", i, err)
		}
	}
	if err := p.Rotate(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("rotation %d: got %v, want ErrExhausted", maxRetries, err)
	}
	if got := p.retries(); got != 0 {
		t.Fatalf("retryCount=%d après épuisement, want 0", got)
	}
}

func TestMarkSuccessResetsCounter(t *testing.T) {
	p, err := FromEnv(envWith(2), WithMaxRetries(3))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if err := p.Rotate(); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if err := p.Rotate(); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	p.MarkSuccess()
	if got := p.retries(); got != 0 {
		t.Fatalf("retryCount=%d après MarkSuccess, want 0", got)
	}
	// le compteur repart de zéro : deux rotations de plus passent sans erreur
	if err := p.Rotate(); err != nil {
		t.Fatalf("rotate après reset: %v", err)
	}
	if err := p.Rotate(); err != nil {
		t.Fatalf("rotate après reset: %v", err)
	}
}

func TestReinitFailureAdvancesWithinBound(t *testing.T) {
	// la clé 2 refuse la ré-initialisation : Rotate doit passer à la clé 3
	// dans la même boucle, sans récursion ni rotation supplémentaire visible
	var inits []int
	reinit := func(k Key) error {
		inits = append(inits, k.Index)
		if k.Index == 2 {
			return errors.New("client init failed")
		}
		return nil
	}
	p, err := FromEnv(envWith(3), WithMaxRetries(5), WithReinit(reinit))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if err := p.Rotate(); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if got := p.Current().Index; got != 3 {
		t.Fatalf("current=%d, want 3 (la clé 2 a échoué)", got)
	}
	// init à la construction (clé 1), puis clé 2 en échec, puis clé 3
	want := []int{1, 2, 3}
	if len(inits) != len(want) {
		t.Fatalf("inits=%v, want %v", inits, want)
	}
	for i := range want {
		if inits[i] != want[i] {
			t.Fatalf("inits=%v, want %v", inits, want)
		}
	}
}

func TestReinitFailuresEventuallyExhaust(t *testing.T) {
	// toutes les ré-initialisations échouent après la construction : la
	// boucle bornée doit s'arrêter sur ErrExhausted au lieu de tourner
	// indéfiniment
	calls := 0
	reinit := func(Key) error {
		calls++
		if calls == 1 {
			return nil // l'init de construction doit réussir
		}
		return errors.New("down")
	}
	p, err := FromEnv(envWith(2), WithMaxRetries(3), WithReinit(reinit))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if err := p.Rotate(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("got %v, want ErrExhausted", err)
	}
}
