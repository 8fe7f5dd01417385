// Package keypool gère l'ensemble ordonné des clés API et l'état de
// rotation. Le pool est construit une fois par exécution et passé
// explicitement aux consommateurs : jamais d'état global.
package keypool

import (
	"errors"
	"fmt"
	"sync"
)

// Erreurs exportées
var (
	// ErrNoKeys : aucune clé trouvée au démarrage. Fatal.
	ErrNoKeys = errors.New("aucune clé API trouvée dans l'environnement")

	// ErrExhausted : trop de rotations consécutives sans succès. Fatal pour
	// l'opération en cours, plus aucun appel distant ne peut aboutir.
	ErrExhausted = errors.New("toutes les clés API sont invalides ou leur quota est épuisé")
)

const defaultMaxRetries = 3

// Key est une clé API immuable une fois chargée.
// Index est la position 1-based dans l'environnement (API_KEY_<Index>).
type Key struct {
	Index  int
	Secret string
}

func (k Key) String() string {
	return fmt.Sprintf("API_KEY_%d", k.Index)
}

// ReinitFunc est invoquée après chaque rotation pour ré-initialiser le
// client lié à la nouvelle clé. Un échec fait passer à la clé suivante.
type ReinitFunc func(Key) error

// Pool détient les clés et l'état de rotation. L'accès est sérialisé par un
// mutex : le pipeline de base est séquentiel, mais un appelant concurrent ne
// doit jamais observer un couple index/compteur incohérent.
//
// Invariants : current indexe toujours une clé valide ;
// retryCount ∈ [0, maxRetries].
type Pool struct {
	mu         sync.Mutex
	keys       []Key
	current    int
	retryCount int
	maxRetries int
	reinit     ReinitFunc
}

// Option configure le Pool à la construction.
type Option func(*Pool)

// WithMaxRetries borne le nombre de rotations consécutives avant
// ErrExhausted. La borne est indépendante de la taille du pool : avec
// beaucoup de clés, l'épuisement peut survenir avant d'avoir toutes
// les essayées.
func WithMaxRetries(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.maxRetries = n
		}
	}
}

// WithReinit enregistre le hook de ré-initialisation appelé à chaque
// changement de clé (et une fois à la construction, sur la première clé).
func WithReinit(f ReinitFunc) Option {
	return func(p *Pool) { p.reinit = f }
}

// FromEnv balaye les variables API_KEY_1, API_KEY_2, ... jusqu'au premier
// trou. lookup est typiquement os.LookupEnv ; injectable pour les tests.
func FromEnv(lookup func(string) (string, bool), opts ...Option) (*Pool, error) {
	var keys []Key
	for i := 1; ; i++ {
		secret, ok := lookup(fmt.Sprintf("API_KEY_%d", i))
		if !ok || secret == "" {
			break
		}
		keys = append(keys, Key{Index: i, Secret: secret})
	}
	return New(keys, opts...)
}

// New construit un pool à partir de clés déjà chargées.
func New(keys []Key, opts ...Option) (*Pool, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	p := &Pool{
		keys:       keys,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(p)
	}
	// initialisation du client sur la première clé
	if p.reinit != nil {
		if err := p.reinit(p.keys[0]); err != nil {
			return nil, fmt.Errorf("initialisation avec %s : %w", p.keys[0], err)
		}
	}
	return p, nil
}

// Size retourne le nombre de clés chargées.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

// Current retourne la clé active.
func (p *Pool) Current() Key {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys[p.current]
}

// MarkSuccess remet le compteur de rotations à zéro. À appeler après
// chaque requête distante réussie.
func (p *Pool) MarkSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retryCount = 0
}

// Rotate avance cycliquement vers la clé suivante et incrémente le compteur
// de rotations consécutives. Quand le compteur atteint la borne, il est
// remis à zéro et ErrExhausted est retourné.
//
// Si le hook de ré-initialisation échoue sur la nouvelle clé, on passe à la
// suivante dans la même boucle bornée — pas de récursion, la borne ci-dessus
// couvre aussi ces échecs.
func (p *Pool) Rotate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		p.current = (p.current + 1) % len(p.keys)
		p.retryCount++
		if p.retryCount >= p.maxRetries {
			p.retryCount = 0
			return ErrExhausted
		}
		if p.reinit == nil {
			return nil
		}
		if err := p.reinit(p.keys[p.current]); err == nil {
			return nil
		}
		// ré-initialisation en échec : clé suivante
	}
}

// retries expose le compteur pour les tests du paquet.
func (p *Pool) retries() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.retryCount
}
