// Package request enveloppe les appels sortants : détection des échecs de
// quota et relance du même appel après rotation de clé.
package request

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/patrickprogramme/ytharvest/internal/keypool"
)

// Call est un appel distant lié à la clé active. L'appel doit être
// relançable à l'identique : il est réexécuté après chaque rotation.
type Call func(ctx context.Context, key keypool.Key) error

// Executor relie un pool de clés aux appels sortants.
type Executor struct {
	pool *keypool.Pool

	// bo génère le délai optionnel entre deux relances après rotation.
	// nil : pas de délai, comportement de base (la rotation suffit).
	bo *backoff.ExponentialBackOff
}

// Option configure l'Executor.
type Option func(*Executor)

// WithRetryBackoff active un délai exponentiel avec jitter entre les
// relances déclenchées par un quota épuisé.
func WithRetryBackoff(initial, max time.Duration) Option {
	return func(e *Executor) {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = initial
		bo.MaxInterval = max
		e.bo = bo
	}
}

// New construit un Executor sur le pool donné.
func New(pool *keypool.Pool, opts ...Option) *Executor {
	e := &Executor{pool: pool}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsQuotaError reconnaît un échec de quota : le message contient "quota",
// sans distinction de casse. C'est une correspondance de sous-chaîne,
// exactement comme le service distant le laisse transparaître — pas de code
// d'erreur structuré.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "quota")
}

// Execute exécute call avec la clé active. Sur échec de quota, la clé
// tourne puis le même appel repart ; sur keypool.ErrExhausted la relance
// s'arrête et l'erreur remonte. Toute autre erreur remonte immédiatement.
// Un succès remet le compteur de rotations à zéro.
func (e *Executor) Execute(ctx context.Context, call Call) error {
	for {
		err := call(ctx, e.pool.Current())
		if err == nil {
			e.pool.MarkSuccess()
			if e.bo != nil {
				e.bo.Reset()
			}
			return nil
		}
		if !IsQuotaError(err) {
			return err
		}
		fmt.Printf("Quota épuisé avec %s, rotation vers la clé suivante...\n", e.pool.Current())
		if rerr := e.pool.Rotate(); rerr != nil {
			return fmt.Errorf("rotation de clé : %w", rerr)
		}
		if err := e.sleep(ctx); err != nil {
			return err
		}
	}
}

// sleep applique le délai optionnel entre deux relances, interruptible par ctx.
func (e *Executor) sleep(ctx context.Context) error {
	if e.bo == nil {
		return nil
	}
	d := e.bo.NextBackOff()
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
