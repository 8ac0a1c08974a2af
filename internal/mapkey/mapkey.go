// Package mapkey resolves the API key of the map widget from an ordered
// chain of providers.
package mapkey

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnavailable is returned when no provider yields a key.
var ErrUnavailable = errors.New("map key unavailable")

// Provider looks up a key from one source. ok is false when the source has
// no value; an error means the source itself could not be read.
type Provider interface {
	Name() string
	Lookup(ctx context.Context) (key string, ok bool, err error)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc struct {
	Source string
	Fn     func(ctx context.Context) (string, bool, error)
}

func (p ProviderFunc) Name() string { return p.Source }

func (p ProviderFunc) Lookup(ctx context.Context) (string, bool, error) {
	return p.Fn(ctx)
}

// Resolution is the outcome of Resolve. The caller keeps it; nothing is
// cached at package level.
type Resolution struct {
	Key    string
	Source string
}

// Resolve tries providers in order and returns the first non-blank key.
// Provider errors do not stop the chain; they are reported alongside
// ErrUnavailable when every provider comes up empty.
func Resolve(ctx context.Context, providers ...Provider) (Resolution, error) {
	var errs []error
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return Resolution{}, err
		}
		key, ok, err := p.Lookup(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if ok && strings.TrimSpace(key) != "" {
			return Resolution{Key: strings.TrimSpace(key), Source: p.Name()}, nil
		}
	}
	if len(errs) > 0 {
		return Resolution{}, errors.Join(append([]error{ErrUnavailable}, errs...)...)
	}
	return Resolution{}, ErrUnavailable
}

// Env reads the key from an environment variable. Values from a .env file
// are visible here once godotenv has loaded them.
func Env(name string) Provider {
	return ProviderFunc{
		Source: "env:" + name,
		Fn: func(context.Context) (string, bool, error) {
			v, ok := os.LookupEnv(name)
			return v, ok, nil
		},
	}
}

// AttrReader exposes element attributes of a page.
type AttrReader interface {
	Attr(id, key string) (string, bool)
}

// Attribute reads the key embedded in the page skeleton.
func Attribute(page AttrReader, id, key string) Provider {
	return ProviderFunc{
		Source: "page:#" + id + "[" + key + "]",
		Fn: func(context.Context) (string, bool, error) {
			v, ok := page.Attr(id, key)
			return v, ok, nil
		},
	}
}

// Getter is a local key/value store.
type Getter interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Stored reads a developer key kept in the local store.
func Stored(store Getter, key string) Provider {
	return ProviderFunc{
		Source: "store:" + key,
		Fn: func(ctx context.Context) (string, bool, error) {
			return store.Get(ctx, key)
		},
	}
}
