package config

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

// LoadPolicy reads a TOML policy file layered over scoring.DefaultPolicy.
// An empty path yields the defaults. composer, when set, overrides the
// file's composer.
func LoadPolicy(path, composer string) (scoring.Policy, error) {
	p := scoring.DefaultPolicy()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("read policy: %w", err)
		}
		if err := toml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("parse policy %s: %w", path, err)
		}
	}
	if composer != "" {
		p.Composer = composer
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid policy: %w", err)
	}
	return p, nil
}

// EncodePolicy renders p as TOML.
func EncodePolicy(p scoring.Policy) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PolicyHolder serves the active policy and swaps it atomically on reload.
type PolicyHolder struct {
	cur      atomic.Pointer[scoring.Policy]
	path     string
	composer string
}

func NewPolicyHolder(path, composer string) (*PolicyHolder, error) {
	p, err := LoadPolicy(path, composer)
	if err != nil {
		return nil, err
	}
	h := &PolicyHolder{path: path, composer: composer}
	h.cur.Store(&p)
	return h, nil
}

func (h *PolicyHolder) Current() scoring.Policy { return *h.cur.Load() }

// Reload re-reads the policy file. On error the active policy is kept.
func (h *PolicyHolder) Reload() error {
	p, err := LoadPolicy(h.path, h.composer)
	if err != nil {
		return err
	}
	h.cur.Store(&p)
	return nil
}

// Watch reloads the policy whenever its file changes, until ctx is done.
// The parent directory is watched so editors that replace the file by
// rename are picked up.
func (h *PolicyHolder) Watch(ctx context.Context) error {
	if h.path == "" {
		return fmt.Errorf("no policy file to watch")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(h.path)
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := h.Reload(); err != nil {
					log.Printf("policy reload failed, keeping previous policy: %v", err)
					continue
				}
				log.Printf("policy reloaded from %s (composer=%s)", h.path, h.Current().Composer)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("policy watcher: %v", err)
			}
		}
	}()
	return nil
}
