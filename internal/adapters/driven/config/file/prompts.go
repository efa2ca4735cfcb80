package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore reads prompt templates from <dir>/<name>.txt, falling back
// to built-in defaults. The directory is seeded on first Load.
type PromptStore struct {
	dir string

	mu    sync.RWMutex
	cache map[string]string

	seedOnce sync.Once
	seedErr  error
}

var defaultPrompts = map[string]string{
	driven.PromptChatSystem: `You are a helpful assistant for a document processing system.
Users upload PDFs and scanned images, which are converted to text, chunked
and embedded for retrieval. Answer questions about those documents clearly
and concisely. If you do not know the answer, say so.`,
}

const promptsReadme = `# docchat prompts

Each .txt file in this directory is a prompt template used by docchat.

- chat_system.txt: system message sent before every chat conversation

Edit a file to change the behaviour. Delete it to restore the default on
the next start. Changes apply to new chat sessions.
`

// NewPromptStore creates a store rooted at dir. An empty dir uses
// ~/.docchat/prompts. No I/O happens until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the named prompt. Unknown names wrap domain.ErrNotFound.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	def, known := defaultPrompts[name]
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	switch {
	case err == nil && strings.TrimSpace(string(data)) != "":
		prompt = strings.TrimSpace(string(data))
	case known:
		prompt = def
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	default:
		return "", fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
	}

	s.mu.Lock()
	s.cache[name] = prompt
	s.mu.Unlock()
	return prompt, nil
}

// Reload clears the cache so the next Load reads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// SeedErr reports why the directory could not be seeded, if it failed.
// Load still serves defaults in that case.
func (s *PromptStore) SeedErr() error {
	return s.seedErr
}

// seed writes missing default prompt files and the README.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	files := map[string]string{"README.md": promptsReadme}
	for name, content := range defaultPrompts {
		files[name+".txt"] = content + "\n"
	}
	for name, content := range files {
		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			s.seedErr = fmt.Errorf("write %s: %w", name, err)
			return
		}
	}
}
