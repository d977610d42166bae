package tokenstore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/prohmpiriya/bazaar-client/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var errDecrypt = errors.New("token decryption failed")

type fileRecord struct {
	Token     string `json:"jwt_token"`
	Encrypted bool   `json:"encrypted,omitempty"`
}

// FileStore keeps the token in a 0600 JSON file, optionally sealed with
// nacl/secretbox.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  *[32]byte
	log  *logger.Logger
}

// NewFileStore creates a file-backed store. A nil key stores plaintext.
func NewFileStore(path string, key *[32]byte, log *logger.Logger) *FileStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &FileStore{path: path, key: key, log: log.Named("tokenstore.file")}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("read token file", zap.String("path", s.path), zap.Error(err))
		}
		return "", false
	}

	var rec fileRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.log.Warn("decode token file", zap.String("path", s.path), zap.Error(err))
		return "", false
	}
	if rec.Token == "" {
		return "", false
	}
	if !rec.Encrypted {
		return rec.Token, true
	}

	token, err := s.open(rec.Token)
	if err != nil {
		s.log.Warn("open token file", zap.String("path", s.path), zap.Error(err))
		return "", false
	}
	return token, true
}

func (s *FileStore) Set(_ context.Context, token string) error {
	rec := fileRecord{Token: token}
	if s.key != nil {
		sealed, err := s.seal(token)
		if err != nil {
			return err
		}
		rec = fileRecord{Token: sealed, Encrypted: true}
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeAtomic(s.path, raw)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

func (s *FileStore) seal(token string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(token), &nonce, s.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *FileStore) open(sealed string) (string, error) {
	if s.key == nil {
		return "", fmt.Errorf("%w: no key configured", errDecrypt)
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", errDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, s.key)
	if !ok {
		return "", errDecrypt
	}
	return string(plain), nil
}

// writeAtomic replaces path with data via a temp file in the same directory
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp token file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}
