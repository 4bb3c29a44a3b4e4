package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/ports"
)

const (
	credentialsFileMode = 0o600
	credentialsDirMode  = 0o700
	tempFilePattern     = ".credentials-*.toml.tmp"
)

// ErrCredentialsFileExists is returned by Seed when the file is already present.
var ErrCredentialsFileExists = errors.New("credentials file already exists")

// Repository stores HoYoLAB account cookies in a TOML file. Concurrent
// access to the same path shares one lock so a seed and a read never race.
type Repository struct {
	credentialsPath string
	mu              *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.CredentialRepository = (*Repository)(nil)

func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("credentials path is empty")
	}

	path, err := normalizeCredentialsPath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{credentialsPath: path, mu: lockForPath(path)}, nil
}

// Path reports the normalized location of the credentials file.
func (r *Repository) Path() string {
	return r.credentialsPath
}

func (r *Repository) List(ctx context.Context) ([]domain.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	credentials := make([]domain.Credential, 0, len(file.Credentials))
	for i, entry := range file.Credentials {
		cred, err := fromSchema(entry)
		if err != nil {
			return nil, fmt.Errorf("credentials entry %d: %w", i+1, err)
		}
		credentials = append(credentials, cred)
	}

	return credentials, nil
}

// Seed writes a template credentials file with one placeholder entry per
// game. It refuses to overwrite an existing file.
func (r *Repository) Seed(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.credentialsPath); err == nil {
		return fmt.Errorf("%w: %s", ErrCredentialsFileExists, r.credentialsPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat credentials file: %w", err)
	}

	file := fileSchema{Version: currentSchemaVersion}
	for _, spec := range domain.AllGames() {
		file.Credentials = append(file.Credentials, credentialSchema{
			Game:        string(spec.ID),
			LtUID:       "",
			LtToken:     "",
			AccountID:   "",
			CookieToken: "",
			Lang:        domain.DefaultLanguage,
		})
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.credentialsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, fmt.Errorf("%w: %s (run 'hoyocheck credentials init')", domain.ErrCredentialNotFound, r.credentialsPath)
		}
		return fileSchema{}, fmt.Errorf("read credentials file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode credentials file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.credentialsPath), credentialsDirMode); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode credentials file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.credentialsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp credentials file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp credentials file: %w", err)
	}

	if err := tempFile.Chmod(credentialsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp credentials file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp credentials file: %w", err)
	}

	if err := os.Rename(tempName, r.credentialsPath); err != nil {
		return fmt.Errorf("replace credentials file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.credentialsPath, credentialsFileMode); err != nil {
		return fmt.Errorf("chmod credentials file: %w", err)
	}

	return nil
}

func fromSchema(entry credentialSchema) (domain.Credential, error) {
	spec, err := domain.Resolve(domain.GameID(entry.Game))
	if err != nil {
		return domain.Credential{}, err
	}

	return domain.Credential{
		Game:        spec.ID,
		LtUID:       entry.LtUID,
		LtToken:     entry.LtToken,
		AccountID:   entry.AccountID,
		CookieToken: entry.CookieToken,
		Language:    entry.Lang,
	}, nil
}

func normalizeCredentialsPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve credentials path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
