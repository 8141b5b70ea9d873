package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"svw.info/digitguess/internal/domain"
)

// FS stores match records as pretty-printed JSON under
// dir/{difficulty}/{id}.json.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

func diffDir(d domain.Difficulty) string {
	switch d {
	case domain.Easy:
		return "easy"
	case domain.Hard:
		return "hard"
	default:
		return "medium"
	}
}

func (s *FS) pathFor(id string, d domain.Difficulty) string {
	return filepath.Join(s.dir, diffDir(d), strings.TrimSpace(id)+".json")
}

func (s *FS) Save(ctx context.Context, m *domain.Match) error {
	if m == nil || m.ID == "" {
		return errors.New("invalid match: missing ID")
	}
	target := s.pathFor(m.ID, m.Rules.Difficulty)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func (s *FS) Load(ctx context.Context, id string) (*domain.Match, error) {
	for _, sub := range []string{"easy", "medium", "hard"} {
		path := filepath.Join(s.dir, sub, id+".json")
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var m domain.Match
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return &m, nil
	}
	return nil, os.ErrNotExist
}

func (s *FS) List(ctx context.Context) ([]domain.MatchMeta, error) {
	out := []domain.MatchMeta{}
	for _, sub := range []string{"easy", "medium", "hard"} {
		entries, err := os.ReadDir(filepath.Join(s.dir, sub))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(s.dir, sub, e.Name()))
			if err != nil {
				continue
			}
			var m domain.Match
			if err := json.Unmarshal(data, &m); err != nil {
				continue
			}
			out = append(out, domain.MatchMeta{
				ID:         m.ID,
				Difficulty: m.Rules.Difficulty,
				State:      m.State,
				Turns:      len(m.HumanTurns) + len(m.ComputerTurns),
				CreatedAt:  m.CreatedAt,
			})
		}
	}
	return out, nil
}
