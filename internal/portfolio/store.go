// Package portfolio persists the watchlist as a single JSON document.
package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dyike/FinSight/internal/apperr"
	"github.com/dyike/FinSight/internal/logger"
	"github.com/dyike/FinSight/internal/models"
)

// Store owns the watchlist file. Calls are not serialized: concurrent
// mutations race and the last write wins.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted watchlist, creating an empty one when the file is
// absent. Unreadable or corrupt content yields an empty watchlist.
func (s *Store) Load() *models.Watchlist {
	log := logger.L().WithField("path", s.path)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		doc := &models.Watchlist{Tickers: []string{}}
		if err := s.Save(doc); err != nil {
			log.WithError(err).Error("error creating portfolio file")
		}
		return doc
	}
	if err != nil {
		log.WithError(err).Error("error loading portfolio")
		return &models.Watchlist{Tickers: []string{}}
	}

	var doc models.Watchlist
	if err := json.Unmarshal(data, &doc); err != nil {
		log.WithError(err).Error("error decoding portfolio file")
		return &models.Watchlist{Tickers: []string{}}
	}
	if doc.Tickers == nil {
		doc.Tickers = []string{}
	}
	return &doc
}

// Add appends ticker (upper-cased) when it is not already tracked.
func (s *Store) Add(ticker string) (*models.Watchlist, error) {
	symbol, err := normalize("portfolio.add", ticker)
	if err != nil {
		return nil, err
	}

	doc := s.Load()
	for _, t := range doc.Tickers {
		if t == symbol {
			return doc, nil
		}
	}
	doc.Tickers = append(doc.Tickers, symbol)
	if err := s.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Remove drops ticker when present; removing an untracked ticker is a no-op.
func (s *Store) Remove(ticker string) (*models.Watchlist, error) {
	symbol, err := normalize("portfolio.remove", ticker)
	if err != nil {
		return nil, err
	}

	doc := s.Load()
	for i, t := range doc.Tickers {
		if t == symbol {
			doc.Tickers = append(doc.Tickers[:i], doc.Tickers[i+1:]...)
			if err := s.Save(doc); err != nil {
				return nil, err
			}
			return doc, nil
		}
	}
	return doc, nil
}

// Save atomically replaces the file: temp file in the same directory, fsync, rename.
func (s *Store) Save(doc *models.Watchlist) error {
	const op = "portfolio.save"
	if doc == nil || doc.Tickers == nil {
		return apperr.Persistence(op, errors.New("invalid portfolio data structure"))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.Persistence(op, fmt.Errorf("create portfolio dir: %w", err))
	}

	tmpFile, err := os.CreateTemp(dir, "portfolio-*.tmp")
	if err != nil {
		return apperr.Persistence(op, fmt.Errorf("create temp portfolio: %w", err))
	}
	encoder := json.NewEncoder(tmpFile)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(doc); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return apperr.Persistence(op, fmt.Errorf("encode portfolio: %w", err))
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return apperr.Persistence(op, fmt.Errorf("flush portfolio: %w", err))
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFile.Name())
		return apperr.Persistence(op, fmt.Errorf("close temp portfolio: %w", err))
	}
	if err := os.Rename(tmpFile.Name(), s.path); err != nil {
		_ = os.Remove(tmpFile.Name())
		return apperr.Persistence(op, fmt.Errorf("replace portfolio: %w", err))
	}
	logger.L().WithField("path", s.path).Debug("portfolio saved")
	return nil
}

func normalize(op, ticker string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return "", apperr.Input(op, "ticker must not be empty")
	}
	return symbol, nil
}
