// Package csvload reads the input tables of a pipeline run from a data
// directory and writes the normalized odds table.
//
// Layout, with <cat> the lower-case category (points, rebounds, assists):
//
//	odds_<cat>.csv         headerless label,description,price,point
//	form_<cat>.csv         Player,Opponent,L10,H2H
//	projections_<cat>.csv  optional precomputed Edge table
//	defense.csv            TEAM,DEF_RTG[,DEF_RTG_RANK]
//	esports.csv            optional Player,Average,Line
package csvload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/internal/domain/pipeline"
	"github.com/okian/propcast/pkg/logger"
)

// Fixed table names.
const (
	DefenseFile = "defense.csv"
	EsportsFile = "esports.csv"
)

// OddsFile is the quote table name for cat.
func OddsFile(cat model.Category) string { return "odds_" + cat.FileToken() + ".csv" }

// FormFile is the L10/H2H table name for cat.
func FormFile(cat model.Category) string { return "form_" + cat.FileToken() + ".csv" }

// ProjectionsFile is the precomputed Edge table name for cat.
func ProjectionsFile(cat model.Category) string {
	return "projections_" + cat.FileToken() + ".csv"
}

// Loader reads tables from one directory.
type Loader struct {
	dir        string
	categories []model.Category
	logger     logger.Logger
}

// New creates a loader for dir.
func New(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir:        dir,
		categories: append([]model.Category(nil), model.BasketballCategories...),
		logger:     logger.Named("csvload"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the data directory.
func (l *Loader) Dir() string { return l.dir }

// Files lists every table name the loader may read, in a stable order.
func (l *Loader) Files() []string {
	out := make([]string, 0, 3*len(l.categories)+2)
	for _, c := range l.categories {
		out = append(out, OddsFile(c), FormFile(c), ProjectionsFile(c))
	}
	return append(out, DefenseFile, EsportsFile)
}

// Load reads every table. For each category a precomputed projections
// table wins; otherwise odds and form must both be present. A category with
// neither is skipped. The defense table is required.
func (l *Loader) Load(ctx context.Context) (pipeline.Tables, error) {
	var t pipeline.Tables
	for _, cat := range l.categories {
		if err := ctx.Err(); err != nil {
			return pipeline.Tables{}, err
		}
		ct, ok, err := l.loadCategory(cat)
		if err != nil {
			return pipeline.Tables{}, err
		}
		if !ok {
			l.logger.Debug(ctx, "no tables for category", logger.String("category", string(cat)))
			continue
		}
		t.Categories = append(t.Categories, ct)
	}
	if len(t.Categories) == 0 {
		return pipeline.Tables{}, fmt.Errorf("%w in %s", ErrNoTables, l.dir)
	}

	found, err := l.read(DefenseFile, func(r io.Reader) (err error) {
		t.Defense, err = ReadDefense(r)
		return err
	})
	if err != nil {
		return pipeline.Tables{}, err
	}
	if !found {
		return pipeline.Tables{}, fmt.Errorf("%w: %s", ErrMissingFile, DefenseFile)
	}

	if _, err := l.read(EsportsFile, func(r io.Reader) (err error) {
		t.Esports, err = ReadEsports(r)
		return err
	}); err != nil {
		return pipeline.Tables{}, err
	}

	l.logger.Info(ctx, "tables loaded",
		logger.String("dir", l.dir),
		logger.Int("categories", len(t.Categories)),
		logger.Int("teams", len(t.Defense)),
		logger.Int("esports_lines", len(t.Esports)),
	)
	return t, nil
}

func (l *Loader) loadCategory(cat model.Category) (pipeline.CategoryTables, bool, error) {
	ct := pipeline.CategoryTables{Category: cat}

	found, err := l.read(ProjectionsFile(cat), func(r io.Reader) (err error) {
		ct.Projections, err = ReadProjections(r, cat)
		if err == nil && ct.Projections == nil {
			ct.Projections = []model.PlayerStatRecord{}
		}
		return err
	})
	if err != nil || found {
		return ct, found, err
	}

	hasOdds, err := l.read(OddsFile(cat), func(r io.Reader) (err error) {
		ct.Quotes, err = ReadQuotes(r)
		return err
	})
	if err != nil {
		return ct, false, err
	}
	hasForm, err := l.read(FormFile(cat), func(r io.Reader) (err error) {
		ct.Form, err = ReadForm(r)
		return err
	})
	if err != nil {
		return ct, false, err
	}

	switch {
	case hasOdds && hasForm:
		return ct, true, nil
	case hasOdds:
		return ct, false, fmt.Errorf("%w: %s", ErrMissingFile, FormFile(cat))
	case hasForm:
		return ct, false, fmt.Errorf("%w: %s", ErrMissingFile, OddsFile(cat))
	default:
		return ct, false, nil
	}
}

// read opens name and hands it to parse. A missing file is reported as
// found == false, not as an error.
func (l *Loader) read(name string, parse func(io.Reader) error) (bool, error) {
	f, err := os.Open(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	if err := parse(f); err != nil {
		return true, fmt.Errorf("%s: %w", name, err)
	}
	return true, nil
}

// Fingerprint hashes the names and contents of every table present. Equal
// fingerprints mean a reload would produce the same tables.
func (l *Loader) Fingerprint() (string, error) {
	h := sha256.New()
	for _, name := range l.Files() {
		f, err := os.Open(filepath.Join(l.dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("open %s: %w", name, err)
		}
		_, _ = io.WriteString(h, name)
		_, _ = h.Write([]byte{0})
		_, err = io.Copy(h, f)
		_ = f.Close()
		if err != nil {
			return "", fmt.Errorf("hash %s: %w", name, err)
		}
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}
