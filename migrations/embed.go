// Package migrations embute os arquivos SQL de schema por driver e fornece o
// loader usado pelos stores para aplicá-los em ordem.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// PostgresFS contém as migrações para postgres.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// SQLiteFS contém as migrações para sqlite.
//
//go:embed sqlite/*.sql
var SQLiteFS embed.FS

const (
	// PostgresDir é o diretório dentro de PostgresFS.
	PostgresDir = "postgres"
	// SQLiteDir é o diretório dentro de SQLiteFS.
	SQLiteDir = "sqlite"
)

// Migration é um arquivo SQL embutido, identificado pelo nome.
type Migration struct {
	Name string
	SQL  string
}

// Load lê os arquivos .sql de um FS embutido, ordenados por nome. A ordenação
// lexicográfica dos prefixos numéricos (0001_, 0002_...) define a ordem de
// aplicação.
func Load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: lendo diretório %s: %w", dir, err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("migrations: lendo %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Name: e.Name(), SQL: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
