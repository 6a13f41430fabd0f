// Package web embute os assets estáticos servidos pelas rotas de navegação.
package web

import (
	"embed"
	"io/fs"
)

//go:embed public
var publicFS embed.FS

// Public devolve o FS dos assets com a raiz em public/.
func Public() fs.FS {
	sub, err := fs.Sub(publicFS, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
