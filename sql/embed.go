// Package migrations embute as migrações goose da API.
package migrations

import "embed"

// Migrations contém os arquivos *.sql deste diretório.
//
//go:embed *.sql
var Migrations embed.FS
