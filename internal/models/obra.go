package models

import "time"

type Obra struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	EmpresaID string    `bson:"empresa_id" json:"empresa_id"`
	Numero    string    `bson:"numero" json:"numero"` // sempre 4 dígitos, único dentro da empresa
	Nome      string    `bson:"nome" json:"nome"`
	Bloco     string    `bson:"bloco" json:"bloco"` // até 3 alfanuméricos, maiúsculas
	Endereco  string    `bson:"endereco" json:"endereco"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
