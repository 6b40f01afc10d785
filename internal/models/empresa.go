package models

import "time"

type Empresa struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Numero    string    `bson:"numero" json:"numero"` // sempre 5 dígitos (zero à esquerda)
	Nome      string    `bson:"nome" json:"nome"`     // armazenado em maiúsculas
	Documento string    `bson:"documento" json:"documento"` // CNPJ normalizado (apenas dígitos)
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
