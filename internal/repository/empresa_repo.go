package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wiltonsf/cadastro-obras/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateDocumento = errors.New("documento already exists")
	ErrDuplicateNumero    = errors.New("numero already exists")
	ErrNotFound           = errors.New("not found")
)

type EmpresaRepository struct {
	coll *mongo.Collection
}

func NewEmpresaRepository(db *mongo.Database) *EmpresaRepository {
	return &EmpresaRepository{coll: db.Collection("empresas")}
}

// Índices únicos são a garantia autoritativa contra duplicidade;
// o pre-check dos handlers é só o caminho rápido de erro amigável.
func (r *EmpresaRepository) EnsureIndexes(ctx context.Context) error {
	modelsIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "documento", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_documento"),
		},
		{
			Keys:    bson.D{{Key: "numero", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_numero"),
		},
	}
	for _, m := range modelsIdx {
		if _, err := r.coll.Indexes().CreateOne(ctx, m); err != nil {
			// Se já existir com outra opção, tenta dropar e recriar
			if ce, ok := err.(mongo.CommandError); ok && ce.Code == 85 { // IndexOptionsConflict
				name := *m.Options.Name
				if _, dropErr := r.coll.Indexes().DropOne(ctx, name); dropErr != nil {
					return fmt.Errorf("drop index %s: %w", name, dropErr)
				}
				if _, createErr := r.coll.Indexes().CreateOne(ctx, m); createErr != nil {
					return createErr
				}
				continue
			}
			return err
		}
	}
	return nil
}

func (r *EmpresaRepository) Create(ctx context.Context, e *models.Empresa) (string, error) {
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	res, err := r.coll.InsertOne(ctx, e)
	if err != nil {
		return "", translateEmpresaWriteErr(err)
	}
	id, _ := res.InsertedID.(string)
	return id, nil
}

func (r *EmpresaRepository) GetByID(ctx context.Context, id string) (*models.Empresa, error) {
	var e models.Empresa
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindByDocumento devolve (nil, nil) quando não existe.
func (r *EmpresaRepository) FindByDocumento(ctx context.Context, documento string) (*models.Empresa, error) {
	var e models.Empresa
	err := r.coll.FindOne(ctx, bson.M{"documento": documento}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmpresaRepository) FindByNumero(ctx context.Context, numero string) (*models.Empresa, error) {
	var e models.Empresa
	err := r.coll.FindOne(ctx, bson.M{"numero": numero}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmpresaRepository) GetAll(ctx context.Context, limit, skip int64) ([]models.Empresa, error) {
	opts := options.Find().SetLimit(limit).SetSkip(skip).SetSort(bson.D{{Key: "numero", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Empresa{}
	for cur.Next(ctx) {
		var e models.Empresa
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, cur.Err()
}

// Update parcial: só campos não vazios entram no $set.
func (r *EmpresaRepository) Update(ctx context.Context, id string, e *models.Empresa) error {
	set := bson.M{
		"updated_at": time.Now(),
	}
	if e.Numero != "" {
		set["numero"] = e.Numero
	}
	if e.Nome != "" {
		set["nome"] = e.Nome
	}
	if e.Documento != "" {
		set["documento"] = e.Documento
	}

	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return translateEmpresaWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EmpresaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Traduz violação de índice único (11000) para o erro de domínio,
// distinguindo qual índice barrou pelo nome na mensagem.
func translateEmpresaWriteErr(err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				if strings.Contains(e.Message, "uniq_numero") {
					return ErrDuplicateNumero
				}
				return ErrDuplicateDocumento
			}
		}
	}
	return err
}
