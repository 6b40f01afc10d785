package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wiltonsf/cadastro-obras/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ObraRepository struct {
	coll *mongo.Collection
}

func NewObraRepository(db *mongo.Database) *ObraRepository {
	return &ObraRepository{coll: db.Collection("obras")}
}

// Unicidade do numero é por empresa, daí o índice composto.
func (r *ObraRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "empresa_id", Value: 1},
			{Key: "numero", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_empresa_numero"),
	}
	_, err := r.coll.Indexes().CreateOne(ctx, model)
	if err == nil {
		return nil
	}
	if ce, ok := err.(mongo.CommandError); ok && ce.Code == 85 { // IndexOptionsConflict
		if _, dropErr := r.coll.Indexes().DropOne(ctx, "uniq_empresa_numero"); dropErr != nil {
			return fmt.Errorf("drop index uniq_empresa_numero: %w", dropErr)
		}
		_, createErr := r.coll.Indexes().CreateOne(ctx, model)
		return createErr
	}
	return err
}

func (r *ObraRepository) Create(ctx context.Context, o *models.Obra) (string, error) {
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	res, err := r.coll.InsertOne(ctx, o)
	if err != nil {
		return "", translateObraWriteErr(err)
	}
	id, _ := res.InsertedID.(string)
	return id, nil
}

func (r *ObraRepository) GetByID(ctx context.Context, id string) (*models.Obra, error) {
	var o models.Obra
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByEmpresaAndNumero devolve (nil, nil) quando não existe.
func (r *ObraRepository) FindByEmpresaAndNumero(ctx context.Context, empresaID, numero string) (*models.Obra, error) {
	var o models.Obra
	err := r.coll.FindOne(ctx, bson.M{"empresa_id": empresaID, "numero": numero}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ObraRepository) GetByEmpresa(ctx context.Context, empresaID string) ([]models.Obra, error) {
	opts := options.Find().SetSort(bson.D{{Key: "numero", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"empresa_id": empresaID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Obra{}
	for cur.Next(ctx) {
		var o models.Obra
		if err := cur.Decode(&o); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, cur.Err()
}

// Update parcial; bloco vazio é válido, então usa ponteiro.
func (r *ObraRepository) Update(ctx context.Context, id string, o *models.Obra, bloco *string) error {
	set := bson.M{
		"updated_at": time.Now(),
	}
	if o.Numero != "" {
		set["numero"] = o.Numero
	}
	if o.Nome != "" {
		set["nome"] = o.Nome
	}
	if o.Endereco != "" {
		set["endereco"] = o.Endereco
	}
	if bloco != nil {
		set["bloco"] = *bloco
	}

	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return translateObraWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ObraRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func translateObraWriteErr(err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return ErrDuplicateNumero
			}
		}
	}
	return err
}
