package handlers

import (
	"context"
	"errors"

	"github.com/wiltonsf/cadastro-obras/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

type empresaRepoMock struct {
	GetAllFn          func(ctx context.Context, limit, skip int64) ([]models.Empresa, error)
	CreateFn          func(ctx context.Context, e *models.Empresa) (string, error)
	GetByIDFn         func(ctx context.Context, id string) (*models.Empresa, error)
	FindByDocumentoFn func(ctx context.Context, documento string) (*models.Empresa, error)
	FindByNumeroFn    func(ctx context.Context, numero string) (*models.Empresa, error)
	UpdateFn          func(ctx context.Context, id string, upd *models.Empresa) error
	DeleteFn          func(ctx context.Context, id string) error
}

func (m *empresaRepoMock) GetAll(ctx context.Context, limit, skip int64) ([]models.Empresa, error) {
	if m.GetAllFn == nil {
		return nil, errors.New("GetAllFn not set")
	}
	return m.GetAllFn(ctx, limit, skip)
}
func (m *empresaRepoMock) Create(ctx context.Context, e *models.Empresa) (string, error) {
	if m.CreateFn == nil {
		return "", errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, e)
}
func (m *empresaRepoMock) GetByID(ctx context.Context, id string) (*models.Empresa, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, id)
}
func (m *empresaRepoMock) FindByDocumento(ctx context.Context, documento string) (*models.Empresa, error) {
	if m.FindByDocumentoFn == nil {
		return nil, nil // padrão: não existe
	}
	return m.FindByDocumentoFn(ctx, documento)
}
func (m *empresaRepoMock) FindByNumero(ctx context.Context, numero string) (*models.Empresa, error) {
	if m.FindByNumeroFn == nil {
		return nil, nil
	}
	return m.FindByNumeroFn(ctx, numero)
}
func (m *empresaRepoMock) Update(ctx context.Context, id string, upd *models.Empresa) error {
	if m.UpdateFn == nil {
		return errors.New("UpdateFn not set")
	}
	return m.UpdateFn(ctx, id, upd)
}
func (m *empresaRepoMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFn == nil {
		return errors.New("DeleteFn not set")
	}
	return m.DeleteFn(ctx, id)
}

type obraRepoMock struct {
	CreateFn                 func(ctx context.Context, o *models.Obra) (string, error)
	GetByIDFn                func(ctx context.Context, id string) (*models.Obra, error)
	FindByEmpresaAndNumeroFn func(ctx context.Context, empresaID, numero string) (*models.Obra, error)
	GetByEmpresaFn           func(ctx context.Context, empresaID string) ([]models.Obra, error)
	UpdateFn                 func(ctx context.Context, id string, upd *models.Obra, bloco *string) error
	DeleteFn                 func(ctx context.Context, id string) error
}

func (m *obraRepoMock) Create(ctx context.Context, o *models.Obra) (string, error) {
	if m.CreateFn == nil {
		return "", errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, o)
}
func (m *obraRepoMock) GetByID(ctx context.Context, id string) (*models.Obra, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, id)
}
func (m *obraRepoMock) FindByEmpresaAndNumero(ctx context.Context, empresaID, numero string) (*models.Obra, error) {
	if m.FindByEmpresaAndNumeroFn == nil {
		return nil, nil
	}
	return m.FindByEmpresaAndNumeroFn(ctx, empresaID, numero)
}
func (m *obraRepoMock) GetByEmpresa(ctx context.Context, empresaID string) ([]models.Obra, error) {
	if m.GetByEmpresaFn == nil {
		return nil, errors.New("GetByEmpresaFn not set")
	}
	return m.GetByEmpresaFn(ctx, empresaID)
}
func (m *obraRepoMock) Update(ctx context.Context, id string, upd *models.Obra, bloco *string) error {
	if m.UpdateFn == nil {
		return errors.New("UpdateFn not set")
	}
	return m.UpdateFn(ctx, id, upd, bloco)
}
func (m *obraRepoMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFn == nil {
		return errors.New("DeleteFn not set")
	}
	return m.DeleteFn(ctx, id)
}

type pubMock struct {
	PublishFn func(ctx context.Context, body []byte, headers amqp091.Table) error
	CloseFn   func() error
}

func (p *pubMock) Publish(ctx context.Context, body []byte, headers amqp091.Table) error {
	if p.PublishFn == nil {
		return nil
	}
	return p.PublishFn(ctx, body, headers)
}
func (p *pubMock) Close() error {
	if p.CloseFn == nil {
		return nil
	}
	return p.CloseFn()
}
