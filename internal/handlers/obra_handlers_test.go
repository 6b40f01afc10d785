package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wiltonsf/cadastro-obras/internal/models"
	"github.com/wiltonsf/cadastro-obras/internal/repository"
)

const obraID = "0b9a8c7d-6e5f-4a3b-2c1d-0e9f8a7b6c5d"

func empresaExistsMock() *empresaRepoMock {
	return &empresaRepoMock{
		GetByIDFn: func(_ context.Context, id string) (*models.Empresa, error) {
			return &models.Empresa{ID: id, Numero: "00001", Nome: "ACME"}, nil
		},
	}
}

// 1) GET /empresas/{id}/obras

func TestEmpresaObras_List(t *testing.T) {
	om := &obraRepoMock{
		GetByEmpresaFn: func(_ context.Context, eid string) ([]models.Obra, error) {
			if eid != empresaID {
				t.Fatalf("empresa_id inesperado: %s", eid)
			}
			return []models.Obra{
				{ID: obraID, EmpresaID: eid, Numero: "0001", Nome: "Obra Centro"},
			}, nil
		},
	}
	h := &ObraHandler{Repo: om, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	req := httptest.NewRequest(http.MethodGet, "/empresas/"+empresaID+"/obras", nil)
	rr := httptest.NewRecorder()
	h.EmpresaObras(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var got []models.Obra
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("json inválido: %v", err)
	}
	if len(got) != 1 || got[0].Nome != "Obra Centro" {
		t.Fatalf("payload inesperado: %#v", got)
	}
}

func TestEmpresaObras_List_RepoError(t *testing.T) {
	om := &obraRepoMock{
		GetByEmpresaFn: func(_ context.Context, _ string) ([]models.Obra, error) {
			return nil, errors.New("boom")
		},
	}
	h := &ObraHandler{Repo: om, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	req := httptest.NewRequest(http.MethodGet, "/empresas/"+empresaID+"/obras", nil)
	rr := httptest.NewRecorder()
	h.EmpresaObras(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusInternalServerError, rr.Body.String())
	}
}

// 2) POST /empresas/{id}/obras

func TestEmpresaObras_Create_Valid(t *testing.T) {
	var created *models.Obra
	om := &obraRepoMock{
		CreateFn: func(_ context.Context, o *models.Obra) (string, error) {
			created = o
			return o.ID, nil
		},
	}
	h := &ObraHandler{Repo: om, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	body := bytes.NewBufferString(`{
		"numero": "42",
		"nome": "Obra Centro",
		"bloco": "a1",
		"endereco": "Rua X, 123"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/empresas/"+empresaID+"/obras", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.EmpresaObras(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if created == nil {
		t.Fatal("Create não foi chamado")
	}
	if created.Numero != "0042" {
		t.Fatalf("numero não normalizado: %q", created.Numero)
	}
	if created.Bloco != "A1" {
		t.Fatalf("bloco não normalizado: %q", created.Bloco)
	}
	// nome da obra fica como veio
	if created.Nome != "Obra Centro" {
		t.Fatalf("nome inesperado: %q", created.Nome)
	}
	if created.EmpresaID != empresaID {
		t.Fatalf("empresa_id inesperado: %q", created.EmpresaID)
	}
}

func TestEmpresaObras_Create_EmpresaNotFound(t *testing.T) {
	em := &empresaRepoMock{
		GetByIDFn: func(_ context.Context, _ string) (*models.Empresa, error) {
			return nil, repository.ErrNotFound
		},
	}
	h := &ObraHandler{Repo: &obraRepoMock{}, Empresas: em, Pub: &pubMock{}}

	body := bytes.NewBufferString(`{"numero":"1","nome":"Obra"}`)
	req := httptest.NewRequest(http.MethodPost, "/empresas/"+empresaID+"/obras", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.EmpresaObras(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusNotFound, rr.Body.String())
	}
}

// numero já usado dentro da mesma empresa → 400
func TestEmpresaObras_Create_DuplicateNumero(t *testing.T) {
	om := &obraRepoMock{
		FindByEmpresaAndNumeroFn: func(_ context.Context, eid, numero string) (*models.Obra, error) {
			if eid != empresaID || numero != "0001" {
				t.Fatalf("pre-check com escopo errado: eid=%s numero=%s", eid, numero)
			}
			return &models.Obra{ID: "other", EmpresaID: eid, Numero: numero}, nil
		},
	}
	h := &ObraHandler{Repo: om, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	body := bytes.NewBufferString(`{"numero":"1","nome":"Obra"}`)
	req := httptest.NewRequest(http.MethodPost, "/empresas/"+empresaID+"/obras", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.EmpresaObras(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

// mesmo numero sob OUTRA empresa não conflita (unicidade por empresa)
func TestEmpresaObras_Create_SameNumeroOtherEmpresa(t *testing.T) {
	otherEmpresa := "11111111-2222-3333-4444-555555555555"
	om := &obraRepoMock{
		FindByEmpresaAndNumeroFn: func(_ context.Context, eid, _ string) (*models.Obra, error) {
			if eid != otherEmpresa {
				t.Fatalf("pre-check fora do escopo da empresa dona: %s", eid)
			}
			return nil, nil // livre nessa empresa
		},
		CreateFn: func(_ context.Context, o *models.Obra) (string, error) {
			return o.ID, nil
		},
	}
	h := &ObraHandler{Repo: om, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	body := bytes.NewBufferString(`{"numero":"1","nome":"Obra"}`)
	req := httptest.NewRequest(http.MethodPost, "/empresas/"+otherEmpresa+"/obras", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.EmpresaObras(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusCreated, rr.Body.String())
	}
}

func TestEmpresaObras_Create_InvalidBloco(t *testing.T) {
	h := &ObraHandler{Repo: &obraRepoMock{}, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	body := bytes.NewBufferString(`{"numero":"1","nome":"Obra","bloco":"ABCD"}`)
	req := httptest.NewRequest(http.MethodPost, "/empresas/"+empresaID+"/obras", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.EmpresaObras(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestEmpresaObras_Create_NumeroTooLong(t *testing.T) {
	h := &ObraHandler{Repo: &obraRepoMock{}, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	body := bytes.NewBufferString(`{"numero":"12345","nome":"Obra"}`)
	req := httptest.NewRequest(http.MethodPost, "/empresas/"+empresaID+"/obras", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.EmpresaObras(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

// 3) PUT /obras/{id}

func TestObraByID_Put_OK(t *testing.T) {
	call := 0
	om := &obraRepoMock{
		GetByIDFn: func(_ context.Context, id string) (*models.Obra, error) {
			call++
			if call == 1 {
				return &models.Obra{ID: id, EmpresaID: empresaID, Numero: "0001", Nome: "OLD"}, nil
			}
			return &models.Obra{ID: id, EmpresaID: empresaID, Numero: "0001", Nome: "NEW"}, nil
		},
		UpdateFn: func(_ context.Context, id string, upd *models.Obra, bloco *string) error {
			if id != obraID {
				t.Fatalf("id inesperado: %s", id)
			}
			if upd.Nome != "NEW" {
				t.Fatalf("esperava Nome=NEW; got=%q", upd.Nome)
			}
			if bloco != nil {
				t.Fatalf("bloco não informado não devia mudar")
			}
			return nil
		},
	}
	h := &ObraHandler{Repo: om, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	body := bytes.NewBufferString(`{"nome":"NEW"}`)
	req := httptest.NewRequest(http.MethodPut, "/obras/"+obraID, body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ObraByID(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusOK, rr.Body.String())
	}
}

// troca de numero re-checa a unicidade no escopo da empresa dona
func TestObraByID_Put_NumeroDuplicate(t *testing.T) {
	om := &obraRepoMock{
		GetByIDFn: func(_ context.Context, id string) (*models.Obra, error) {
			return &models.Obra{ID: id, EmpresaID: empresaID, Numero: "0001"}, nil
		},
		FindByEmpresaAndNumeroFn: func(_ context.Context, eid, numero string) (*models.Obra, error) {
			if eid != empresaID {
				t.Fatalf("escopo errado no pre-check: %s", eid)
			}
			return &models.Obra{ID: "other", EmpresaID: eid, Numero: numero}, nil
		},
	}
	h := &ObraHandler{Repo: om, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	body := bytes.NewBufferString(`{"numero":"2"}`)
	req := httptest.NewRequest(http.MethodPut, "/obras/"+obraID, body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ObraByID(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestObraByID_Put_EmptyPayload(t *testing.T) {
	h := &ObraHandler{Repo: &obraRepoMock{}, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	req := httptest.NewRequest(http.MethodPut, "/obras/"+obraID, bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ObraByID(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestObraByID_Put_NotFound(t *testing.T) {
	om := &obraRepoMock{
		GetByIDFn: func(_ context.Context, _ string) (*models.Obra, error) {
			return nil, repository.ErrNotFound
		},
	}
	h := &ObraHandler{Repo: om, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	req := httptest.NewRequest(http.MethodPut, "/obras/"+obraID, bytes.NewBufferString(`{"nome":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ObraByID(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusNotFound, rr.Body.String())
	}
}

// 4) DELETE /obras/{id}

func TestObraByID_Delete_OK(t *testing.T) {
	deleted := false
	om := &obraRepoMock{
		GetByIDFn: func(_ context.Context, id string) (*models.Obra, error) {
			return &models.Obra{ID: id, EmpresaID: empresaID, Nome: "Obra"}, nil
		},
		DeleteFn: func(_ context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	h := &ObraHandler{Repo: om, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	req := httptest.NewRequest(http.MethodDelete, "/obras/"+obraID, nil)
	rr := httptest.NewRecorder()
	h.ObraByID(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if !deleted {
		t.Fatal("Delete não foi chamado")
	}
}

func TestObraByID_Delete_NotFound(t *testing.T) {
	om := &obraRepoMock{
		GetByIDFn: func(_ context.Context, _ string) (*models.Obra, error) {
			return nil, repository.ErrNotFound
		},
	}
	h := &ObraHandler{Repo: om, Empresas: empresaExistsMock(), Pub: &pubMock{}}

	req := httptest.NewRequest(http.MethodDelete, "/obras/"+obraID, nil)
	rr := httptest.NewRecorder()
	h.ObraByID(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, http.StatusNotFound, rr.Body.String())
	}
}
