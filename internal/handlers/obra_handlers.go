package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/google/uuid"
	"github.com/wiltonsf/cadastro-obras/internal/models"
	"github.com/wiltonsf/cadastro-obras/internal/repository"
	"github.com/wiltonsf/cadastro-obras/internal/utils"
)

type ObraRepo interface {
	Create(ctx context.Context, o *models.Obra) (string, error)
	GetByID(ctx context.Context, id string) (*models.Obra, error)
	FindByEmpresaAndNumero(ctx context.Context, empresaID, numero string) (*models.Obra, error)
	GetByEmpresa(ctx context.Context, empresaID string) ([]models.Obra, error)
	Update(ctx context.Context, id string, upd *models.Obra, bloco *string) error
	Delete(ctx context.Context, id string) error
}

type ObraHandler struct {
	Repo     ObraRepo
	Empresas EmpresaRepo
	Pub      Publisher
}

func NewObraHandler(repo ObraRepo, empresas EmpresaRepo, pub Publisher) *ObraHandler {
	return &ObraHandler{Repo: repo, Empresas: empresas, Pub: pub}
}

// /empresas/{id}/obras
func parseEmpresaObrasPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 3 && parts[0] == "empresas" && parts[1] != "" && parts[2] == "obras" {
		return parts[1], true
	}
	return "", false
}

// /obras/{id}
func parseObraID(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 2 && parts[0] == "obras" && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}

// EmpresaObras atende GET/POST em /empresas/{id}/obras.
func (h *ObraHandler) EmpresaObras(w http.ResponseWriter, r *http.Request) {
	empresaID, ok := parseEmpresaObrasPath(r.URL.Path)
	if !ok {
		utils.NotFound(w)
		return
	}

	switch r.Method {

	// lista das obras da empresa, ordenada por numero
	case http.MethodGet:
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		list, err := h.Repo.GetByEmpresa(ctx, empresaID)
		if err != nil {
			utils.InternalError(w)
			return
		}
		utils.WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var dto ObraCreateDTO
		if err := utils.DecodeStrict(r.Body, &dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		if err := validateObraCreate(dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}

		numero, err := utils.NormalizeNumero(dto.Numero, obraNumeroWidth)
		if err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		bloco, err := utils.NormalizeBloco(dto.Bloco)
		if err != nil {
			utils.BadRequest(w, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		// a obra exige uma empresa dona
		if _, err := h.Empresas.GetByID(ctx, empresaID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.NotFound(w)
				return
			}
			utils.InternalError(w)
			return
		}

		// unicidade do numero é por empresa, não global
		if found, err := h.Repo.FindByEmpresaAndNumero(ctx, empresaID, numero); err != nil {
			utils.InternalError(w)
			return
		} else if found != nil {
			utils.BadRequest(w, repository.ErrDuplicateNumero.Error())
			return
		}

		o := models.Obra{
			ID:        uuid.NewString(),
			EmpresaID: empresaID,
			Numero:    numero,
			Nome:      dto.Nome,
			Bloco:     bloco,
			Endereco:  dto.Endereco,
		}

		if _, err := h.Repo.Create(ctx, &o); err != nil {
			writeObraRepoErr(w, err)
			return
		}

		h.publishEvent("cadastro", &o)
		utils.WriteJSON(w, http.StatusCreated, o)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ObraByID atende PUT/DELETE (e GET) em /obras/{id}.
func (h *ObraHandler) ObraByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseObraID(r.URL.Path)
	if !ok {
		utils.NotFound(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		o, err := h.Repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.NotFound(w)
				return
			}
			utils.InternalError(w)
			return
		}
		utils.WriteJSON(w, http.StatusOK, o)

	case http.MethodPut:
		var dto ObraUpdateDTO
		if err := utils.DecodeStrict(r.Body, &dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		if err := validateObraUpdate(dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		existing, err := h.Repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.NotFound(w)
				return
			}
			utils.InternalError(w)
			return
		}

		upd := models.Obra{}
		var bloco *string

		if dto.Numero != nil {
			numero, err := utils.NormalizeNumero(*dto.Numero, obraNumeroWidth)
			if err != nil {
				utils.BadRequest(w, err.Error())
				return
			}
			if numero != existing.Numero {
				if found, err := h.Repo.FindByEmpresaAndNumero(ctx, existing.EmpresaID, numero); err != nil {
					utils.InternalError(w)
					return
				} else if found != nil {
					utils.BadRequest(w, repository.ErrDuplicateNumero.Error())
					return
				}
				upd.Numero = numero
			}
		}
		if dto.Bloco != nil {
			b, err := utils.NormalizeBloco(*dto.Bloco)
			if err != nil {
				utils.BadRequest(w, err.Error())
				return
			}
			bloco = &b
		}
		if dto.Nome != nil {
			upd.Nome = *dto.Nome
		}
		if dto.Endereco != nil {
			upd.Endereco = *dto.Endereco
		}

		if err := h.Repo.Update(ctx, id, &upd, bloco); err != nil {
			writeObraRepoErr(w, err)
			return
		}

		o2, err := h.Repo.GetByID(ctx, id)
		if err != nil {
			utils.InternalError(w)
			return
		}
		h.publishEvent("edicao", o2)
		utils.WriteJSON(w, http.StatusOK, o2)

	case http.MethodDelete:
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		o, err := h.Repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.NotFound(w)
				return
			}
			utils.InternalError(w)
			return
		}

		if err := h.Repo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.NotFound(w)
				return
			}
			utils.InternalError(w)
			return
		}

		h.publishEvent("exclusao", o)
		utils.WriteJSON(w, http.StatusOK, map[string]string{"mensagem": "obra removida"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeObraRepoErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateNumero):
		utils.BadRequest(w, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFound(w)
	default:
		utils.InternalError(w)
	}
}

func (h *ObraHandler) publishEvent(acao string, o *models.Obra) {
	if h.Pub == nil || o == nil {
		return
	}
	body, err := json.Marshal(map[string]string{
		"acao":       acao,
		"entidade":   "obra",
		"id":         o.ID,
		"empresa_id": o.EmpresaID,
		"numero":     o.Numero,
		"nome":       o.Nome,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_ = h.Pub.Publish(ctx, body, amqp.Table{
		"acao":     acao,
		"entidade": "obra",
	})
}
