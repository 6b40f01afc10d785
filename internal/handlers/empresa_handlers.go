package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/google/uuid"
	"github.com/wiltonsf/cadastro-obras/internal/models"
	"github.com/wiltonsf/cadastro-obras/internal/repository"
	"github.com/wiltonsf/cadastro-obras/internal/utils"
)

// larguras fixas dos números cadastrais
const (
	empresaNumeroWidth = 5
	obraNumeroWidth    = 4
)

type EmpresaRepo interface {
	GetAll(ctx context.Context, limit, skip int64) ([]models.Empresa, error)
	Create(ctx context.Context, e *models.Empresa) (string, error)
	GetByID(ctx context.Context, id string) (*models.Empresa, error)
	FindByDocumento(ctx context.Context, documento string) (*models.Empresa, error)
	FindByNumero(ctx context.Context, numero string) (*models.Empresa, error)
	Update(ctx context.Context, id string, upd *models.Empresa) error
	Delete(ctx context.Context, id string) error
}

type Publisher interface {
	Publish(ctx context.Context, body []byte, headers amqp.Table) error
	Close() error
}

type EmpresaHandler struct {
	Repo EmpresaRepo
	Pub  Publisher
}

func NewEmpresaHandler(repo EmpresaRepo, pub Publisher) *EmpresaHandler {
	return &EmpresaHandler{Repo: repo, Pub: pub}
}

// garantir que a requisição venha no padrão /empresas/{id}
func parseEmpresaID(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 2 && parts[0] == "empresas" && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}

func (h *EmpresaHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *EmpresaHandler) Empresas(w http.ResponseWriter, r *http.Request) {

	switch r.Method {

	// lista ordenada por numero, com paginação opcional (limit, skip)
	case http.MethodGet:
		q := r.URL.Query()
		limit := int64(50)
		skip := int64(0)
		if l := q.Get("limit"); l != "" {
			if v, err := strconv.ParseInt(l, 10, 64); err == nil && v > 0 && v <= 200 {
				limit = v
			}
		}
		if s := q.Get("skip"); s != "" {
			if v, err := strconv.ParseInt(s, 10, 64); err == nil && v >= 0 {
				skip = v
			}
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		list, err := h.Repo.GetAll(ctx, limit, skip)
		if err != nil {
			utils.InternalError(w)
			return
		}
		utils.WriteJSON(w, http.StatusOK, list)

	// create
	case http.MethodPost:
		var dto EmpresaCreateDTO
		if err := utils.DecodeStrict(r.Body, &dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		if err := validateEmpresaCreate(dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}

		numero, err := utils.NormalizeNumero(dto.Numero, empresaNumeroWidth)
		if err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		documento := utils.StripNonDigits(dto.Documento)
		if !utils.ValidateCNPJ(documento) {
			utils.BadRequest(w, "invalid cnpj")
			return
		}

		e := models.Empresa{
			ID:        uuid.NewString(),
			Numero:    numero,
			Nome:      utils.NormalizeName(dto.Nome),
			Documento: documento,
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		// pre-check amigável; o índice único continua sendo a garantia final
		if found, err := h.Repo.FindByDocumento(ctx, documento); err != nil {
			utils.InternalError(w)
			return
		} else if found != nil {
			utils.BadRequest(w, repository.ErrDuplicateDocumento.Error())
			return
		}
		if found, err := h.Repo.FindByNumero(ctx, numero); err != nil {
			utils.InternalError(w)
			return
		} else if found != nil {
			utils.BadRequest(w, repository.ErrDuplicateNumero.Error())
			return
		}

		if _, err := h.Repo.Create(ctx, &e); err != nil {
			writeEmpresaRepoErr(w, err)
			return
		}

		h.publishEvent("cadastro", &e)
		utils.WriteJSON(w, http.StatusCreated, e)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *EmpresaHandler) EmpresaByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseEmpresaID(r.URL.Path)
	if !ok {
		utils.NotFound(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		e, err := h.Repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.NotFound(w)
				return
			}
			utils.InternalError(w)
			return
		}
		utils.WriteJSON(w, http.StatusOK, e)

	// update parcial: só os campos presentes mudam
	case http.MethodPut:
		var dto EmpresaUpdateDTO
		if err := utils.DecodeStrict(r.Body, &dto); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
		if err := validateEmpresaUpdate(dto); err != nil {
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

		upd := models.Empresa{}

		if dto.Numero != nil {
			numero, err := utils.NormalizeNumero(*dto.Numero, empresaNumeroWidth)
			if err != nil {
				utils.BadRequest(w, err.Error())
				return
			}
			if numero != existing.Numero {
				if found, err := h.Repo.FindByNumero(ctx, numero); err != nil {
					utils.InternalError(w)
					return
				} else if found != nil {
					utils.BadRequest(w, repository.ErrDuplicateNumero.Error())
					return
				}
				upd.Numero = numero
			}
		}
		if dto.Documento != nil {
			documento := utils.StripNonDigits(*dto.Documento)
			if !utils.ValidateCNPJ(documento) {
				utils.BadRequest(w, "invalid cnpj")
				return
			}
			if documento != existing.Documento {
				if found, err := h.Repo.FindByDocumento(ctx, documento); err != nil {
					utils.InternalError(w)
					return
				} else if found != nil {
					utils.BadRequest(w, repository.ErrDuplicateDocumento.Error())
					return
				}
				upd.Documento = documento
			}
		}
		if dto.Nome != nil {
			upd.Nome = utils.NormalizeName(*dto.Nome)
		}

		if err := h.Repo.Update(ctx, id, &upd); err != nil {
			writeEmpresaRepoErr(w, err)
			return
		}

		e2, err := h.Repo.GetByID(ctx, id)
		if err != nil {
			utils.InternalError(w)
			return
		}
		h.publishEvent("edicao", e2)
		utils.WriteJSON(w, http.StatusOK, e2)

	case http.MethodDelete:
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		// busca antes de deletar para publicar o nome no evento
		e, err := h.Repo.GetByID(ctx, id)
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

		h.publishEvent("exclusao", e)
		utils.WriteJSON(w, http.StatusOK, map[string]string{"mensagem": "empresa removida"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// duplicado barrado pelo índice vira o mesmo 400 do pre-check
func writeEmpresaRepoErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateDocumento),
		errors.Is(err, repository.ErrDuplicateNumero):
		utils.BadRequest(w, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFound(w)
	default:
		utils.InternalError(w)
	}
}

func (h *EmpresaHandler) publishEvent(acao string, e *models.Empresa) {
	if h.Pub == nil || e == nil {
		return
	}
	body, err := json.Marshal(map[string]string{
		"acao":      acao,
		"entidade":  "empresa",
		"id":        e.ID,
		"numero":    e.Numero,
		"nome":      e.Nome,
		"documento": e.Documento,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_ = h.Pub.Publish(ctx, body, amqp.Table{
		"acao":     acao,
		"entidade": "empresa",
	})
}
