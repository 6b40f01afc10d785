package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wiltonsf/cadastro-obras/internal/models"
	"github.com/wiltonsf/cadastro-obras/internal/repository"
	"github.com/wiltonsf/cadastro-obras/internal/utils"
)

//go:embed seeds/empresas.json
var empresasJSON []byte

type seedItem struct {
	Numero    string `json:"numero"`
	Nome      string `json:"nome"`
	Documento string `json:"documento"`
}

// Idempotente: cria se não existir; se já existir, ignora.
func SeedEmpresas(ctx context.Context, repo *repository.EmpresaRepository, log *slog.Logger) error {
	var items []seedItem
	if err := json.Unmarshal(empresasJSON, &items); err != nil {
		return err
	}

	for _, s := range items {
		numero, err := utils.NormalizeNumero(s.Numero, 5)
		if err != nil {
			log.Warn("seed_skip_invalid_numero", "raw", s.Numero)
			continue
		}
		documento := utils.StripNonDigits(s.Documento)
		if !utils.ValidateCNPJ(documento) {
			log.Warn("seed_skip_invalid_cnpj", "raw", s.Documento)
			continue
		}

		e := models.Empresa{
			ID:        uuid.NewString(),
			Numero:    numero,
			Nome:      utils.NormalizeName(s.Nome),
			Documento: documento,
		}

		// timeout curto por item pra não travar
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		_, err = repo.Create(ictx, &e)
		cancel()

		if err != nil {
			if errors.Is(err, repository.ErrDuplicateDocumento) || errors.Is(err, repository.ErrDuplicateNumero) {
				log.Info("seed_empresa_exists", "documento", documento)
				continue
			}
			return err
		}
		log.Info("seed_empresa_created", "documento", documento)
	}

	log.Info("seed_empresas_done", "count", len(items))
	return nil
}
