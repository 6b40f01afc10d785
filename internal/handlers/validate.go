package handlers

import "errors"

func validateEmpresaCreate(d EmpresaCreateDTO) error {
	if d.Numero == "" {
		return errors.New("numero is required")
	}
	if d.Nome == "" {
		return errors.New("nome is required")
	}
	if d.Documento == "" {
		return errors.New("documento is required")
	}
	return nil
}

// update vazio não é no-op silencioso
func validateEmpresaUpdate(d EmpresaUpdateDTO) error {
	if d.Numero == nil && d.Nome == nil && d.Documento == nil {
		return errors.New("empty payload: at least one field is required")
	}
	return nil
}

func validateObraCreate(d ObraCreateDTO) error {
	if d.Numero == "" {
		return errors.New("numero is required")
	}
	if d.Nome == "" {
		return errors.New("nome is required")
	}
	return nil
}

func validateObraUpdate(d ObraUpdateDTO) error {
	if d.Numero == nil && d.Nome == nil && d.Bloco == nil && d.Endereco == nil {
		return errors.New("empty payload: at least one field is required")
	}
	return nil
}
