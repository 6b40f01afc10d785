package handlers

// somente os campos do contrato; id e timestamps são do servidor
type EmpresaCreateDTO struct {
	Numero    string `json:"numero"`
	Nome      string `json:"nome"`
	Documento string `json:"documento"`
}

// Update parcial; ponteiros distinguem "omitido" de "informado".
type EmpresaUpdateDTO struct {
	Numero    *string `json:"numero,omitempty"`
	Nome      *string `json:"nome,omitempty"`
	Documento *string `json:"documento,omitempty"`
}

type ObraCreateDTO struct {
	Numero   string `json:"numero"`
	Nome     string `json:"nome"`
	Bloco    string `json:"bloco"`
	Endereco string `json:"endereco"`
}

// empresa_id não muda depois de criada; não faz parte do update
type ObraUpdateDTO struct {
	Numero   *string `json:"numero,omitempty"`
	Nome     *string `json:"nome,omitempty"`
	Bloco    *string `json:"bloco,omitempty"`
	Endereco *string `json:"endereco,omitempty"`
}
