package model

// Repasse fee rates applied over the gross booking value.
const (
	CleaningFeeRate    = 0.15
	PlatformFeeRate    = 0.03
	HostCommissionRate = 0.10
)

type RepasseReserva struct {
	ID                string  `json:"id"`
	Hospede           string  `json:"hospede"`
	Checkin           string  `json:"checkin"`
	Checkout          string  `json:"checkout"`
	ValorBruto        float64 `json:"valor_bruto"`
	TaxaLimpeza       float64 `json:"taxa_limpeza"`
	TaxaAPI           float64 `json:"taxa_api"`
	ComissaoAnfitriao float64 `json:"comissao_anfitriao"`
	TaxasExtras       float64 `json:"taxas_extras"`
	RepasseLiquido    float64 `json:"repasse_liquido"`
}

type RepasseDetalhes struct {
	TotalVendas            float64          `json:"total_vendas"`
	TotalLimpeza           float64          `json:"total_limpeza"`
	TotalTaxaAPI           float64          `json:"total_taxa_api"`
	TotalComissaoAnfitriao float64          `json:"total_comissao_anfitriao"`
	TotalTaxasExtras       float64          `json:"total_taxas_extras"`
	IncluiuLimpeza         bool             `json:"incluiu_limpeza"`
	NumeroReservas         int              `json:"numero_reservas"`
	Reservas               []RepasseReserva `json:"reservas"`
}

// RepasseResponse mirrors the wire format of GET /repasse.
type RepasseResponse struct {
	Meta            float64         `json:"meta"`
	RepasseEstimado float64         `json:"repasse_estimado"`
	Status          string          `json:"status"`
	Detalhes        RepasseDetalhes `json:"detalhes"`
}
