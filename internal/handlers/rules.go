package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RuleSection struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Icon  string   `json:"icon"`
	Rules []string `json:"rules"`
}

var ruleSections = []RuleSection{
	{
		ID:    "general",
		Title: "Regras Gerais",
		Icon:  "fas fa-book",
		Rules: []string{
			"A conta é pessoal e intransmissível.",
			"Os dados de registo devem ser verdadeiros e mantidos atualizados.",
			"A sessão termina automaticamente quando o token deixa de ser válido.",
		},
	},
	{
		ID:    "withdrawals",
		Title: "Levantamentos",
		Icon:  "fas fa-money-bill-wave",
		Rules: []string{
			"O valor mínimo para levantamento é €10.",
			"Não é possível levantar um valor superior ao saldo disponível.",
			"Os levantamentos são pagos por MBWAY ou transferência bancária para um IBAN português.",
			"Os pedidos ficam em processamento até serem concluídos pela equipa.",
		},
	},
	{
		ID:    "accounts",
		Title: "Contas de Casino",
		Icon:  "fas fa-dice",
		Rules: []string{
			"Cada conta de casino está associada a um titular, NIF e cartão de cidadão.",
			"Contas bloqueadas ou inativas não geram ganhos.",
		},
	},
	{
		ID:    "privacy",
		Title: "Privacidade",
		Icon:  "fas fa-user-shield",
		Rules: []string{
			"Os dados pessoais são usados apenas para a gestão da conta e dos pagamentos.",
			"A recuperação de palavra-passe é feita exclusivamente pelo e-mail registado.",
		},
	},
}

// Rules serves the static rule sections. ?section= narrows the result to one.
func Rules(c *gin.Context) {
	id := c.Query("section")
	if id == "" {
		respondData(c, http.StatusOK, ruleSections, "")
		return
	}

	for _, section := range ruleSections {
		if section.ID == id {
			respondData(c, http.StatusOK, section, "")
			return
		}
	}
	respondError(c, http.StatusNotFound, "Secção não encontrada")
}
