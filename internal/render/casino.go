package render

import (
	"strconv"
	"strings"

	"bcibizz-gateway/internal/models"
)

const (
	unknownCasino   = "Casino Desconhecido"
	notSpecified    = "Não especificado"
	logoBaseURL     = "https://bcibizz.pt/assets/images/"
	defaultLogoFile = "default-casino.png"
)

var casinoLogos = map[string]string{
	"Betano":     "betano.png",
	"Betclic":    "betclic.png",
	"Bwin":       "bwin.png",
	"Solverde":   "solverde.png",
	"ESC Online": "esc.png",
	"Placard":    "placard.png",
	"LeBull":     "lebull.png",
}

type StatusInfo struct {
	Class string `json:"class"`
	Text  string `json:"text"`
	Icon  string `json:"icon"`
}

var statusInfo = map[models.CasinoAccountStatus]StatusInfo{
	models.CasinoAccountActive:   {Class: "status-active", Text: "Ativa", Icon: "fas fa-check-circle"},
	models.CasinoAccountInactive: {Class: "status-inactive", Text: "Inativa", Icon: "fas fa-times-circle"},
	models.CasinoAccountPending:  {Class: "status-pending", Text: "Pendente", Icon: "fas fa-clock"},
	models.CasinoAccountBlocked:  {Class: "status-blocked", Text: "Bloqueada", Icon: "fas fa-ban"},
}

func CasinoStatus(status models.CasinoAccountStatus) StatusInfo {
	if info, ok := statusInfo[status]; ok {
		return info
	}
	return StatusInfo{Class: "status-inactive", Text: "Desconhecido", Icon: "fas fa-question-circle"}
}

func CasinoLogo(name string) string {
	if file, ok := casinoLogos[name]; ok {
		return logoBaseURL + file
	}
	return logoBaseURL + defaultLogoFile
}

type CasinoAccountView struct {
	ID          models.ID  `json:"account_id"`
	Title       string     `json:"title"`
	Casino      string     `json:"casino"`
	Owner       string     `json:"owner"`
	NIF         string     `json:"nif"`
	CitizenCard string     `json:"citizen_card"`
	IBAN        string     `json:"iban"`
	Status      StatusInfo `json:"status"`
}

type CasinoGroup struct {
	Name       string              `json:"name"`
	Logo       string              `json:"logo"`
	Count      int                 `json:"count"`
	CountLabel string              `json:"count_label"`
	Accounts   []CasinoAccountView `json:"accounts"`
}

type CasinoAccountsView struct {
	Query  string        `json:"query,omitempty"`
	Empty  bool          `json:"empty"`
	Total  int           `json:"total"`
	Groups []CasinoGroup `json:"groups"`
}

// CasinoAccounts filters by query and groups the accounts by casino in order
// of first appearance.
func CasinoAccounts(accounts []models.CasinoAccount, query string) CasinoAccountsView {
	matched := SearchCasinoAccounts(accounts, query)

	view := CasinoAccountsView{
		Query:  strings.TrimSpace(query),
		Empty:  len(matched) == 0,
		Total:  len(matched),
		Groups: []CasinoGroup{},
	}

	index := make(map[string]int)
	for _, account := range matched {
		name := account.CasinoName
		if name == "" {
			name = unknownCasino
		}

		i, ok := index[name]
		if !ok {
			i = len(view.Groups)
			index[name] = i
			view.Groups = append(view.Groups, CasinoGroup{Name: name, Logo: CasinoLogo(name)})
		}
		view.Groups[i].Accounts = append(view.Groups[i].Accounts, casinoAccountView(account, name))
	}

	for i := range view.Groups {
		view.Groups[i].Count = len(view.Groups[i].Accounts)
		view.Groups[i].CountLabel = countLabel(view.Groups[i].Count)
	}

	return view
}

// SearchCasinoAccounts matches a case-insensitive substring against casino,
// owner, NIF, citizen card and IBAN. An empty query matches everything.
func SearchCasinoAccounts(accounts []models.CasinoAccount, query string) []models.CasinoAccount {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return accounts
	}

	matched := make([]models.CasinoAccount, 0, len(accounts))
	for _, account := range accounts {
		haystack := strings.ToLower(strings.Join([]string{
			account.CasinoName,
			account.FullName,
			account.NIF.String(),
			account.CitizenCardNo.String(),
			account.IBAN.String(),
		}, "\n"))
		if strings.Contains(haystack, query) {
			matched = append(matched, account)
		}
	}
	return matched
}

func casinoAccountView(account models.CasinoAccount, casino string) CasinoAccountView {
	title := "Conta #" + string(account.AccountID)
	if account.FullName != "" {
		title = "Conta de " + account.FullName
	}

	return CasinoAccountView{
		ID:          account.AccountID,
		Title:       title,
		Casino:      casino,
		Owner:       orNotSpecified(account.FullName),
		NIF:         orNotSpecified(account.NIF.String()),
		CitizenCard: orNotSpecified(account.CitizenCardNo.String()),
		IBAN:        orNotSpecified(account.IBAN.String()),
		Status:      CasinoStatus(account.Status),
	}
}

func countLabel(n int) string {
	if n == 1 {
		return "1 conta"
	}
	return strconv.Itoa(n) + " contas"
}

func orNotSpecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}
