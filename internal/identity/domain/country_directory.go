package domain

import (
	"sort"

	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
)

// UnknownCountry is returned for dialing codes missing from the directory.
const UnknownCountry = "País desconhecido"

// Country pairs an international dialing code with its country name.
type Country struct {
	AreaCode int    `json:"area_code"`
	Name     string `json:"name"`
}

var countriesByCode = map[int]string{
	1:   "Estados Unidos",
	7:   "Rússia",
	20:  "Egito",
	27:  "África do Sul",
	30:  "Grécia",
	31:  "Países Baixos",
	32:  "Bélgica",
	33:  "França",
	34:  "Espanha",
	36:  "Hungria",
	39:  "Itália",
	40:  "Romênia",
	41:  "Suíça",
	43:  "Áustria",
	44:  "Reino Unido",
	45:  "Dinamarca",
	46:  "Suécia",
	47:  "Noruega",
	48:  "Polônia",
	49:  "Alemanha",
	51:  "Peru",
	52:  "México",
	53:  "Cuba",
	54:  "Argentina",
	55:  "Brasil",
	56:  "Chile",
	57:  "Colômbia",
	58:  "Venezuela",
	60:  "Malásia",
	61:  "Austrália",
	62:  "Indonésia",
	63:  "Filipinas",
	64:  "Nova Zelândia",
	65:  "Singapura",
	66:  "Tailândia",
	81:  "Japão",
	82:  "Coreia do Sul",
	84:  "Vietnã",
	86:  "China",
	90:  "Turquia",
	91:  "Índia",
	92:  "Paquistão",
	93:  "Afeganistão",
	94:  "Sri Lanka",
	98:  "Irã",
	212: "Marrocos",
	234: "Nigéria",
	238: "Cabo Verde",
	239: "São Tomé e Príncipe",
	244: "Angola",
	245: "Guiné-Bissau",
	258: "Moçambique",
	351: "Portugal",
	353: "Irlanda",
	358: "Finlândia",
	591: "Bolívia",
	593: "Equador",
	595: "Paraguai",
	598: "Uruguai",
	670: "Timor-Leste",
	853: "Macau",
	972: "Israel",
}

var codesByCountry map[string]int

func init() {
	codesByCountry = make(map[string]int, len(countriesByCode))
	for code, name := range countriesByCode {
		codesByCountry[name] = code
	}
}

// CountryByAreaCode returns the country registered for a dialing code or
// UnknownCountry.
func CountryByAreaCode(code int) string {
	if name, ok := countriesByCode[code]; ok {
		return name
	}
	return UnknownCountry
}

// AreaCodeByCountryName returns the dialing code of a country. Names are
// matched exactly, including case and accents.
func AreaCodeByCountryName(name string) (int, error) {
	code, ok := codesByCountry[name]
	if !ok {
		return 0, &sharedDomain.NotFoundError{Kind: ErrCountryNotFound, Key: name}
	}
	return code, nil
}

// Countries returns every registered country ordered by dialing code.
func Countries() []Country {
	countries := make([]Country, 0, len(countriesByCode))
	for code, name := range countriesByCode {
		countries = append(countries, Country{AreaCode: code, Name: name})
	}
	sort.Slice(countries, func(i, j int) bool {
		return countries[i].AreaCode < countries[j].AreaCode
	})
	return countries
}
