// internal/workers/scholarship/normalize-profile/config.go
package normalizeprofile

import "time"

type Config struct {
	Timeout time.Duration
	// IntakeTimeout bounds the intake lookup; zero leaves it to ctx.
	IntakeTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		IntakeTimeout: 2 * time.Second,
	}
}

// Canonical degree levels, as stored on scholarships.
const (
	DegreeBachelor = "Bachelor"
	DegreeMaster   = "Master"
	DegreePhD      = "PhD"
)

// knownCountries maps lowercase names and aliases to the canonical name.
var knownCountries = map[string]string{
	"algeria":         "Algeria",
	"america":         "United States",
	"australia":       "Australia",
	"bangladesh":      "Bangladesh",
	"benin":           "Benin",
	"botswana":        "Botswana",
	"brazil":          "Brazil",
	"burkina faso":    "Burkina Faso",
	"cameroon":        "Cameroon",
	"canada":          "Canada",
	"china":           "China",
	"congo":           "Congo",
	"cote d'ivoire":   "Cote d'Ivoire",
	"egypt":           "Egypt",
	"ethiopia":        "Ethiopia",
	"france":          "France",
	"gambia":          "Gambia",
	"germany":         "Germany",
	"ghana":           "Ghana",
	"india":           "India",
	"indonesia":       "Indonesia",
	"ireland":         "Ireland",
	"italy":           "Italy",
	"ivory coast":     "Cote d'Ivoire",
	"japan":           "Japan",
	"kenya":           "Kenya",
	"liberia":         "Liberia",
	"malawi":          "Malawi",
	"malaysia":        "Malaysia",
	"mexico":          "Mexico",
	"morocco":         "Morocco",
	"mozambique":      "Mozambique",
	"namibia":         "Namibia",
	"nepal":           "Nepal",
	"netherlands":     "Netherlands",
	"new zealand":     "New Zealand",
	"niger":           "Niger",
	"nigeria":         "Nigeria",
	"pakistan":        "Pakistan",
	"philippines":     "Philippines",
	"rwanda":          "Rwanda",
	"senegal":         "Senegal",
	"sierra leone":    "Sierra Leone",
	"somalia":         "Somalia",
	"south africa":    "South Africa",
	"south korea":     "South Korea",
	"south sudan":     "South Sudan",
	"spain":           "Spain",
	"sri lanka":       "Sri Lanka",
	"sudan":           "Sudan",
	"sweden":          "Sweden",
	"switzerland":     "Switzerland",
	"tanzania":        "Tanzania",
	"the netherlands": "Netherlands",
	"the uk":          "United Kingdom",
	"the us":          "United States",
	"the usa":         "United States",
	"tunisia":         "Tunisia",
	"turkey":          "Turkey",
	"uganda":          "Uganda",
	"uk":              "United Kingdom",
	"united kingdom":  "United Kingdom",
	"united states":   "United States",
	"usa":             "United States",
	"vietnam":         "Vietnam",
	"zambia":          "Zambia",
	"zimbabwe":        "Zimbabwe",
	"great britain":   "United Kingdom",
	"england":         "United Kingdom",
	"scotland":        "United Kingdom",
	"wales":           "United Kingdom",
	"kenyan":          "Kenya",
	"nigerian":        "Nigeria",
	"ghanaian":        "Ghana",
	"ugandan":         "Uganda",
	"ethiopian":       "Ethiopia",
	"tanzanian":       "Tanzania",
	"rwandan":         "Rwanda",
	"cameroonian":     "Cameroon",
	"indian":          "India",
	"pakistani":       "Pakistan",
	"egyptian":        "Egypt",
	"zimbabwean":      "Zimbabwe",
	"zambian":         "Zambia",
	"malawian":        "Malawi",
	"senegalese":      "Senegal",
	"sudanese":        "Sudan",
	"somali":          "Somalia",
	"bangladeshi":     "Bangladesh",
	"filipino":        "Philippines",
	"nepali":          "Nepal",
	"nepalese":        "Nepal",
	"vietnamese":      "Vietnam",
	"sri lankan":      "Sri Lanka",
	"moroccan":        "Morocco",
	"sierra leonean":  "Sierra Leone",
	"liberian":        "Liberia",
	"mozambican":      "Mozambique",
	"botswanan":       "Botswana",
	"namibian":        "Namibia",
	"gambian":         "Gambia",
	"beninese":        "Benin",
	"burkinabe":       "Burkina Faso",
	"congolese":       "Congo",
	"ivorian":         "Cote d'Ivoire",
	"tunisian":        "Tunisia",
	"algerian":        "Algeria",
	"indonesian":      "Indonesia",
	"malaysian":       "Malaysia",
	"south sudanese":  "South Sudan",
}

// knownFields maps lowercase names and aliases to the canonical field of study.
var knownFields = map[string]string{
	"accounting":              "Accounting",
	"agriculture":             "Agriculture",
	"architecture":            "Architecture",
	"biology":                 "Biology",
	"business":                "Business",
	"business administration": "Business",
	"chemistry":               "Chemistry",
	"computer science":        "Computer Science",
	"computing":               "Computer Science",
	"cs":                      "Computer Science",
	"data science":            "Data Science",
	"economics":               "Economics",
	"education":               "Education",
	"engineering":             "Engineering",
	"environmental science":   "Environmental Science",
	"finance":                 "Finance",
	"journalism":              "Journalism",
	"law":                     "Law",
	"mathematics":             "Mathematics",
	"maths":                   "Mathematics",
	"math":                    "Mathematics",
	"medicine":                "Medicine",
	"mba":                     "Business",
	"nursing":                 "Nursing",
	"pharmacy":                "Pharmacy",
	"physics":                 "Physics",
	"political science":       "Political Science",
	"psychology":              "Psychology",
	"public health":           "Public Health",
	"public policy":           "Public Policy",
	"software engineering":    "Computer Science",
	"statistics":              "Statistics",
}
