package scholarone

// DefaultBaseURL is the production manuscript API host
const DefaultBaseURL = "https://mc-api.manuscriptcentral.com"

// DefaultSites are the journal site short names harvested by default
var DefaultSites = []string{
	"deca", "isr", "inte", "ijoc", "ijds", "ijoo", "ite", "ms", "msom",
	"msomconference", "mksc", "mathor", "opre", "serv", "stratsci", "ssy",
	"orgsci", "transci",
}

// KnownSite reports whether name is in the default site list
func KnownSite(name string) bool {
	for _, s := range DefaultSites {
		if s == name {
			return true
		}
	}
	return false
}
