package rates

import "context"

// DefaultTable is used when no rate API key is configured.
var DefaultTable = Table{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
}

// StaticSource serves a fixed table quoted against Base.
type StaticSource struct {
	Base  string
	Rates Table
}

func NewStaticSource(base string, table Table) *StaticSource {
	return &StaticSource{Base: base, Rates: table}
}

func (s *StaticSource) GetRates(ctx context.Context, base string) (Table, error) {
	if base != s.Base {
		return s.Rates.Rebase(base)
	}
	out := make(Table, len(s.Rates))
	for code, r := range s.Rates {
		out[code] = r
	}
	return out, nil
}
