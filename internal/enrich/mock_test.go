package enrich

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/company-enrich/pkg/entreprises"
)

var anyCtx = mock.Anything

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, term string) (*entreprises.SearchResponse, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entreprises.SearchResponse), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetCachedSearch(ctx context.Context, term string, maxAge time.Duration) ([]byte, bool, error) {
	args := m.Called(ctx, term, maxAge)
	var payload []byte
	if v := args.Get(0); v != nil {
		payload = v.([]byte)
	}
	return payload, args.Bool(1), args.Error(2)
}

func (m *mockCache) SetCachedSearch(ctx context.Context, term string, payload []byte) error {
	args := m.Called(ctx, term, payload)
	return args.Error(0)
}

func found(c entreprises.Company) *entreprises.SearchResponse {
	return &entreprises.SearchResponse{Results: []entreprises.Company{c}, TotalResults: 1}
}

func empty() *entreprises.SearchResponse {
	return &entreprises.SearchResponse{Results: []entreprises.Company{}, TotalResults: 0}
}

func acme() entreprises.Company {
	return entreprises.Company{
		NomComplet:       "ACME CORP",
		NomRaisonSociale: "ACME CORP SAS",
		Siren:            "552100554",
		Siege: entreprises.Siege{
			Siret:                     "55210055400013",
			ActivitePrincipale:        "62.01Z",
			LibelleActivitePrincipale: "Programmation informatique",
			CodePostal:                "69003",
			Ville:                     "LYON",
			NumeroVoie:                "4",
			TypeVoie:                  "RUE",
			LibelleVoie:               "DE LA REPUBLIQUE",
		},
		TrancheEffectifSalarie: "21",
	}
}
