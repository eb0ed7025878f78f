package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/company-enrich/internal/model"
	"github.com/sells-group/company-enrich/internal/naf"
	"github.com/sells-group/company-enrich/pkg/entreprises"
)

func TestEnrich_CompanyNameSuccess(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "Acme Corp").Return(found(acme()), nil).Once()

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "  Acme Corp "})

	assert.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, model.InputKindCompanyName, res.InputKind)
	assert.Equal(t, "Acme Corp", res.OriginalInput)
	assert.Empty(t, res.Domain)
	assert.Equal(t, "ACME CORP", res.CompanyName)
	assert.Equal(t, "552100554", res.SIREN)
	assert.Equal(t, "55210055400013", res.SIRET)
	assert.Equal(t, "62.01Z", res.ActivityCode)
	assert.Equal(t, "Programmation informatique", res.ActivityLabel)
	assert.Equal(t, string(naf.TechSoftware), res.Industry)
	assert.Equal(t, "4 RUE DE LA REPUBLIQUE, 69003 LYON", res.Address)
	assert.Equal(t, "69003", res.PostalCode)
	assert.Equal(t, "LYON", res.City)
	assert.Equal(t, "Auvergne-Rhône-Alpes", res.Region)
	assert.Equal(t, "50 à 99 salariés", res.Headcount)
	assert.Equal(t, "https://annuaire-entreprises.data.gouv.fr/entreprise/552100554", res.DirectoryURL)
	assert.Equal(t, "Acme Corp", res.SearchTerm)
	assert.Empty(t, res.ErrorMessage)
	s.AssertExpectations(t)
}

func TestEnrich_PersonalEmailWithoutNameSkipsSearch(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "Jean.Dupont@GMAIL.com"})

	assert.Equal(t, model.StatusNotFound, res.Status)
	assert.Equal(t, model.InputKindEmail, res.InputKind)
	assert.Equal(t, "gmail.com", res.Domain)
	assert.Equal(t, "personal email without company name", res.ErrorMessage)
	assert.Empty(t, res.Industry)
	assert.Empty(t, res.CompanyName)
	assert.Empty(t, res.SIREN)
	s.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestEnrich_PersonalEmailWithProvidedName(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "Acme Corp").Return(found(acme()), nil).Once()

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "jean@gmail.com", CompanyName: " Acme Corp "})

	assert.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, "gmail.com", res.Domain)
	assert.Equal(t, "Acme Corp", res.SearchTerm)
	s.AssertNumberOfCalls(t, "Search", 1)
}

func TestEnrich_ProvidedNameNoFallback(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "Unknown Co").Return(empty(), nil).Once()

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "a@acme-corp.fr", CompanyName: "Unknown Co"})

	assert.Equal(t, model.StatusNotFound, res.Status)
	assert.Equal(t, "acme-corp.fr", res.Domain)
	s.AssertNumberOfCalls(t, "Search", 1)
}

func TestEnrich_EmailFallbackByDomainName(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "acme-corp.fr").Return(empty(), nil).Once()
	s.On("Search", mock.Anything, "acme corp").Return(found(acme()), nil).Once()

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "contact@Acme-Corp.fr"})

	assert.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, "acme-corp.fr", res.Domain)
	assert.Equal(t, "acme corp", res.SearchTerm)
	assert.Equal(t, "552100554", res.SIREN)
	s.AssertNumberOfCalls(t, "Search", 2)
}

func TestEnrich_EmailFallbackAfterPrimaryError(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "acme.com").Return(nil, errors.New("timeout")).Once()
	s.On("Search", mock.Anything, "acme").Return(found(acme()), nil).Once()

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "x@acme.com"})

	assert.Equal(t, model.StatusSuccess, res.Status)
	s.AssertNumberOfCalls(t, "Search", 2)
}

func TestEnrich_EmailFallbackRetriesUnchangedTerm(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "acme.xyz").Return(nil, errors.New("timeout")).Once()
	s.On("Search", mock.Anything, "acme.xyz").Return(found(acme()), nil).Once()

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "x@acme.xyz"})

	assert.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, "acme.xyz", res.SearchTerm)
	assert.Equal(t, "552100554", res.SIREN)
	s.AssertNumberOfCalls(t, "Search", 2)
}

func TestEnrich_ActivityLabelFromClassifier(t *testing.T) {
	t.Parallel()

	co := acme()
	co.Siege.LibelleActivitePrincipale = ""
	s := new(mockSearcher)
	s.On("Search", mock.Anything, "Acme").Return(found(co), nil).Once()

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "Acme"})

	assert.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, "62.01Z", res.ActivityCode)
	assert.Equal(t, "Programmation, conseil et autres activités informatiques", res.ActivityLabel)
}

func TestEnrich_EmailFallbackAlsoEmpty(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "nowhere.io").Return(empty(), nil).Once()
	s.On("Search", mock.Anything, "nowhere").Return(empty(), nil).Once()

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "x@nowhere.io"})

	assert.Equal(t, model.StatusNotFound, res.Status)
	assert.Equal(t, "company not found", res.ErrorMessage)
	assert.Equal(t, string(naf.ToBeQualified), res.Industry)
	assert.Equal(t, "nowhere.io", res.Domain)
	assert.Equal(t, "nowhere.io", res.SearchTerm)
	s.AssertNumberOfCalls(t, "Search", 2)
}

func TestEnrich_TransportFailure(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "Acme").Return(nil, errors.New("connection refused")).Once()

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "Acme"})

	assert.Equal(t, model.StatusError, res.Status)
	assert.Equal(t, string(naf.ToBeQualified), res.Industry)
	assert.Contains(t, res.ErrorMessage, "connection refused")
	assert.Empty(t, res.SIREN)
	s.AssertNumberOfCalls(t, "Search", 1)
}

func TestEnrich_EmailBothSearchesFail(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("503")).Twice()

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "x@acme.fr"})

	assert.Equal(t, model.StatusError, res.Status)
	assert.Equal(t, "acme.fr", res.Domain)
	assert.Equal(t, string(naf.ToBeQualified), res.Industry)
}

func TestEnrich_ZeroTotalWithResultsIsNotFound(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "Acme").
		Return(&entreprises.SearchResponse{Results: []entreprises.Company{acme()}, TotalResults: 0}, nil)

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "Acme"})
	assert.Equal(t, model.StatusNotFound, res.Status)
}

func TestEnrich_SparseRecord(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "Ghost").
		Return(found(entreprises.Company{NomRaisonSociale: "GHOST SARL", Siren: "000000001"}), nil)

	res := New(s).Enrich(context.Background(), model.CompanyInput{Input: "Ghost"})

	assert.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, "GHOST SARL", res.CompanyName)
	assert.Equal(t, string(naf.ToBeQualified), res.Industry)
	assert.Empty(t, res.Address)
	assert.Empty(t, res.Region)
	assert.Equal(t, NotReported, res.Headcount)
}

func TestEnrich_Idempotent(t *testing.T) {
	t.Parallel()

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "Acme").Return(found(acme()), nil)

	e := New(s)
	in := model.CompanyInput{Input: "Acme"}
	assert.Equal(t, e.Enrich(context.Background(), in), e.Enrich(context.Background(), in))
}

func TestEnrich_CustomTablesAndDirectory(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	tables.PersonalDomains = []string{"corp-mail.example"}
	tables.Headcount = HeadcountTable{"21": "medium"}

	s := new(mockSearcher)
	s.On("Search", mock.Anything, "gmail.com").Return(found(acme()), nil).Once()

	e := New(s, WithTables(tables), WithDirectoryURL("https://dir.example/"))

	res := e.Enrich(context.Background(), model.CompanyInput{Input: "a@gmail.com"})
	assert.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, "medium", res.Headcount)
	assert.Equal(t, "https://dir.example/entreprise/552100554", res.DirectoryURL)

	res = e.Enrich(context.Background(), model.CompanyInput{Input: "a@corp-mail.example"})
	assert.Equal(t, model.StatusNotFound, res.Status)
	s.AssertNumberOfCalls(t, "Search", 1)
}

func TestEnrich_CarriesNotionPageID(t *testing.T) {
	t.Parallel()

	res := New(new(mockSearcher)).Enrich(context.Background(), model.CompanyInput{Input: "a@free.fr", NotionPageID: "page-1"})
	assert.Equal(t, "page-1", res.NotionPageID)
}
