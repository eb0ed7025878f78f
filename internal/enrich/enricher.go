// Package enrich turns raw emails and company names into normalized company
// profiles using the registry search API.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/company-enrich/internal/input"
	"github.com/sells-group/company-enrich/internal/model"
	"github.com/sells-group/company-enrich/internal/naf"
	"github.com/sells-group/company-enrich/internal/region"
	"github.com/sells-group/company-enrich/pkg/entreprises"
)

// DefaultDirectoryURL is the public company directory.
const DefaultDirectoryURL = "https://annuaire-entreprises.data.gouv.fr"

const (
	msgPersonalEmail = "personal email without company name"
	msgNotFound      = "company not found"
)

// Searcher looks up companies by free-text term. entreprises.Client
// satisfies it.
type Searcher interface {
	Search(ctx context.Context, term string) (*entreprises.SearchResponse, error)
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithTables replaces every lookup table.
func WithTables(t Tables) Option {
	return func(e *Enricher) {
		e.personal = input.NewPersonalFilter(t.PersonalDomains)
		e.namer = input.NewDomainNamer(t.DomainSuffixes)
		e.industries = naf.NewClassifier(t.Industries)
		e.regions = region.NewResolver(t.Regions)
		if t.Headcount != nil {
			e.headcount = t.Headcount
		}
	}
}

// WithDirectoryURL sets the base of the per-company directory link.
func WithDirectoryURL(u string) Option {
	return func(e *Enricher) {
		if u != "" {
			e.directoryURL = strings.TrimRight(u, "/")
		}
	}
}

// Enricher resolves one input to one EnrichmentResult.
type Enricher struct {
	searcher     Searcher
	personal     *input.PersonalFilter
	namer        *input.DomainNamer
	industries   *naf.Classifier
	regions      *region.Resolver
	headcount    HeadcountTable
	directoryURL string
}

// New creates an Enricher backed by searcher with the default tables.
func New(searcher Searcher, opts ...Option) *Enricher {
	e := &Enricher{
		searcher:     searcher,
		directoryURL: DefaultDirectoryURL,
	}
	WithTables(DefaultTables())(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich never fails: search errors and empty results are reported through
// the Status of the returned result.
func (e *Enricher) Enrich(ctx context.Context, in model.CompanyInput) model.EnrichmentResult {
	c := input.Classify(in.Input)
	providedName := strings.TrimSpace(in.CompanyName)

	res := model.EnrichmentResult{
		OriginalInput: c.OriginalInput,
		InputKind:     c.Kind,
		NotionPageID:  in.NotionPageID,
	}
	if c.Kind == model.InputKindEmail {
		res.Domain = c.SearchTerm
	}

	log := zap.L().With(zap.String("input", c.OriginalInput), zap.String("kind", string(c.Kind)))

	if c.Kind == model.InputKindEmail && providedName == "" && e.personal.IsPersonal(c.SearchTerm) {
		log.Info("enrich: personal email without company name")
		res.Status = model.StatusNotFound
		res.ErrorMessage = msgPersonalEmail
		return res
	}

	term := c.SearchTerm
	if c.Kind == model.InputKindEmail && providedName != "" {
		term = providedName
	}
	resp, err := e.searcher.Search(ctx, term)

	if c.Kind == model.InputKindEmail && providedName == "" && (err != nil || resp.First() == nil) {
		if name := e.namer.NameFromDomain(c.SearchTerm); name != "" {
			log.Debug("enrich: fallback search", zap.String("term", name))
			fb, fbErr := e.searcher.Search(ctx, name)
			if fbErr == nil && fb.First() != nil {
				resp, err, term = fb, nil, name
			}
		}
	}
	res.SearchTerm = term

	switch {
	case err != nil:
		log.Warn("enrich: search failed", zap.String("term", term), zap.Error(err))
		res.Status = model.StatusError
		res.Industry = string(naf.ToBeQualified)
		res.ErrorMessage = fmt.Sprintf("registry search failed: %v", err)
		return res
	case resp.First() == nil:
		log.Info("enrich: no match", zap.String("term", term))
		res.Status = model.StatusNotFound
		res.Industry = string(naf.ToBeQualified)
		res.ErrorMessage = msgNotFound
		return res
	}

	e.fill(&res, resp.First())
	log.Info("enrich: matched", zap.String("siren", res.SIREN), zap.String("name", res.CompanyName))
	return res
}

func (e *Enricher) fill(res *model.EnrichmentResult, co *entreprises.Company) {
	s := co.Siege
	res.CompanyName = co.Name()
	res.SIREN = co.Siren
	res.SIRET = s.Siret
	res.ActivityCode = s.ActivitePrincipale
	res.ActivityLabel = s.LibelleActivitePrincipale
	if res.ActivityLabel == "" {
		res.ActivityLabel = e.industries.Description(s.ActivitePrincipale)
	}
	res.Industry = string(e.industries.MapActivityCode(s.ActivitePrincipale))
	res.Address = formatAddress(s)
	res.PostalCode = s.CodePostal
	res.City = s.City()
	res.Region = e.regions.Region(s.CodePostal)
	res.Headcount = e.headcount.Format(co.TrancheEffectifSalarie)
	if co.Siren != "" {
		res.DirectoryURL = e.directoryURL + "/entreprise/" + co.Siren
	}
	res.Status = model.StatusSuccess
}
