package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-enrich/internal/model"
)

// Lead database property names.
const (
	PropCompany = "Company"
	PropStatus  = "Status"
	PropSIREN   = "SIREN"
)

// LeadFromPage maps a lead page to an enrichment input. The title property
// is the input, the "Company" rich text is the provided organization name.
func LeadFromPage(page notionapi.Page) model.CompanyInput {
	in := model.CompanyInput{NotionPageID: string(page.ID)}
	for _, prop := range page.Properties {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			in.Input = strings.TrimSpace(plainText(tp.Title))
			break
		}
	}
	if rtp, ok := page.Properties[PropCompany].(*notionapi.RichTextProperty); ok {
		in.CompanyName = strings.TrimSpace(plainText(rtp.RichText))
	}
	return in
}

// LeadsToInputs converts pages to inputs, dropping pages with an empty title.
func LeadsToInputs(pages []notionapi.Page) []model.CompanyInput {
	inputs := make([]model.CompanyInput, 0, len(pages))
	for _, p := range pages {
		in := LeadFromPage(p)
		if in.Input == "" {
			zap.L().Debug("notion: skipping lead without title", zap.String("page_id", in.NotionPageID))
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs
}

// LeadStatus maps an enrichment status to the lead queue status.
func LeadStatus(s model.Status) string {
	switch s {
	case model.StatusSuccess:
		return StatusEnriched
	case model.StatusNotFound:
		return StatusNotFound
	default:
		return StatusFailed
	}
}

// UpdateLeadResult writes the enrichment outcome back to the lead page.
func UpdateLeadResult(ctx context.Context, c Client, pageID string, res model.EnrichmentResult) error {
	props := notionapi.Properties{
		PropStatus: notionapi.StatusProperty{
			Status: notionapi.Status{Name: LeadStatus(res.Status)},
		},
	}
	if res.SIREN != "" {
		props[PropSIREN] = richText(res.SIREN)
	}
	_, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props})
	if err != nil {
		return eris.Wrap(err, fmt.Sprintf("notion: update lead %s", pageID))
	}
	return nil
}

// PushLeads creates one Queued page per unique input (case-insensitive) and
// returns the number of pages created.
func PushLeads(ctx context.Context, c Client, dbID string, inputs []model.CompanyInput) (int, error) {
	seen := make(map[string]bool, len(inputs))
	created := 0
	for _, in := range inputs {
		key := strings.ToLower(strings.TrimSpace(in.Input))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		props := notionapi.Properties{
			"Name": notionapi.TitleProperty{
				Type: notionapi.PropertyTypeTitle,
				Title: []notionapi.RichText{
					{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: strings.TrimSpace(in.Input)}},
				},
			},
			PropStatus: notionapi.StatusProperty{
				Status: notionapi.Status{Name: StatusQueued},
			},
		}
		if in.CompanyName != "" {
			props[PropCompany] = richText(in.CompanyName)
		}

		_, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(dbID),
			},
			Properties: props,
		})
		if err != nil {
			return created, eris.Wrap(err, fmt.Sprintf("notion: push lead %q", in.Input))
		}
		created++
	}
	return created, nil
}

func richText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		Type: notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
		},
	}
}

func plainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		if rt.PlainText != "" {
			b.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			b.WriteString(rt.Text.Content)
		}
	}
	return b.String()
}
