package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// Lead queue status values.
const (
	StatusQueued   = "Queued"
	StatusEnriched = "Enriched"
	StatusNotFound = "Not Found"
	StatusFailed   = "Failed"
)

// QueryAll fetches every page matching filter, following pagination cursors.
// The next page is requested while the current one is appended.
func QueryAll(ctx context.Context, c Client, dbID string, filter *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	newReq := func(cursor notionapi.Cursor) *notionapi.DatabaseQueryRequest {
		req := &notionapi.DatabaseQueryRequest{StartCursor: cursor}
		if filter != nil {
			req.Filter = filter.Filter
			req.Sorts = filter.Sorts
			req.PageSize = filter.PageSize
		}
		return req
	}

	type page struct {
		resp *notionapi.DatabaseQueryResponse
		err  error
	}
	fetch := func(cursor notionapi.Cursor) <-chan page {
		ch := make(chan page, 1)
		go func() {
			resp, err := c.QueryDatabase(ctx, dbID, newReq(cursor))
			ch <- page{resp: resp, err: err}
		}()
		return ch
	}

	var all []notionapi.Page
	next := fetch("")
	for {
		p := <-next
		if p.err != nil {
			return nil, eris.Wrap(p.err, "notion: query all")
		}
		if p.resp.HasMore {
			next = fetch(p.resp.NextCursor)
		}
		all = append(all, p.resp.Results...)
		if !p.resp.HasMore {
			return all, nil
		}
	}
}

// QueryQueuedLeads fetches all pages with Status = "Queued".
func QueryQueuedLeads(ctx context.Context, c Client, dbID string) ([]notionapi.Page, error) {
	filter := &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: "Status",
			Status: &notionapi.StatusFilterCondition{
				Equals: StatusQueued,
			},
		},
	}
	pages, err := QueryAll(ctx, c, dbID, filter)
	if err != nil {
		return nil, eris.Wrap(err, "notion: query queued leads")
	}
	return pages, nil
}
