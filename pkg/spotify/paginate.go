package spotify

import (
	"context"
	"iter"
	"net/url"

	"golang.org/x/oauth2"
)

// items follows a paginated listing from startURL and yields its items
// in page order. params apply to the first request only: each page's
// next URL already carries the full query.
//
// The sequence is consumed as it is ranged over and cannot be restarted;
// ranging a second time continues from the unread cursor. On a failed
// page it yields a single error and stops.
func items[T any](ctx context.Context, c *Client, endpoint, startURL string, params url.Values, tok *oauth2.Token) iter.Seq2[T, error] {
	next := startURL
	return func(yield func(T, error) bool) {
		for n := 1; next != ""; n++ {
			cur := next
			next = ""

			var p page[T]
			if err := c.getJSON(ctx, endpoint, cur, params, tok, &p); err != nil {
				var zero T
				yield(zero, err)
				return
			}
			params = nil

			if p.Next != nil {
				next = *p.Next
			}
			c.logDebugf("spotify: %s page %d: %d items, total %d, more=%t", endpoint, n, len(p.Items), p.Total, next != "")

			for _, item := range p.Items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}
