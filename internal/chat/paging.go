package chat

import "github.com/pairup-dev/pairup-server/internal/models"

// DefaultPageSize is the slice size used by the retrieval engine.
const DefaultPageSize = 20

// Page is one slice of a room's visible message stream, oldest-first.
// NextCursor is the Seq of the oldest item and is set only when an older
// page exists.
type Page struct {
	Items      []models.Message
	HasNext    bool
	NextCursor *int64
}

// BuildInitialPage computes the slice shown when a member enters a room.
//
// With pageSize or more unread messages the whole unread window is
// returned; otherwise the unread-only result is discarded and the page is
// refilled with the most recent messages regardless of read state, so a
// member with two unread messages still gets a full page of context.
//
// unread must be the complete unread window, newest-first. fetchRecent
// returns up to limit visible messages newest-first ignoring the view
// marker. hasOlder reports whether any visible message precedes the given
// seq.
func BuildInitialPage(
	unread []models.Message,
	fetchRecent func(limit int) ([]models.Message, error),
	hasOlder func(beforeSeq int64) (bool, error),
	pageSize int,
) (Page, error) {
	if len(unread) >= pageSize && len(unread) > 0 {
		oldest := unread[len(unread)-1]
		more, err := hasOlder(oldest.Seq)
		if err != nil {
			return Page{}, err
		}
		reverse(unread)
		p := Page{Items: unread, HasNext: more}
		if more {
			cursor := unread[0].Seq
			p.NextCursor = &cursor
		}
		return p, nil
	}

	rows, err := fetchRecent(pageSize + 1)
	if err != nil {
		return Page{}, err
	}
	return trimToPage(rows, pageSize), nil
}

// BuildCursorPage computes one load-older page. fetch returns up to limit
// visible messages newest-first, already bounded by the caller's cursor.
func BuildCursorPage(fetch func(limit int) ([]models.Message, error), pageSize int) (Page, error) {
	rows, err := fetch(pageSize + 1)
	if err != nil {
		return Page{}, err
	}
	return trimToPage(rows, pageSize), nil
}

// trimToPage turns a newest-first over-fetch of pageSize+1 rows into an
// oldest-first page: the sentinel row is dropped and its presence becomes
// HasNext.
func trimToPage(newestFirst []models.Message, pageSize int) Page {
	hasNext := false
	if len(newestFirst) > pageSize {
		newestFirst = newestFirst[:pageSize]
		hasNext = true
	}
	reverse(newestFirst)
	p := Page{Items: newestFirst, HasNext: hasNext}
	if hasNext && len(newestFirst) > 0 {
		cursor := newestFirst[0].Seq
		p.NextCursor = &cursor
	}
	return p
}

func reverse(msgs []models.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
