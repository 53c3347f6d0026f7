package chat

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pairup-dev/pairup-server/internal/models"
)

// newestFirst builds n messages with seqs n..1, newest first, the way
// store queries return them.
func newestFirst(n int, startSeq int64) []models.Message {
	msgs := make([]models.Message, n)
	for i := 0; i < n; i++ {
		seq := startSeq + int64(n-1-i)
		msgs[i] = models.Message{
			ID:        uuid.New(),
			Seq:       seq,
			Content:   "m",
			CreatedAt: time.Unix(seq, 0),
		}
	}
	return msgs
}

func seqsOf(msgs []models.Message) []int64 {
	out := make([]int64, len(msgs))
	for i, m := range msgs {
		out[i] = m.Seq
	}
	return out
}

func assertOldestFirst(t *testing.T, msgs []models.Message) {
	t.Helper()
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Seq <= msgs[i-1].Seq {
			t.Fatalf("items not oldest-first at %d: %v", i, seqsOf(msgs))
		}
	}
}

func TestBuildInitialPage_UnreadBranch(t *testing.T) {
	tests := []struct {
		name       string
		unreadLen  int
		older      bool
		wantNext   bool
		wantCursor bool
	}{
		{name: "exactly page size with older history", unreadLen: 20, older: true, wantNext: true, wantCursor: true},
		{name: "exactly page size, no older history", unreadLen: 20, older: false, wantNext: false, wantCursor: false},
		{name: "more than page size", unreadLen: 25, older: true, wantNext: true, wantCursor: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unread := newestFirst(tt.unreadLen, 100)
			oldestSeq := unread[len(unread)-1].Seq

			var probedSeq int64
			recentCalled := false
			page, err := BuildInitialPage(
				unread,
				func(limit int) ([]models.Message, error) {
					recentCalled = true
					return nil, nil
				},
				func(beforeSeq int64) (bool, error) {
					probedSeq = beforeSeq
					return tt.older, nil
				},
				DefaultPageSize,
			)
			if err != nil {
				t.Fatalf("BuildInitialPage: %v", err)
			}
			if recentCalled {
				t.Fatal("recency fetch must not run when the unread window fills a page")
			}
			if probedSeq != oldestSeq {
				t.Fatalf("probe keyed off seq %d, want oldest unread %d", probedSeq, oldestSeq)
			}
			if len(page.Items) != tt.unreadLen {
				t.Fatalf("got %d items, want the whole unread window of %d", len(page.Items), tt.unreadLen)
			}
			assertOldestFirst(t, page.Items)
			if page.HasNext != tt.wantNext {
				t.Fatalf("HasNext = %v, want %v", page.HasNext, tt.wantNext)
			}
			if tt.wantCursor {
				if page.NextCursor == nil || *page.NextCursor != oldestSeq {
					t.Fatalf("NextCursor = %v, want %d", page.NextCursor, oldestSeq)
				}
			} else if page.NextCursor != nil {
				t.Fatalf("NextCursor = %d, want nil", *page.NextCursor)
			}
		})
	}
}

func TestBuildInitialPage_RecencyBranch(t *testing.T) {
	tests := []struct {
		name      string
		unreadLen int
		totalLen  int
		wantItems int
		wantNext  bool
	}{
		{name: "few unread refills from read history", unreadLen: 5, totalLen: 30, wantItems: 20, wantNext: true},
		{name: "no unread, short history", unreadLen: 0, totalLen: 7, wantItems: 7, wantNext: false},
		{name: "no unread, exactly one page", unreadLen: 0, totalLen: 20, wantItems: 20, wantNext: false},
		{name: "empty room", unreadLen: 0, totalLen: 0, wantItems: 0, wantNext: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := newestFirst(tt.totalLen, 1)
			unread := newestFirst(tt.unreadLen, int64(1+tt.totalLen-tt.unreadLen))

			page, err := BuildInitialPage(
				unread,
				func(limit int) ([]models.Message, error) {
					if limit != DefaultPageSize+1 {
						t.Fatalf("recency fetch limit = %d, want %d", limit, DefaultPageSize+1)
					}
					if limit > len(all) {
						limit = len(all)
					}
					return all[:limit], nil
				},
				func(beforeSeq int64) (bool, error) {
					t.Fatal("existence probe must not run in the recency branch")
					return false, nil
				},
				DefaultPageSize,
			)
			if err != nil {
				t.Fatalf("BuildInitialPage: %v", err)
			}
			if len(page.Items) != tt.wantItems {
				t.Fatalf("got %d items, want %d", len(page.Items), tt.wantItems)
			}
			assertOldestFirst(t, page.Items)
			if page.HasNext != tt.wantNext {
				t.Fatalf("HasNext = %v, want %v", page.HasNext, tt.wantNext)
			}
			if tt.wantItems > 0 {
				// The page always ends at the newest message, read or not.
				if got := page.Items[len(page.Items)-1].Seq; got != int64(tt.totalLen) {
					t.Fatalf("newest item seq = %d, want %d", got, tt.totalLen)
				}
			}
			if page.HasNext {
				if page.NextCursor == nil || *page.NextCursor != page.Items[0].Seq {
					t.Fatalf("NextCursor = %v, want oldest item seq %d", page.NextCursor, page.Items[0].Seq)
				}
			} else if page.NextCursor != nil {
				t.Fatalf("NextCursor = %d, want nil", *page.NextCursor)
			}
		})
	}
}

func TestBuildInitialPage_FetchError(t *testing.T) {
	boom := errors.New("boom")
	_, err := BuildInitialPage(
		nil,
		func(int) ([]models.Message, error) { return nil, boom },
		func(int64) (bool, error) { return false, nil },
		DefaultPageSize,
	)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestBuildCursorPage(t *testing.T) {
	tests := []struct {
		name      string
		available int
		wantItems int
		wantNext  bool
	}{
		{name: "full page with more behind", available: 25, wantItems: 20, wantNext: true},
		{name: "last partial page", available: 12, wantItems: 12, wantNext: false},
		{name: "cursor past oldest message", available: 0, wantItems: 0, wantNext: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := newestFirst(tt.available, 1)
			page, err := BuildCursorPage(func(limit int) ([]models.Message, error) {
				if limit > len(all) {
					limit = len(all)
				}
				return all[:limit], nil
			}, DefaultPageSize)
			if err != nil {
				t.Fatalf("BuildCursorPage: %v", err)
			}
			if len(page.Items) != tt.wantItems {
				t.Fatalf("got %d items, want %d", len(page.Items), tt.wantItems)
			}
			assertOldestFirst(t, page.Items)
			if page.HasNext != tt.wantNext {
				t.Fatalf("HasNext = %v, want %v", page.HasNext, tt.wantNext)
			}
			if tt.wantNext {
				if page.NextCursor == nil || *page.NextCursor != page.Items[0].Seq {
					t.Fatalf("NextCursor = %v, want %d", page.NextCursor, page.Items[0].Seq)
				}
			} else if page.NextCursor != nil {
				t.Fatalf("NextCursor = %d, want nil", *page.NextCursor)
			}
		})
	}
}
