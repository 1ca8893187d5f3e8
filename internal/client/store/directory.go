package store

import (
	"slices"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
)

// DisplayMode selects how the collection is rendered.
type DisplayMode int

const (
	Tabular DisplayMode = iota
	Card
)

func (m DisplayMode) String() string {
	if m == Card {
		return "card"
	}
	return "table"
}

// ParseDisplayMode accepts "table"/"list"/"tabular" and "card"/"cards".
func ParseDisplayMode(s string) (DisplayMode, bool) {
	switch s {
	case "table", "list", "tabular":
		return Tabular, true
	case "card", "cards":
		return Card, true
	}
	return Tabular, false
}

// Op is an async operation kind of the directory.
type Op int

const (
	OpFetch Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpFetch:
		return "fetch"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// DirectoryState is the directory collection snapshot.
//
// Entries keeps server order followed by locally created entries and never
// holds two entries with the same ID. FetchSeq is the sequence number of
// the latest fetch issued; fetch outcomes carrying a lower number are
// stale and ignored.
//
// CurrentPage and TotalPages are the server cursor of the last successful
// fetch. ViewPage is the client-side table page over the filtered entries;
// a fetch resets it to 1.
type DirectoryState struct {
	Entries       []models.Entry
	RequestStatus RequestStatus
	ErrorMessage  string
	CurrentPage   int
	TotalPages    int
	ViewPage      int
	SearchText    string
	DisplayMode   DisplayMode
	FetchSeq      uint64
}

// InitialDirectory is the state before the first fetch.
func InitialDirectory() DirectoryState {
	return DirectoryState{
		Entries:     []models.Entry{},
		CurrentPage: 1,
		TotalPages:  1,
		ViewPage:    1,
		DisplayMode: Tabular,
	}
}

// DirectoryEvent is implemented by the directory events below.
type DirectoryEvent interface {
	directoryEvent()
}

type (
	// OpStarted is dispatched before a call of kind Op is issued. Seq is
	// only meaningful for OpFetch.
	OpStarted struct {
		Op  Op
		Seq uint64
	}
	// OpFailed is dispatched when a call of kind Op fails.
	OpFailed struct {
		Op      Op
		Seq     uint64
		Message string
	}
	FetchSucceeded struct {
		Seq  uint64
		Page models.Page
	}
	EntryCreated struct{ Entry models.Entry }
	EntryUpdated struct{ Entry models.Entry }
	EntryDeleted struct{ ID int }

	SearchTextSet         struct{ Text string }
	PageSet               struct{ Page int }
	DisplayModeSet        struct{ Mode DisplayMode }
	DirectoryErrorCleared struct{}
)

func (OpStarted) directoryEvent()             {}
func (OpFailed) directoryEvent()              {}
func (FetchSucceeded) directoryEvent()        {}
func (EntryCreated) directoryEvent()          {}
func (EntryUpdated) directoryEvent()          {}
func (EntryDeleted) directoryEvent()          {}
func (SearchTextSet) directoryEvent()         {}
func (PageSet) directoryEvent()               {}
func (DisplayModeSet) directoryEvent()        {}
func (DirectoryErrorCleared) directoryEvent() {}

// IsStale reports whether a fetch outcome with seq has been superseded by
// a later fetch.
func (s DirectoryState) IsStale(seq uint64) bool {
	return seq < s.FetchSeq
}

// ReduceDirectory applies ev to s. The input state, including its Entries
// slice, is never modified.
func ReduceDirectory(s DirectoryState, ev DirectoryEvent) DirectoryState {
	switch e := ev.(type) {
	case OpStarted:
		if e.Op == OpFetch && e.Seq > s.FetchSeq {
			s.FetchSeq = e.Seq
		}
		s.RequestStatus = Pending
		s.ErrorMessage = ""

	case OpFailed:
		if e.Op == OpFetch && s.IsStale(e.Seq) {
			return s
		}
		s.RequestStatus = Failed
		s.ErrorMessage = e.Message

	case FetchSucceeded:
		if s.IsStale(e.Seq) {
			return s
		}
		s.Entries = uniqueByID(e.Page.Entries)
		s.CurrentPage = max(e.Page.Page, 1)
		s.TotalPages = max(e.Page.TotalPages, 1)
		s.ViewPage = 1
		s.RequestStatus = Idle

	case EntryCreated:
		s.Entries = upsert(s.Entries, e.Entry)
		s.RequestStatus = Idle

	case EntryUpdated:
		if i := indexOf(s.Entries, e.Entry.ID); i >= 0 {
			s.Entries = slices.Clone(s.Entries)
			s.Entries[i] = e.Entry
		}
		s.RequestStatus = Idle

	case EntryDeleted:
		if indexOf(s.Entries, e.ID) >= 0 {
			s.Entries = slices.DeleteFunc(slices.Clone(s.Entries), func(x models.Entry) bool { return x.ID == e.ID })
		}
		s.RequestStatus = Idle

	case SearchTextSet:
		s.SearchText = e.Text

	case PageSet:
		s.ViewPage = max(e.Page, 1)

	case DisplayModeSet:
		s.DisplayMode = e.Mode
		s.SearchText = ""
		s.ViewPage = 1

	case DirectoryErrorCleared:
		s.ErrorMessage = ""
	}
	return s
}

func indexOf(entries []models.Entry, id int) int {
	return slices.IndexFunc(entries, func(x models.Entry) bool { return x.ID == id })
}

// upsert appends e, or replaces the entry that already has e's ID in place.
func upsert(entries []models.Entry, e models.Entry) []models.Entry {
	out := slices.Clone(entries)
	if i := indexOf(out, e.ID); i >= 0 {
		out[i] = e
		return out
	}
	return append(out, e)
}

// uniqueByID copies entries dropping later duplicates of an ID.
func uniqueByID(entries []models.Entry) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}
