// Package appstate owns what one user is looking at: the last search, the
// open product detail and the active results tab.
package appstate

import (
	"context"
	"strings"
	"sync"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/usecases"
)

type Tab string

const (
	TabMultiple Tab = "multiple-source"
	TabSingle   Tab = "single-source"
)

func ParseTab(s string) (Tab, bool) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabMultiple:
		return TabMultiple, true
	case TabSingle:
		return TabSingle, true
	}
	return "", false
}

type DetailPhase int

const (
	DetailClosed DetailPhase = iota
	DetailLoading
	DetailLoaded
	DetailFailed
)

func (p DetailPhase) String() string {
	switch p {
	case DetailLoading:
		return "loading"
	case DetailLoaded:
		return "loaded"
	case DetailFailed:
		return "failed"
	default:
		return "closed"
	}
}

// Ticket identifies one started request. A completion carrying an older
// ticket than the latest Begin call is dropped.
type Ticket uint64

type DetailView struct {
	Phase     DetailPhase
	ProductID string
	Result    usecases.DetailResult
	Err       error
}

type State struct {
	mu sync.Mutex

	query       usecases.QueryContext
	translation *shopping.Translation
	tab         Tab

	results    usecases.SearchResult
	hasResults bool

	searchGen    Ticket
	searchCancel context.CancelFunc

	detail       DetailView
	detailGen    Ticket
	detailCancel context.CancelFunc
}

func New() *State {
	return &State{tab: TabMultiple}
}

func (s *State) SetQuery(qc usecases.QueryContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = qc
}

func (s *State) Query() usecases.QueryContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetTranslation stores tr for display; the query text is left as typed.
func (s *State) SetTranslation(tr shopping.Translation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translation = &tr
}

func (s *State) Translation() (shopping.Translation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.translation == nil {
		return shopping.Translation{}, false
	}
	return *s.translation, true
}

func (s *State) ClearTranslation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translation = nil
}

func (s *State) SetTab(t Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = t
}

func (s *State) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// BeginSearch cancels any search still in flight and returns the ticket and
// context for the new one.
func (s *State) BeginSearch(parent context.Context) (Ticket, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.searchCancel != nil {
		s.searchCancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.searchGen++
	s.searchCancel = cancel
	return s.searchGen, ctx
}

// CompleteSearch stores res unless a newer search was started meanwhile.
func (s *State) CompleteSearch(t Ticket, res usecases.SearchResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.searchGen {
		return false
	}
	s.releaseSearch()
	s.results = res
	s.hasResults = true
	s.tab = TabMultiple
	return true
}

// FailSearch ends the search without touching the previous results.
func (s *State) FailSearch(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.searchGen {
		return false
	}
	s.releaseSearch()
	return true
}

func (s *State) releaseSearch() {
	if s.searchCancel != nil {
		s.searchCancel()
		s.searchCancel = nil
	}
}

func (s *State) Results() (usecases.SearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results, s.hasResults
}

// Product returns the search hit at index of tab.
func (s *State) Product(tab Tab, index int) (shopping.ProductSummary, shopping.Geolocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.results.Multi
	if tab == TabSingle {
		list = s.results.Single
	}
	if !s.hasResults || index < 0 || index >= len(list) {
		return shopping.ProductSummary{}, shopping.Geolocation{}, false
	}
	return list[index], s.results.SourceGeo(tab == TabSingle), true
}

// BeginDetail opens the detail in the loading phase. A fetch still in
// flight for another product is cancelled.
func (s *State) BeginDetail(parent context.Context, productID string) (Ticket, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detailCancel != nil {
		s.detailCancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.detailGen++
	s.detailCancel = cancel
	s.detail = DetailView{Phase: DetailLoading, ProductID: productID}
	return s.detailGen, ctx
}

func (s *State) FinishDetail(t Ticket, res usecases.DetailResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.detailGen || s.detail.Phase != DetailLoading {
		return false
	}
	s.releaseDetail()
	s.detail.Phase = DetailLoaded
	s.detail.Result = res
	return true
}

func (s *State) FailDetail(t Ticket, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.detailGen || s.detail.Phase != DetailLoading {
		return false
	}
	s.releaseDetail()
	s.detail.Phase = DetailFailed
	s.detail.Err = err
	return true
}

// CloseDetail drops the held detail from any phase.
func (s *State) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseDetail()
	s.detailGen++
	s.detail = DetailView{}
}

func (s *State) releaseDetail() {
	if s.detailCancel != nil {
		s.detailCancel()
		s.detailCancel = nil
	}
}

func (s *State) Detail() DetailView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail
}

// CanSave reports whether a loaded detail is available for saving.
func (s *State) CanSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail.Phase == DetailLoaded
}
