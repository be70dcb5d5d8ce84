package importtracker

import (
	"context"
	"sync"

	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/infrastructure/importclient"
)

// fakeAPI answers from scripted responses and counts calls
type fakeAPI struct {
	mu sync.Mutex

	uploads   []importclient.File
	receipts  []*bulk.UploadReceipt
	uploadErr error

	statusCalls map[string]int
	statusFn    func(id string, call int) (*bulk.ImportJob, error)

	historyCalls int
	histories    [][]bulk.ImportHistoryEntry
	historyGates map[int]chan struct{}
	deleted      []string

	botStatusCalls int
	botHistory     []bulk.ImportHistoryEntry
	botDeleted     []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{statusCalls: make(map[string]int)}
}

func (f *fakeAPI) Upload(_ context.Context, file importclient.File) (*bulk.UploadReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, file)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	r := f.receipts[0]
	f.receipts = f.receipts[1:]
	return r, nil
}

func (f *fakeAPI) Status(_ context.Context, id string) (*bulk.ImportJob, error) {
	f.mu.Lock()
	f.statusCalls[id]++
	call, fn := f.statusCalls[id], f.statusFn
	f.mu.Unlock()

	if fn == nil {
		return &bulk.ImportJob{ID: id, Status: bulk.ImportStatusProcessing}, nil
	}
	return fn(id, call)
}

func (f *fakeAPI) History(ctx context.Context, _ int) (*bulk.HistoryPage, error) {
	f.mu.Lock()
	f.historyCalls++
	gate := f.historyGates[f.historyCalls]
	var imports []bulk.ImportHistoryEntry
	if len(f.histories) > 0 {
		imports = f.histories[0]
		if len(f.histories) > 1 {
			f.histories = f.histories[1:]
		}
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &bulk.HistoryPage{Imports: imports, Total: int64(len(imports))}, nil
}

func (f *fakeAPI) DeleteHistory(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) BotStatus(context.Context) (*bulk.BotStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.botStatusCalls++
	return &bulk.BotStatus{CSVImporter: bulk.CSVImporterStats{RecentImports: f.botStatusCalls}}, nil
}

func (f *fakeAPI) BotHistory(_ context.Context, limit int) (*bulk.HistoryPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &bulk.HistoryPage{Imports: f.botHistory, Limit: limit}, nil
}

func (f *fakeAPI) DeleteBotHistory(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.botDeleted = append(f.botDeleted, id)
	kept := f.botHistory[:0]
	for _, e := range f.botHistory {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	f.botHistory = kept
	return nil
}

func (f *fakeAPI) statusCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls[id]
}

func (f *fakeAPI) totalStatusCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.statusCalls {
		n += c
	}
	return n
}

func (f *fakeAPI) historyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.historyCalls
}

func (f *fakeAPI) botStatusCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.botStatusCalls
}
