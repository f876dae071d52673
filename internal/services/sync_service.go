package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/learnify/learnify/internal/cloud"
	"github.com/learnify/learnify/internal/errors"
	"github.com/learnify/learnify/internal/logger"
	"github.com/learnify/learnify/internal/models"
)

// SyncService reconciles the remote store against the local one. A pass
// is a point-in-time snapshot: quizzes present remotely but missing
// locally, ready to be adopted one at a time or all at once.
type SyncService interface {
	Load(ctx context.Context, ownerID string) (*SyncPass, error)
}

type syncService struct {
	history HistoryService
	cloud   cloud.Store
}

func NewSyncService(history HistoryService, cloudStore cloud.Store) SyncService {
	return &syncService{history: history, cloud: cloudStore}
}

// Load fetches the owner's remote history and diffs it against local ids.
// A fetch failure yields a connectivity error and no partial pass.
func (s *syncService) Load(ctx context.Context, ownerID string) (*SyncPass, error) {
	log := logger.FromContext(ctx).WithPrefix("sync")
	log.Debug("loading sync pass: owner=%s", ownerID)

	local, err := s.history.ListAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	localIDs := make(map[string]struct{}, len(local))
	for _, rec := range local {
		localIDs[rec.ID] = struct{}{}
	}

	remote, err := s.cloud.FetchAll(ctx, ownerID)
	if err != nil {
		log.Error("remote fetch failed: owner=%s, err=%v", ownerID, err)
		return nil, errors.NewConnectivityError(err)
	}

	// Remote ordering (newest first) is preserved in the missing list.
	missing := make([]models.CloudQuiz, 0, len(remote))
	for _, cq := range remote {
		if _, ok := localIDs[cq.Record.ID]; !ok {
			missing = append(missing, cq)
		}
	}
	log.Info("sync pass loaded: owner=%s, remote=%d, missing=%d", ownerID, len(remote), len(missing))

	return &SyncPass{
		ownerID: ownerID,
		history: s.history,
		missing: missing,
		sortBy:  models.SortLatest,
	}, nil
}

// SyncPass holds the quizzes missing locally for one owner, plus a
// filter and sort applied at read time. Adoption mutates the pass;
// callers share it across goroutines safely.
type SyncPass struct {
	mu      sync.Mutex
	ownerID string
	history HistoryService
	missing []models.CloudQuiz
	filter  string
	sortBy  models.SortMode
}

func (p *SyncPass) OwnerID() string {
	return p.ownerID
}

// SetFilter narrows Items to topics containing the given substring,
// case-insensitively. An empty filter shows everything.
func (p *SyncPass) SetFilter(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter = strings.TrimSpace(query)
}

func (p *SyncPass) SetSort(mode models.SortMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sortBy = mode
}

// Items returns the still-missing quizzes under the current filter and
// sort. The returned slice is a copy.
func (p *SyncPass) Items() []models.CloudQuiz {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]models.CloudQuiz, 0, len(p.missing))
	needle := strings.ToLower(p.filter)
	for _, cq := range p.missing {
		if needle == "" || strings.Contains(strings.ToLower(cq.Record.Topic), needle) {
			items = append(items, cq)
		}
	}

	switch p.sortBy {
	case models.SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Record.CompletedAt < items[j].Record.CompletedAt
		})
	case models.SortAlphabetical:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Record.Topic) < strings.ToLower(items[j].Record.Topic)
		})
	case models.SortAccuracyLow:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Record.Accuracy() < items[j].Record.Accuracy()
		})
	case models.SortAccuracyHigh:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Record.Accuracy() > items[j].Record.Accuracy()
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Record.CompletedAt > items[j].Record.CompletedAt
		})
	}
	return items
}

// Remaining reports how many quizzes are still missing, ignoring the
// filter.
func (p *SyncPass) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.missing)
}

// AdoptOne copies a single missing quiz into the local store and drops
// it from the pass. Adopting an id not in the pass is a not-found error.
func (p *SyncPass) AdoptOne(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, cq := range p.missing {
		if cq.Record.ID != id {
			continue
		}
		p.history.UpsertRaw(ctx, cq.Record, cq.RawPayload)
		p.missing = append(p.missing[:i], p.missing[i+1:]...)
		logger.FromContext(ctx).Info("adopted remote quiz: id=%s, owner=%s", id, p.ownerID)
		return nil
	}
	return errors.NewNotFoundError("remote quiz", id)
}

// AdoptAll copies every missing quiz into the local store, regardless of
// the filter, and empties the pass.
func (p *SyncPass) AdoptAll(ctx context.Context) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	adopted := len(p.missing)
	for _, cq := range p.missing {
		p.history.UpsertRaw(ctx, cq.Record, cq.RawPayload)
	}
	p.missing = nil
	if adopted > 0 {
		logger.FromContext(ctx).Info("adopted %d remote quizzes: owner=%s", adopted, p.ownerID)
	}
	return adopted
}
