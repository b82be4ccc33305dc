package services

import (
	"context"
	"strings"
	"sync"
	"time"

	types "github.com/peiassist/backend/internal/domain"
	"github.com/peiassist/backend/internal/platform/logger"
)

// Autosave statuses. "saved" is held briefly for user feedback only; it adds
// no durability guarantee beyond the store call having returned.
const (
	AutosaveIdle   = "idle"
	AutosaveSaving = "saving"
	AutosaveSaved  = "saved"
)

// AutosaveService periodically snapshots the draft and writes it through the
// storage service. A plan is only persisted once the student name is filled;
// the identifier assigned on the first save is propagated back into the draft
// before the next cycle so later cycles update the same record.
type AutosaveService struct {
	log       *logger.Logger
	draft     *PeiDraft
	storage   *StorageService
	interval  time.Duration
	savedHold time.Duration

	// saveMu serializes whole save cycles. The ticker loop and a manual save
	// can otherwise both observe a nil id and create two records.
	saveMu sync.Mutex

	mu         sync.Mutex
	status     string
	savedTimer *time.Timer
}

func NewAutosaveService(baseLog *logger.Logger, draft *PeiDraft, storage *StorageService, interval, savedHold time.Duration) *AutosaveService {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if savedHold <= 0 {
		savedHold = 2 * time.Second
	}
	return &AutosaveService{
		log:       baseLog.With("service", "AutosaveService"),
		draft:     draft,
		storage:   storage,
		interval:  interval,
		savedHold: savedHold,
		status:    AutosaveIdle,
	}
}

// Start runs the reconciler loop until ctx is done.
func (s *AutosaveService) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *AutosaveService) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Autosave loop stopped")
			return
		case <-ticker.C:
			if err := s.SaveNow(ctx); err != nil {
				s.log.Warn("Autosave cycle failed", "error", err)
			}
		}
	}
}

// SaveNow performs one reconcile cycle immediately. The snapshot is taken
// atomically at the instant of the call; a blank student name skips the write
// entirely.
func (s *AutosaveService) SaveNow(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	snap := s.draft.Snapshot()
	studentName := strings.TrimSpace(snap.Data[types.FieldStudentName])
	if studentName == "" {
		return nil
	}

	s.setStatus(AutosaveSaving)
	saved, err := s.storage.SavePei(ctx, snap.ID, studentName, snap)
	if err != nil {
		s.setStatus(AutosaveIdle)
		return err
	}
	if snap.ID == nil {
		s.draft.SetID(saved.ID)
		s.log.Info("Assigned plan identifier", "pei_id", saved.ID)
	}

	s.holdSaved()
	return nil
}

func (s *AutosaveService) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *AutosaveService) setStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.savedTimer != nil {
		s.savedTimer.Stop()
		s.savedTimer = nil
	}
	s.status = status
}

func (s *AutosaveService) holdSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.savedTimer != nil {
		s.savedTimer.Stop()
	}
	s.status = AutosaveSaved
	s.savedTimer = time.AfterFunc(s.savedHold, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.status == AutosaveSaved {
			s.status = AutosaveIdle
		}
	})
}
