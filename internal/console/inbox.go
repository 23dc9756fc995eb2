package console

import (
	"CaseTrack/internal/model"
	"CaseTrack/internal/recordstore"
	"context"
	"sync"

	"go.uber.org/zap"
)

const (
	bannerSubmissionsFailed = "Failed to load submissions"
	msgMarkReadFailed       = "Failed to mark as read"
	msgSubmissionDelete     = "Failed to delete submission"
)

// Inbox — список обращений с отметкой о прочтении и удалением.
type Inbox struct {
	store  recordstore.Client
	logger *zap.SugaredLogger

	mu            sync.Mutex
	items         []model.ContactSubmission
	banner        string
	inlineErr     string
	pendingDelete *model.ContactSubmission
	closed        bool
}

func NewInbox(store recordstore.Client, logger *zap.SugaredLogger) *Inbox {
	return &Inbox{store: store, logger: logger}
}

func (in *Inbox) Close() {
	in.mu.Lock()
	in.closed = true
	in.mu.Unlock()
}

// Refresh перечитывает обращения. При ошибке список пуст и выставлен баннер.
func (in *Inbox) Refresh(ctx context.Context) error {
	list, err := in.store.ListSubmissions(ctx)

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return ErrClosed
	}
	if err != nil {
		in.logger.Errorw("failed to load submissions", "error", err)
		in.items = nil
		in.banner = bannerSubmissionsFailed
		return err
	}
	in.items = list
	in.banner = ""
	return nil
}

func (in *Inbox) Submissions() []model.ContactSubmission {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]model.ContactSubmission(nil), in.items...)
}

func (in *Inbox) Banner() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.banner
}

func (in *Inbox) InlineError() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.inlineErr
}

// UnreadCount считает непрочитанные обращения в кеше.
func (in *Inbox) UnreadCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := 0
	for _, s := range in.items {
		if !s.IsRead {
			n++
		}
	}
	return n
}

// Find ищет обращение в кеше по id.
func (in *Inbox) Find(id string) (model.ContactSubmission, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	for _, s := range in.items {
		if s.ID == id {
			return s, true
		}
	}
	return model.ContactSubmission{}, false
}

// MarkRead отмечает обращение прочитанным и правит кеш без перечитывания.
// Повторный вызов безопасен.
func (in *Inbox) MarkRead(ctx context.Context, id string) error {
	if _, ok := in.Find(id); !ok {
		return ErrUnknownSubmission
	}
	err := in.store.MarkSubmissionRead(ctx, id)

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return ErrClosed
	}
	if err != nil {
		in.inlineErr = recordstore.Message(err, msgMarkReadFailed)
		in.logger.Warnw("mark read failed", "submission_id", id, "error", err)
		return err
	}
	for i := range in.items {
		if in.items[i].ID == id {
			in.items[i].IsRead = true
		}
	}
	in.inlineErr = ""
	return nil
}

// RequestDelete запоминает обращение, ожидающее подтверждения.
func (in *Inbox) RequestDelete(id string) (model.ContactSubmission, error) {
	s, ok := in.Find(id)
	if !ok {
		return model.ContactSubmission{}, ErrUnknownSubmission
	}
	in.mu.Lock()
	in.pendingDelete = &s
	in.mu.Unlock()
	return s, nil
}

func (in *Inbox) CancelDelete() {
	in.mu.Lock()
	in.pendingDelete = nil
	in.mu.Unlock()
}

// ConfirmDelete удаляет обращение и убирает его из кеша.
func (in *Inbox) ConfirmDelete(ctx context.Context) error {
	in.mu.Lock()
	if in.pendingDelete == nil {
		in.mu.Unlock()
		return ErrNoPendingDelete
	}
	id := in.pendingDelete.ID
	in.pendingDelete = nil
	in.mu.Unlock()

	err := in.store.DeleteSubmission(ctx, id)

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return ErrClosed
	}
	if err != nil {
		in.inlineErr = recordstore.Message(err, msgSubmissionDelete)
		in.logger.Warnw("delete submission failed", "submission_id", id, "error", err)
		return err
	}
	kept := in.items[:0]
	for _, s := range in.items {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	in.items = kept
	in.inlineErr = ""
	return nil
}

// PendingDelete возвращает обращение, ожидающее подтверждения.
func (in *Inbox) PendingDelete() (model.ContactSubmission, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.pendingDelete == nil {
		return model.ContactSubmission{}, false
	}
	return *in.pendingDelete, true
}
