// Package console — административная часть: дела и обращения,
// кешированные списки, формы и загрузка вложений.
package console

import (
	"CaseTrack/internal/blob"
	"CaseTrack/internal/model"
	"CaseTrack/internal/pdfcheck"
	"CaseTrack/internal/recordstore"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	bannerCasesFailed = "Failed to load cases"
	msgSaveFailed     = "Failed to save case"
	msgDeleteFailed   = "Failed to delete case"
	msgUploadFailed   = "Failed to upload PDF"
)

// Board — список дел администратора с формой, удалением и загрузкой PDF.
type Board struct {
	store  recordstore.Client
	logger *zap.SugaredLogger
	now    func() time.Time

	mu            sync.Mutex
	cases         []model.Case
	banner        string
	inlineErr     string
	form          *Form
	saving        bool
	pendingDelete *model.Case
	uploading     map[string]bool
	closed        bool
}

func NewBoard(store recordstore.Client, logger *zap.SugaredLogger) *Board {
	return &Board{
		store:     store,
		logger:    logger,
		now:       time.Now,
		uploading: make(map[string]bool),
	}
}

// Close отмечает представление закрытым: дальнейшие результаты отбрасываются.
func (b *Board) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

// Refresh перечитывает список. При ошибке список пуст и выставлен баннер.
func (b *Board) Refresh(ctx context.Context) error {
	list, err := b.store.ListCases(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if err != nil {
		b.logger.Errorw("failed to load cases", "error", err)
		b.cases = nil
		b.banner = bannerCasesFailed
		return err
	}
	b.cases = list
	b.banner = ""
	return nil
}

// Cases возвращает копию кеша (новые сверху).
func (b *Board) Cases() []model.Case {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Case(nil), b.cases...)
}

// Search фильтрует кеш без обращения к серверу.
func (b *Board) Search(query string) []model.Case {
	return Filter(b.Cases(), query)
}

// Filter: номер, имя и email без учёта регистра, телефон с учётом регистра.
// Пустой запрос возвращает всё.
func Filter(cases []model.Case, query string) []model.Case {
	if query == "" {
		return cases
	}
	q := strings.ToLower(query)
	out := make([]model.Case, 0, len(cases))
	for _, c := range cases {
		if strings.Contains(strings.ToLower(c.CaseNumber), q) ||
			strings.Contains(strings.ToLower(c.FullName), q) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(c.PhoneNumber, query) {
			out = append(out, c)
		}
	}
	return out
}

// Find ищет дело в кеше по id или точному номеру.
func (b *Board) Find(ref string) (model.Case, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.cases {
		if c.ID == ref || c.CaseNumber == ref {
			return c, true
		}
	}
	return model.Case{}, false
}

func (b *Board) Banner() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.banner
}

// InlineError — текст последней ошибки формы, удаления или загрузки.
func (b *Board) InlineError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inlineErr
}

// NewForm открывает пустую форму создания.
func (b *Board) NewForm() {
	b.mu.Lock()
	defer b.mu.Unlock()
	f := NewForm()
	b.form = &f
	b.inlineErr = ""
}

// EditForm открывает форму редактирования дела из кеша.
func (b *Board) EditForm(ref string) error {
	c, ok := b.Find(ref)
	if !ok {
		return ErrUnknownCase
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	f := EditForm(c)
	b.form = &f
	b.inlineErr = ""
	return nil
}

// Form возвращает копию открытой формы.
func (b *Board) Form() (Form, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.form == nil {
		return Form{}, false
	}
	return *b.form, true
}

// Set меняет поле открытой формы.
func (b *Board) Set(field, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.form == nil {
		return ErrNoForm
	}
	return b.form.Set(field, value)
}

// Cancel закрывает форму без сохранения.
func (b *Board) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.form = nil
	b.inlineErr = ""
}

// Save создаёт или обновляет дело из формы. При ошибке форма остаётся открытой.
func (b *Board) Save(ctx context.Context) error {
	b.mu.Lock()
	if b.form == nil {
		b.mu.Unlock()
		return ErrNoForm
	}
	if b.saving {
		b.mu.Unlock()
		return ErrSaveInProgress
	}
	f := *b.form
	if err := f.Validate(); err != nil {
		b.inlineErr = err.Error()
		b.mu.Unlock()
		return err
	}
	b.saving = true
	b.mu.Unlock()

	var err error
	if f.IsNew() {
		_, err = b.store.InsertCase(ctx, f.Record())
	} else {
		err = b.store.UpdateCase(ctx, f.CaseID, f.Patch())
	}

	b.mu.Lock()
	b.saving = false
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		b.inlineErr = recordstore.Message(err, msgSaveFailed)
		b.mu.Unlock()
		b.logger.Warnw("save case failed", "case_id", f.CaseID, "error", err)
		return err
	}
	b.form = nil
	b.inlineErr = ""
	b.mu.Unlock()

	if f.IsNew() {
		b.logger.Infow("case created", "case_number", f.CaseNumber)
	} else {
		b.logger.Infow("case updated", "case_id", f.CaseID)
	}
	return b.Refresh(ctx)
}

// RequestDelete запоминает дело, ожидающее подтверждения удаления.
func (b *Board) RequestDelete(ref string) (model.Case, error) {
	c, ok := b.Find(ref)
	if !ok {
		return model.Case{}, ErrUnknownCase
	}
	b.mu.Lock()
	b.pendingDelete = &c
	b.mu.Unlock()
	return c, nil
}

// PendingDelete возвращает дело, ожидающее подтверждения.
func (b *Board) PendingDelete() (model.Case, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pendingDelete == nil {
		return model.Case{}, false
	}
	return *b.pendingDelete, true
}

func (b *Board) CancelDelete() {
	b.mu.Lock()
	b.pendingDelete = nil
	b.mu.Unlock()
}

// ConfirmDelete удаляет вложение (без гарантий), затем запись и перечитывает список.
func (b *Board) ConfirmDelete(ctx context.Context) error {
	b.mu.Lock()
	if b.pendingDelete == nil {
		b.mu.Unlock()
		return ErrNoPendingDelete
	}
	c := *b.pendingDelete
	b.pendingDelete = nil
	b.mu.Unlock()

	if c.HasAttachment() {
		if key := blob.KeyFromURL(*c.PDFFileURL); key != "" {
			if err := b.store.DeleteBlob(ctx, key); err != nil {
				b.logger.Warnw("attachment delete failed", "case_id", c.ID, "key", key, "error", err)
			}
		}
	}

	if err := b.store.DeleteCase(ctx, c.ID); err != nil {
		b.mu.Lock()
		if !b.closed {
			b.inlineErr = recordstore.Message(err, msgDeleteFailed)
		}
		b.mu.Unlock()
		b.logger.Warnw("delete case failed", "case_id", c.ID, "error", err)
		return err
	}
	b.logger.Infow("case deleted", "case_id", c.ID)
	return b.Refresh(ctx)
}

// Upload прикрепляет PDF к делу: загрузка без перезаписи, затем одна запись всей тройки.
// Для одного дела одновременно идёт не больше одной загрузки.
func (b *Board) Upload(ctx context.Context, caseID, fileName string, data []byte) error {
	if !pdfcheck.HasPDFExtension(fileName) || !pdfcheck.Sniff(data) {
		b.setInline(ErrNotPDF.Error())
		return ErrNotPDF
	}

	b.mu.Lock()
	if b.uploading[caseID] {
		b.mu.Unlock()
		return ErrUploadInProgress
	}
	b.uploading[caseID] = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.uploading, caseID)
		b.mu.Unlock()
	}()

	now := b.now()
	key := fmt.Sprintf("%s-%d%s", caseID, now.UnixMilli(), pdfcheck.ExtensionPDF)
	if err := b.store.UploadBlob(ctx, key, data, recordstore.UploadOptions{NoOverwrite: true}); err != nil {
		b.setInline(recordstore.Message(err, msgUploadFailed))
		b.logger.Warnw("pdf upload failed", "case_id", caseID, "key", key, "error", err)
		return err
	}

	att := model.Attachment{FileName: fileName, FileURL: b.store.PublicURL(key), UploadedAt: now}
	if err := b.store.UpdateCase(ctx, caseID, att.Patch()); err != nil {
		// тройка не записана, файл без ссылки не нужен
		if derr := b.store.DeleteBlob(ctx, key); derr != nil {
			b.logger.Warnw("orphan attachment cleanup failed", "key", key, "error", derr)
		}
		b.setInline(recordstore.Message(err, msgUploadFailed))
		b.logger.Warnw("attach pdf failed", "case_id", caseID, "error", err)
		return err
	}
	b.logger.Infow("pdf attached", "case_id", caseID, "key", key, "size", len(data))
	return b.Refresh(ctx)
}

// Uploading сообщает, идёт ли загрузка для дела.
func (b *Board) Uploading(caseID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploading[caseID]
}

func (b *Board) setInline(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.inlineErr = msg
	}
}
