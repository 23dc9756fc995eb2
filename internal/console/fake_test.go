package console

import (
	"CaseTrack/internal/model"
	"CaseTrack/internal/recordstore"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// fakeStore — хранилище в памяти, записывающее порядок вызовов.
type fakeStore struct {
	mu    sync.Mutex
	cases map[string]model.Case
	subs  map[string]model.ContactSubmission
	blobs map[string][]byte
	calls []string
	seq   int

	listErr       error
	insertErr     error
	updateErr     error
	deleteErr     error
	uploadErr     error
	markErr       error
	deleteBlobErr error

	// блокирует UploadBlob для дела (ключ по id), пока канал не закрыт
	uploadGates map[string]chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cases: map[string]model.Case{},
		subs:  map[string]model.ContactSubmission{},
		blobs: map[string][]byte{},
	}
}

var _ recordstore.Client = (*fakeStore)(nil)

func (f *fakeStore) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeStore) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStore) StartSession(context.Context, string, string) (*recordstore.Session, error) {
	return &recordstore.Session{UserID: "u1", Email: "admin@x.io"}, nil
}
func (f *fakeStore) EndSession(context.Context) error { return nil }
func (f *fakeStore) CurrentSession(context.Context) (*recordstore.Session, error) {
	return nil, nil
}
func (f *fakeStore) SubscribeSession(func(*recordstore.Session)) func() { return func() {} }

func (f *fakeStore) ListCases(context.Context) ([]model.Case, error) {
	f.record("list_cases")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Case, 0, len(f.cases))
	for _, c := range f.cases {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) FindCaseByNumber(_ context.Context, n string) (*model.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cases {
		if c.CaseNumber == n {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) InsertCase(_ context.Context, c model.Case) (*model.Case, error) {
	f.record("insert_case")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.seq++
	c.ID = fmt.Sprintf("case-%d", f.seq)
	c.CreatedAt = time.Unix(int64(f.seq), 0)
	f.cases[c.ID] = c
	return &c, nil
}

func (f *fakeStore) UpdateCase(_ context.Context, id string, patch map[string]any) error {
	f.record("update_case")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	c, ok := f.cases[id]
	if !ok {
		return recordstore.ErrNotFound
	}
	for k, v := range patch {
		switch k {
		case "status":
			c.Status = model.Status(v.(string))
		case "full_name":
			c.FullName = v.(string)
		case "pdf_file_name":
			s := v.(string)
			c.PDFFileName = &s
		case "pdf_file_url":
			s := v.(string)
			c.PDFFileURL = &s
		case "pdf_uploaded_at":
			t := v.(time.Time)
			c.PDFUploadedAt = &t
		}
	}
	f.cases[id] = c
	return nil
}

func (f *fakeStore) DeleteCase(_ context.Context, id string) error {
	f.record("delete_case")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.cases, id)
	return nil
}

func (f *fakeStore) ListSubmissions(context.Context) ([]model.ContactSubmission, error) {
	f.record("list_submissions")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.ContactSubmission, 0, len(f.subs))
	for _, s := range f.subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) MarkSubmissionRead(_ context.Context, id string) error {
	f.record("mark_read")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	s, ok := f.subs[id]
	if !ok {
		return recordstore.ErrNotFound
	}
	s.IsRead = true
	f.subs[id] = s
	return nil
}

func (f *fakeStore) DeleteSubmission(_ context.Context, id string) error {
	f.record("delete_submission")
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, id)
	return nil
}

func (f *fakeStore) UploadBlob(_ context.Context, key string, data []byte, opts recordstore.UploadOptions) error {
	f.record("upload_blob")
	if gate := f.gateFor(key); gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if _, ok := f.blobs[key]; ok && opts.NoOverwrite {
		return recordstore.ErrConflict
	}
	f.blobs[key] = data
	return nil
}

// holdUploads блокирует загрузки для дела до вызова release.
func (f *fakeStore) holdUploads(caseID string) (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	if f.uploadGates == nil {
		f.uploadGates = map[string]chan struct{}{}
	}
	f.uploadGates[caseID] = gate
	f.mu.Unlock()
	return func() { close(gate) }
}

func (f *fakeStore) gateFor(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, gate := range f.uploadGates {
		if strings.HasPrefix(key, id+"-") {
			return gate
		}
	}
	return nil
}

func (f *fakeStore) DeleteBlob(_ context.Context, key string) error {
	f.record("delete_blob")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteBlobErr != nil {
		return f.deleteBlobErr
	}
	delete(f.blobs, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string { return "http://cases.test/files/" + key }

func (f *fakeStore) DispatchContact(context.Context, recordstore.ContactMessage) bool { return true }

var errBackend = errors.New("backend down")

func validForm(b *Board, number string) {
	b.NewForm()
	_ = b.Set("case_number", number)
	_ = b.Set("full_name", "Jane Roe")
	_ = b.Set("id_number", "ID-1")
	_ = b.Set("email", "jane@x.io")
	_ = b.Set("phone_number", "+1 555")
	_ = b.Set("country", "US")
}
