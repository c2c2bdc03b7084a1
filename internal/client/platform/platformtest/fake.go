// Package platformtest provides an in-memory Platform for tests of the
// client services and state.
package platformtest

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/aora/internal/client/models"
	"github.com/dmitrijs2005/aora/internal/client/platform"
	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/wire"
	"github.com/google/uuid"
)

// MinPasswordLen mirrors the platform password rule.
const MinPasswordLen = 8

type account struct {
	identity models.Identity
	password string
}

// Fake is a goroutine-safe in-memory platform. Methods that are not public
// require the held session secret to be valid, as the real platform does.
type Fake struct {
	Endpoint string
	Project  string

	// RejectWhileActive makes CreateEmailSession fail while the held secret
	// still names a live session.
	RejectWhileActive bool

	// UploadHook runs before a file is stored, outside the lock.
	UploadHook func(ctx context.Context, file platform.UploadFile) error

	mu       sync.Mutex
	secret   string
	accounts map[string]*account
	byEmail  map[string]string
	sessions map[string]models.Session
	docs     map[string][]wire.Document
	files    map[string][]byte
	meta     map[string]models.StoredFile
	errs     map[string]error
	calls    map[string]int
	clock    time.Time
}

var _ platform.Platform = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		Endpoint: "http://platform.test/v1",
		Project:  "test",
		accounts: map[string]*account{},
		byEmail:  map[string]string{},
		sessions: map[string]models.Session{},
		docs:     map[string][]wire.Document{},
		files:    map[string][]byte{},
		meta:     map[string]models.StoredFile{},
		errs:     map[string]error{},
		calls:    map[string]int{},
		clock:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Fail makes every later call of method return err; nil clears it.
func (f *Fake) Fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, method)
		return
	}
	f.errs[method] = err
}

// Calls returns how many times method was invoked.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// SessionCount returns the number of live sessions.
func (f *Fake) SessionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

// Documents returns a copy of the documents of a collection in insertion
// order.
func (f *Fake) Documents(collectionID string) []wire.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []wire.Document
	for key, docs := range f.docs {
		if strings.HasSuffix(key, "/"+collectionID) {
			out = append(out, docs...)
		}
	}
	return out
}

// FileCount returns the number of stored files.
func (f *Fake) FileCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

// enter records the call and checks injected errors and, for private
// methods, the session. Callers hold f.mu.
func (f *Fake) enter(method string) error {
	f.calls[method]++
	if err := f.errs[method]; err != nil {
		return err
	}
	if wire.Public(method) {
		return nil
	}
	if _, ok := f.sessions[f.secret]; !ok {
		return fmt.Errorf("%w: no active session", common.ErrAuth)
	}
	return nil
}

func (f *Fake) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *Fake) SetSession(secret string) {
	f.mu.Lock()
	f.secret = secret
	f.mu.Unlock()
}

func (f *Fake) ClearSession() { f.SetSession("") }

func (f *Fake) SessionSecret() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.secret
}

func (f *Fake) CreateAccount(_ context.Context, id, email, password, name string) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(wire.CreateAccount); err != nil {
		return nil, err
	}
	if email == "" || len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: %w: password must be at least %d characters", common.ErrRemote, common.ErrInvalidArgument, MinPasswordLen)
	}
	if _, ok := f.byEmail[email]; ok {
		return nil, fmt.Errorf("%w: account %s", common.ErrAlreadyExists, email)
	}
	if id == "" {
		id = uuid.NewString()
	}
	a := &account{identity: models.Identity{ID: id, Email: email, Name: name}, password: password}
	f.accounts[id] = a
	f.byEmail[email] = id
	out := a.identity
	return &out, nil
}

func (f *Fake) CreateEmailSession(_ context.Context, email, password string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(wire.CreateEmailSession); err != nil {
		return nil, err
	}
	if _, active := f.sessions[f.secret]; active && f.RejectWhileActive {
		return nil, fmt.Errorf("%w: a session is already active", common.ErrRemote)
	}
	id, ok := f.byEmail[email]
	if !ok || f.accounts[id].password != password {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrAuth)
	}
	s := models.Session{
		ID:        uuid.NewString(),
		AccountID: id,
		Secret:    uuid.NewString(),
		ExpiresAt: f.clock.Add(365 * 24 * time.Hour),
	}
	f.sessions[s.Secret] = s
	return &s, nil
}

func (f *Fake) DeleteSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(wire.DeleteSession); err != nil {
		return err
	}
	if sessionID == common.CurrentSession {
		delete(f.sessions, f.secret)
		return nil
	}
	for secret, s := range f.sessions {
		if s.ID == sessionID {
			delete(f.sessions, secret)
			return nil
		}
	}
	return fmt.Errorf("%w: session %s", common.ErrNotFound, sessionID)
}

func (f *Fake) GetAccount(context.Context) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(wire.GetAccount); err != nil {
		return nil, err
	}
	out := f.accounts[f.sessions[f.secret].AccountID].identity
	return &out, nil
}

func (f *Fake) CreateDocument(_ context.Context, databaseID, collectionID, documentID string, data map[string]any) (wire.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(wire.CreateDocument); err != nil {
		return wire.Document{}, err
	}
	if documentID == "" {
		documentID = uuid.NewString()
	}
	key := databaseID + "/" + collectionID
	for _, d := range f.docs[key] {
		if d.ID == documentID {
			return wire.Document{}, fmt.Errorf("%w: document %s", common.ErrAlreadyExists, documentID)
		}
	}
	copied := make(map[string]any, len(data))
	for k, v := range data {
		copied[k] = v
	}
	doc := wire.Document{ID: documentID, CollectionID: collectionID, CreatedAt: f.tick(), Data: copied}
	f.docs[key] = append(f.docs[key], doc)
	return doc, nil
}

func (f *Fake) ListDocuments(_ context.Context, databaseID, collectionID string, queries ...wire.Query) ([]wire.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(wire.ListDocuments); err != nil {
		return nil, err
	}

	out := make([]wire.Document, 0)
	for _, d := range f.docs[databaseID+"/"+collectionID] {
		if matchAll(d, queries) {
			out = append(out, d)
		}
	}

	for _, q := range queries {
		switch q.Method {
		case wire.QueryOrderDesc, wire.QueryOrderAsc:
			desc := q.Method == wire.QueryOrderDesc
			attr := q.Attribute
			sort.SliceStable(out, func(i, j int) bool {
				if desc {
					return less(out[j], out[i], attr)
				}
				return less(out[i], out[j], attr)
			})
		}
	}
	for _, q := range queries {
		if q.Method == wire.QueryLimit && len(q.Values) == 1 {
			if n, ok := q.Values[0].(int); ok && n >= 0 && n < len(out) {
				out = out[:n]
			}
		}
	}
	return out, nil
}

func matchAll(d wire.Document, queries []wire.Query) bool {
	for _, q := range queries {
		switch q.Method {
		case wire.QueryEqual:
			got := fmt.Sprint(d.Data[q.Attribute])
			hit := false
			for _, v := range q.Values {
				if fmt.Sprint(v) == got {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
		case wire.QuerySearch:
			if len(q.Values) == 0 {
				continue
			}
			text := strings.ToLower(fmt.Sprint(d.Data[q.Attribute]))
			for _, word := range strings.Fields(strings.ToLower(fmt.Sprint(q.Values[0]))) {
				if !strings.Contains(text, word) {
					return false
				}
			}
		}
	}
	return true
}

func less(a, b wire.Document, attr string) bool {
	if attr == wire.AttrCreatedAt {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return fmt.Sprint(a.Data[attr]) < fmt.Sprint(b.Data[attr])
}

func (f *Fake) CreateFile(ctx context.Context, bucketID, fileID string, file platform.UploadFile) (*models.StoredFile, error) {
	f.mu.Lock()
	err := f.enter(wire.CreateUpload)
	hook := f.UploadHook
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if hook != nil {
		if err := hook(ctx, file); err != nil {
			return nil, err
		}
	}
	body, err := io.ReadAll(file.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %w", common.ErrRemote, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if fileID == "" {
		fileID = uuid.NewString()
	}
	sf := models.StoredFile{ID: fileID, Bucket: bucketID, Name: file.Name, MimeType: file.MimeType, Size: int64(len(body))}
	f.files[bucketID+"/"+fileID] = body
	f.meta[bucketID+"/"+fileID] = sf
	return &sf, nil
}

func (f *Fake) url(query url.Values, path ...string) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("project", f.Project)
	return strings.TrimRight(f.Endpoint, "/") + "/" + strings.Join(path, "/") + "?" + query.Encode()
}

func (f *Fake) FileViewURL(bucketID, fileID string) (string, error) {
	return f.url(nil, "storage", "buckets", bucketID, "files", fileID, "view"), nil
}

func (f *Fake) FilePreviewURL(bucketID, fileID string, opts platform.PreviewOptions) (string, error) {
	q := url.Values{}
	q.Set("width", fmt.Sprint(opts.Width))
	q.Set("height", fmt.Sprint(opts.Height))
	q.Set("gravity", opts.Gravity)
	q.Set("quality", fmt.Sprint(opts.Quality))
	return f.url(q, "storage", "buckets", bucketID, "files", fileID, "preview"), nil
}

func (f *Fake) InitialsURL(name string) (string, error) {
	return f.url(url.Values{"name": {name}}, "avatars", "initials"), nil
}
