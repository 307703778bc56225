package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"roomadmin/dto"

	"github.com/goccy/go-json"
)

// recorder ghi thứ tự các lời gọi remote của fake gateway
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(ev string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, ev := range r.all() {
		if strings.HasPrefix(ev, prefix) {
			n++
		}
	}
	return n
}

func (r *recorder) index(ev string) int {
	for i, e := range r.all() {
		if e == ev {
			return i
		}
	}
	return -1
}

type dataCall struct {
	op    string
	table string
	query url.Values
	body  interface{}
}

// fakeData là DataGateway trong bộ nhớ; kết quả trả về được cấu hình theo bảng
type fakeData struct {
	rec *recorder

	mu     sync.Mutex
	calls  []dataCall
	rows   map[string]interface{}
	total  int
	insert map[string]interface{}
	update map[string]interface{}

	selectErr error
	insertErr map[string]error
	updateErr error
	deleteErr error
}

func newFakeData(rec *recorder) *fakeData {
	return &fakeData{
		rec:       rec,
		rows:      map[string]interface{}{},
		insert:    map[string]interface{}{},
		update:    map[string]interface{}{},
		insertErr: map[string]error{},
	}
}

func (f *fakeData) record(op, table string, q *Query, body interface{}) {
	f.mu.Lock()
	f.calls = append(f.calls, dataCall{op: op, table: table, query: q.Values(), body: body})
	f.mu.Unlock()
	if f.rec != nil {
		f.rec.add(op + ":" + table)
	}
}

func (f *fakeData) callsOf(op string) []dataCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dataCall
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeData) Select(ctx context.Context, table string, q *Query, out interface{}) (int, error) {
	f.record("select", table, q, nil)
	if f.selectErr != nil {
		return 0, f.selectErr
	}
	return f.total, copyInto(f.rows[table], out)
}

func (f *fakeData) Insert(ctx context.Context, table string, body interface{}, out interface{}) error {
	f.record("insert", table, nil, body)
	if err := f.insertErr[table]; err != nil {
		return err
	}
	if rows, ok := f.insert[table]; ok {
		return copyInto(rows, out)
	}
	// mặc định trả lại chính body với id = 1
	return copyInto([]interface{}{withID(body, 1)}, out)
}

func (f *fakeData) Update(ctx context.Context, table string, q *Query, body interface{}, out interface{}) error {
	f.record("update", table, q, body)
	if f.updateErr != nil {
		return f.updateErr
	}
	return copyInto(f.update[table], out)
}

func (f *fakeData) Delete(ctx context.Context, table string, q *Query) error {
	f.record("delete", table, q, nil)
	return f.deleteErr
}

func copyInto(src, out interface{}) error {
	if src == nil || out == nil {
		return nil
	}
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func withID(body interface{}, id int64) map[string]interface{} {
	m := map[string]interface{}{}
	_ = copyInto(body, &m)
	m["id"] = id
	return m
}

// fakeImages là ImageGateway ghi lại upload/delete
type fakeImages struct {
	rec *recorder

	mu        sync.Mutex
	uploadErr error
	failURLs  map[string]bool
	deleted   []string
	seq       int
}

func (f *fakeImages) UploadImages(ctx context.Context, files []*dto.ImageFile, bucket string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	urls := make([]string, len(files))
	for i, file := range files {
		if f.rec != nil {
			f.rec.add("upload:" + file.Name)
		}
		f.seq++
		urls[i] = fmt.Sprintf("https://cdn.test/%s/new-%d-%s", bucket, f.seq, file.Name)
	}
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return urls, nil
}

func (f *fakeImages) DeleteImage(ctx context.Context, url, bucket string) error {
	if f.rec != nil {
		f.rec.add("delete-image:" + url)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failURLs[url] {
		return errors.New("storage unavailable")
	}
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeImages) deletedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type fakeLedger struct {
	mu      sync.Mutex
	entries []string
}

func (l *fakeLedger) Record(ctx context.Context, bucket, url, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, reason+":"+url)
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) Publish(event string, payload interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}
