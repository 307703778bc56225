package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "roomadmin/errors"

	"github.com/go-resty/resty/v2"
)

// Query là filter/paging theo cú pháp PostgREST
type Query struct {
	params url.Values
	order  []string
	limit  int
	offset int
	count  bool
}

func NewQuery() *Query {
	return &Query{params: url.Values{}}
}

// Select chọn cột, ví dụ "*,room_packages(*)"
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column string, value interface{}) *Query {
	q.params.Add(column, "eq."+fmt.Sprint(value))
	return q
}

// ILike lọc chứa chuỗi, không phân biệt hoa thường
func (q *Query) ILike(column, contains string) *Query {
	q.params.Add(column, "ilike.*"+contains+"*")
	return q
}

func (q *Query) Gte(column string, value interface{}) *Query {
	q.params.Add(column, "gte."+fmt.Sprint(value))
	return q
}

func (q *Query) Lte(column string, value interface{}) *Query {
	q.params.Add(column, "lte."+fmt.Sprint(value))
	return q
}

// Contains lọc cột mảng chứa tất cả giá trị
func (q *Query) Contains(column string, values []string) *Query {
	q.params.Add(column, "cs.{"+strings.Join(values, ",")+"}")
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = append(q.order, column+"."+dir)
	return q
}

// Page đặt limit/offset theo page bắt đầu từ 0
func (q *Query) Page(page, limit int) *Query {
	q.limit = limit
	q.offset = page * limit
	return q
}

func (q *Query) Limit(limit int) *Query {
	q.limit = limit
	return q
}

// Count yêu cầu tổng số bản ghi qua Content-Range
func (q *Query) Count() *Query {
	q.count = true
	return q
}

// Values trả về query string đã build
func (q *Query) Values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	for key, vals := range q.params {
		v[key] = append([]string(nil), vals...)
	}
	if len(q.order) > 0 {
		v.Set("order", strings.Join(q.order, ","))
	}
	if q.limit > 0 {
		v.Set("limit", strconv.Itoa(q.limit))
	}
	if q.offset > 0 {
		v.Set("offset", strconv.Itoa(q.offset))
	}
	return v
}

// DataGateway là adapter tới REST data API
type DataGateway interface {
	Select(ctx context.Context, table string, q *Query, out interface{}) (int, error)
	Insert(ctx context.Context, table string, body interface{}, out interface{}) error
	Update(ctx context.Context, table string, q *Query, body interface{}, out interface{}) error
	Delete(ctx context.Context, table string, q *Query) error
}

// RestGateway implement DataGateway trên /rest/v1
type RestGateway struct {
	client  *resty.Client
	anonKey string
	session SessionSource
}

func NewRestGateway(opts RemoteOptions) *RestGateway {
	return &RestGateway{
		client:  newRestyClient(opts, "/rest/v1"),
		anonKey: opts.AnonKey,
		session: opts.Session,
	}
}

// Select đọc bản ghi; khi q.Count() được bật thì trả tổng số, ngược lại trả -1
func (g *RestGateway) Select(ctx context.Context, table string, q *Query, out interface{}) (int, error) {
	prefer := ""
	if q != nil && q.count {
		prefer = "count=exact"
	}
	resp, err := g.do(ctx, http.MethodGet, table, q, nil, prefer, out)
	if err != nil {
		return 0, err
	}
	if prefer == "" {
		return -1, nil
	}
	return parseContentRange(resp.Header().Get("Content-Range")), nil
}

func (g *RestGateway) Insert(ctx context.Context, table string, body interface{}, out interface{}) error {
	_, err := g.do(ctx, http.MethodPost, table, nil, body, "return=representation", out)
	return err
}

func (g *RestGateway) Update(ctx context.Context, table string, q *Query, body interface{}, out interface{}) error {
	_, err := g.do(ctx, http.MethodPatch, table, q, body, "return=representation", out)
	return err
}

func (g *RestGateway) Delete(ctx context.Context, table string, q *Query) error {
	_, err := g.do(ctx, http.MethodDelete, table, q, nil, "", nil)
	return err
}

func (g *RestGateway) do(ctx context.Context, method, table string, q *Query, body interface{}, prefer string, out interface{}) (*resty.Response, error) {
	req := g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+bearer(g.session, g.anonKey)).
		SetQueryParamsFromValues(q.Values())
	if prefer != "" {
		req.SetHeader("Prefer", prefer)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, "/"+table)
	if err != nil {
		return nil, transportError(err)
	}
	if err := checkResponse(ctx, resp, g.session, true); err != nil {
		return resp, err
	}
	return resp, decodeBody(resp, out)
}

// parseContentRange đọc tổng số từ header dạng "0-9/42" hoặc "*/0"
func parseContentRange(header string) int {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0
	}
	total, err := strconv.Atoi(header[idx+1:])
	if err != nil {
		return 0
	}
	return total
}

// firstOrNotFound lấy phần tử đầu của kết quả select theo id
func firstOrNotFound[T any](rows []T, notFound error) (*T, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeNotFound, "Không tìm thấy dữ liệu", notFound)
	}
	return &rows[0], nil
}
