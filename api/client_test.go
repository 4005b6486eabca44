package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/internal/fakeapi"
	"github.com/google/go-cmp/cmp"
)

// stub serves a single canned answer and records the last request.
type stub struct {
	status int
	body   string
	req    *http.Request
	data   []byte
}

func (s *stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.req = r
	s.data, _ = io.ReadAll(r.Body)
	w.WriteHeader(s.status)
	io.WriteString(w, s.body)
}

func newStubClient(t *testing.T, status int, body string, token string) (*Client, *stub) {
	t.Helper()
	st := &stub{status: status, body: body}
	srv := httptest.NewServer(st)
	t.Cleanup(srv.Close)
	session, _ := NewSession(nil)
	if token != "" {
		_ = session.SetToken(token)
	}
	return New(srv.URL, session), st
}

func TestRequestHeaders(t *testing.T) {
	testCases := []struct {
		name       string
		token      string
		header     http.Header
		wantAuth   string
		wantCT     string
		wantCustom string
	}{
		{name: "anonymous", wantCT: "application/json"},
		{name: "authenticated", token: "abc", wantAuth: "Bearer abc", wantCT: "application/json"},
		{
			name:     "caller overrides",
			token:    "abc",
			header:   http.Header{"Authorization": {"Bearer other"}, "Content-Type": {"text/plain"}, "X-Trace": {"1"}},
			wantAuth: "Bearer other", wantCT: "text/plain", wantCustom: "1",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, st := newStubClient(t, http.StatusOK, `{}`, tc.token)
			if err := c.Request(context.Background(), "/x", RequestOptions{Header: tc.header}, nil); err != nil {
				t.Fatalf("Request() unexpected error: %v", err)
			}
			if got := st.req.Header.Get("Authorization"); got != tc.wantAuth {
				t.Errorf("Authorization = %q, want %q", got, tc.wantAuth)
			}
			if got := st.req.Header.Get("Content-Type"); got != tc.wantCT {
				t.Errorf("Content-Type = %q, want %q", got, tc.wantCT)
			}
			if got := st.req.Header.Get("X-Trace"); got != tc.wantCustom {
				t.Errorf("X-Trace = %q, want %q", got, tc.wantCustom)
			}
		})
	}
}

func TestRequestFailures(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "detail", status: http.StatusUnauthorized, body: `{"detail":"Invalid PIN"}`, want: "Invalid PIN"},
		{name: "validation", status: http.StatusUnprocessableEntity, body: `{"detail":[{"loc":["body","pin"],"msg":"field required","type":"missing"}]}`, want: "field required"},
		{name: "no detail", status: http.StatusInternalServerError, body: `{"error":"boom"}`, want: RequestFailed},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, want: RequestFailed},
		{name: "empty", status: http.StatusNotFound, body: ``, want: RequestFailed},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newStubClient(t, tc.status, tc.body, "")
			var out map[string]any
			err := c.Request(context.Background(), "/x", RequestOptions{}, &out)
			var rerr *RequestError
			if !errors.As(err, &rerr) {
				t.Fatalf("Request() error = %v, want a *RequestError", err)
			}
			if rerr.StatusCode != tc.status || err.Error() != tc.want {
				t.Errorf("got %d %q, want %d %q", rerr.StatusCode, err.Error(), tc.status, tc.want)
			}
		})
	}
}

func TestRequestErrorIs(t *testing.T) {
	err := error(&RequestError{StatusCode: http.StatusUnauthorized, Detail: "Invalid PIN"})
	if !errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
		t.Errorf("a 401 must match ErrUnauthorized only")
	}
}

func TestRequestNoContent(t *testing.T) {
	c, st := newStubClient(t, http.StatusNoContent, ``, "abc")
	out := map[string]any{"untouched": true}
	if err := c.Request(context.Background(), "/categories/3", RequestOptions{Method: http.MethodDelete}, &out); err != nil {
		t.Fatalf("Request() unexpected error: %v", err)
	}
	if st.req.Method != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", st.req.Method)
	}
	if diff := cmp.Diff(map[string]any{"untouched": true}, out); diff != "" {
		t.Errorf("204 must not decode (-want +got):\n%s", diff)
	}
}

func TestRequestDecodeError(t *testing.T) {
	c, _ := newStubClient(t, http.StatusOK, `[1, 2`, "")
	_, err := c.Categories(context.Background())
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Errorf("Categories() error = %v, want a *DecodeError", err)
	}
}

func TestRequestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := New(addr, nil)
	_, err := c.Status(context.Background())
	var nerr *NetworkError
	if !errors.As(err, &nerr) {
		t.Errorf("Status() error = %v, want a *NetworkError", err)
	}
}

func TestRequestBody(t *testing.T) {
	c, st := newStubClient(t, http.StatusCreated, `{"id":7,"name":"Pets","type":"expense","is_default":false,"icon":null,"color":null,"created_at":"2026-01-02T03:04:05.123456"}`, "abc")
	got, err := c.CreateCategory(context.Background(), budget.NewCategory{Name: "Pets", Type: budget.Expense})
	if err != nil {
		t.Fatalf("CreateCategory() unexpected error: %v", err)
	}
	if got.ID != 7 || got.Icon != nil {
		t.Errorf("got %+v, want id 7 and no icon", got)
	}
	if want := `{"name":"Pets","type":"expense"}`; string(st.data) != want {
		t.Errorf("body = %s, want %s", st.data, want)
	}
}

func TestPatchCarriesSuppliedFieldsOnly(t *testing.T) {
	c, st := newStubClient(t, http.StatusOK, `{"id":1}`, "abc")
	active := false
	if _, err := c.UpdateRecurring(context.Background(), 1, budget.RecurringPatch{IsActive: &active}); err != nil {
		t.Fatalf("UpdateRecurring() unexpected error: %v", err)
	}
	if want := `{"is_active":false}`; string(st.data) != want {
		t.Errorf("body = %s, want %s", st.data, want)
	}
	if st.req.Method != http.MethodPut || st.req.URL.Path != "/recurring/1" {
		t.Errorf("got %s %s, want PUT /recurring/1", st.req.Method, st.req.URL.Path)
	}
}

func TestTransactionQuery(t *testing.T) {
	testCases := []struct {
		name   string
		filter budget.TransactionFilter
		want   string
	}{
		{name: "none", want: ""},
		{name: "type", filter: budget.TransactionFilter{Type: budget.Expense}, want: "type=expense"},
		{
			name:   "all",
			filter: budget.TransactionFilter{StartDate: date.New(2026, 1, 1), EndDate: date.New(2026, 1, 31), CategoryID: 4, Type: budget.Income},
			want:   "category_id=4&end_date=2026-01-31&start_date=2026-01-01&type=income",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, st := newStubClient(t, http.StatusOK, `[]`, "abc")
			if _, err := c.Transactions(context.Background(), tc.filter); err != nil {
				t.Fatalf("Transactions() unexpected error: %v", err)
			}
			if got := st.req.URL.RawQuery; got != tc.want {
				t.Errorf("query = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTrendsBounds(t *testing.T) {
	c, st := newStubClient(t, http.StatusOK, `[]`, "abc")
	if _, err := c.Trends(context.Background(), 0); err != nil {
		t.Fatalf("Trends(0) unexpected error: %v", err)
	}
	if st.req.URL.RawQuery != "" {
		t.Errorf("Trends(0) query = %q, want none", st.req.URL.RawQuery)
	}
	if _, err := c.Trends(context.Background(), budget.MaxTrendMonths+1); err == nil {
		t.Errorf("Trends(%d) expected an error", budget.MaxTrendMonths+1)
	}
}

func TestUploadCSV(t *testing.T) {
	c, st := newStubClient(t, http.StatusOK, `{"rows":[],"errors":["Row 2: Amount must be positive"]}`, "abc")
	preview, err := c.UploadCSV(context.Background(), "bank.csv", strings.NewReader("date,amount,type,category\n2026-01-01,-3,expense,Food\n"))
	if err != nil {
		t.Fatalf("UploadCSV() unexpected error: %v", err)
	}
	if len(preview.Errors) != 1 {
		t.Errorf("got %+v, want one error", preview)
	}
	if got := st.req.Header.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer abc")
	}
	if ct := st.req.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
		t.Errorf("Content-Type = %q, want multipart with a boundary", ct)
	}
	if !strings.Contains(string(st.data), `name="file"; filename="bank.csv"`) {
		t.Errorf("multipart body has no file field:\n%s", st.data)
	}
}

func TestUploadFallback(t *testing.T) {
	c, _ := newStubClient(t, http.StatusBadRequest, `nope`, "abc")
	_, err := c.UploadCSV(context.Background(), "bank.csv", strings.NewReader(""))
	if err == nil || err.Error() != UploadFailed {
		t.Errorf("UploadCSV() error = %v, want %q", err, UploadFailed)
	}
}

// TestEndToEnd runs setup, login and a wrong PIN against the fake API.
func TestEndToEnd(t *testing.T) {
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()
	ctx := context.Background()

	store := &MemoryTokenStore{}
	session, _ := NewSession(store)
	c := New(srv.URL+fakeapi.Prefix, session)

	status, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("Status() unexpected error: %v", err)
	}
	if status.IsSetup || c.IsAuthenticated() {
		t.Fatalf("got setup=%v authenticated=%v, want a fresh server", status.IsSetup, c.IsAuthenticated())
	}

	if _, err := c.SetupPin(ctx, "1234"); err != nil {
		t.Fatalf("SetupPin() unexpected error: %v", err)
	}
	first, _ := store.Load()
	if !c.IsAuthenticated() || first == "" {
		t.Fatalf("SetupPin() did not store the token")
	}

	if _, err := c.Login(ctx, "1234"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	before, _ := c.Session().Token()
	_, err = c.Login(ctx, "0000")
	if !errors.Is(err, ErrUnauthorized) || err.Error() != "Invalid PIN" {
		t.Errorf("Login(wrong) error = %v, want 401 %q", err, "Invalid PIN")
	}
	if after, _ := c.Session().Token(); after != before {
		t.Errorf("a failed login changed the token")
	}

	if _, err := c.SetupPin(ctx, "5678"); err == nil || err.Error() != "PIN already set up" {
		t.Errorf("SetupPin() twice error = %v, want %q", err, "PIN already set up")
	}

	cats, err := c.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories() unexpected error: %v", err)
	}
	if len(cats) == 0 || !cats[0].IsDefault {
		t.Errorf("got %d categories, want the default ones first", len(cats))
	}

	if err := c.ClearToken(); err != nil {
		t.Fatalf("ClearToken() unexpected error: %v", err)
	}
	if _, err := c.Categories(ctx); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Categories() after logout error = %v, want ErrUnauthorized", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	fake := fakeapi.New()
	fake.TokenTTL = time.Hour
	exp, err := TokenExpiry(fake.Token())
	if err != nil {
		t.Fatalf("TokenExpiry() unexpected error: %v", err)
	}
	if d := time.Until(exp); d <= 0 || d > time.Hour {
		t.Errorf("token expires in %v, want within the hour", d)
	}
	if _, err := TokenExpiry("not-a-token"); err == nil {
		t.Errorf("TokenExpiry(garbage) expected an error")
	}
}
